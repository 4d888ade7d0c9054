package location

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

// Repository источник данных точек (postgres)
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	IsHoliday(ctx context.Context, locationID int64, date time.Time) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
