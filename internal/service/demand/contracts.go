package demand

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

// BookingRepository источник активных записей с услугами
type BookingRepository interface {
	ListActiveWithServices(ctx context.Context, locationID int64, date time.Time, excludeBookingID *int64) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
