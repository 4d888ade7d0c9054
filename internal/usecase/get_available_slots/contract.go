package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

// LocationRepository интерфейс репозитория точек обслуживания
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	IsHoliday(ctx context.Context, locationID int64, date time.Time) (bool, error)
}

// DemandLoader источник занятости боксов на день
type DemandLoader interface {
	LoadDemand(ctx context.Context, locationID int64, dateISO string) ([]schedule.BookingDemand, error)
}

// Metrics метрики расчета доступности
type Metrics interface {
	ObserveAvailability(outcome string, slots, overflows int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
