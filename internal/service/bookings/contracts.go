package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-BayScheduler/internal/service/planner"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByLocation(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
	Reschedule(ctx context.Context, id int64, bookingDate, startAt time.Time) error
}

// Planner проверка свободного бокса для переносимой записи
type Planner interface {
	Reserve(ctx context.Context, req planner.SlotRequest) (*planner.Reservation, error)
}

// Notifier отправка уведомлений участнику
type Notifier interface {
	NotifyMemberAsync(userID int64, msg notifier.Message)
}

// Metrics интерфейс для метрик записи
type Metrics interface {
	ObserveBookingWrite(operation, outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
