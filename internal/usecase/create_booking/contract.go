package create_booking

import (
	"context"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/userservice"
	"github.com/m04kA/SMC-BayScheduler/internal/service/planner"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogRepository интерфейс справочника услуг
type CatalogRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.ServiceItem, error)
}

// Planner проверка свободного бокса для записи
type Planner interface {
	Reserve(ctx context.Context, req planner.SlotRequest) (*planner.Reservation, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetVehicleWithGracefulDegradation(ctx context.Context, userID, vehicleID int64) (*userservice.Vehicle, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений участнику
type Notifier interface {
	NotifyMemberAsync(userID int64, msg notifier.Message)
}

// Metrics интерфейс для метрик записи
type Metrics interface {
	ObserveBookingWrite(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
