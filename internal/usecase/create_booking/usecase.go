package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/notifier"
	userClient "github.com/m04kA/SMC-BayScheduler/internal/integrations/userservice"
	"github.com/m04kA/SMC-BayScheduler/internal/service/demand"
	"github.com/m04kA/SMC-BayScheduler/internal/service/planner"
	"github.com/m04kA/SMC-BayScheduler/pkg/txmanager"
)

const operationCreate = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	planner     Planner
	userClient  UserServiceClient
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	planner Planner,
	userClient UserServiceClient,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		planner:     planner,
		userClient:  userClient,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка бокса и вставка идут в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, location=%d, vehicle=%d, services=%v, date=%s, time=%s",
		req.UserID, req.LocationID, req.VehicleID, req.ServiceIDs, req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.observe("rejected")
		return nil, err
	}

	// 2. Автомобиль участника (при недоступности UserService запись не блокируем)
	vehicle, err := uc.userClient.GetVehicleWithGracefulDegradation(ctx, req.UserID, req.VehicleID)
	if err != nil {
		switch {
		case errors.Is(err, userClient.ErrVehicleNotFound):
			uc.logger.Warn("CreateBooking: vehicle id=%d not found for user id=%d", req.VehicleID, req.UserID)
			uc.observe("rejected")
			return nil, ErrVehicleNotFound
		case errors.Is(err, userClient.ErrServiceDegraded):
			uc.logger.Warn("CreateBooking: skipping vehicle check for user id=%d: %v", req.UserID, err)
			vehicle = nil
		default:
			uc.logger.Error("CreateBooking: failed to get vehicle id=%d: %v", req.VehicleID, err)
			uc.observe("error")
			return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
		}
	}

	var (
		result      *domain.Booking
		reservation *planner.Reservation
		duration    int
		services    []domain.ServiceItem
	)

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Услуги из справочника
		services, err = uc.catalogRepo.GetByIDs(txCtx, req.ServiceIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get services %v: %v", req.ServiceIDs, err)
			return fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
		}
		if missing, ok := findMissingService(req.ServiceIDs, services); ok {
			uc.logger.Warn("CreateBooking: service id=%d not found", missing)
			return fmt.Errorf("%w: id=%d", ErrServiceNotFound, missing)
		}

		duration, err = demand.TotalDuration(services)
		if err != nil {
			uc.logger.Error("CreateBooking: %v", err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		// 3.2. Свободный бокс на всю длительность
		reservation, err = uc.planner.Reserve(txCtx, planner.SlotRequest{
			LocationID:      req.LocationID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
		})
		if err != nil {
			return mapPlannerError(err)
		}

		// 3.3. Создаем бронирование
		booking := &domain.Booking{
			UserID:      req.UserID,
			LocationID:  req.LocationID,
			VehicleID:   req.VehicleID,
			BookingDate: reservation.BookingDate,
			StartAt:     reservation.StartAt,
			Status:      domain.StatusPending,
			Services:    services,
			Notes:       req.Notes,
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if errors.Is(err, txmanager.ErrSerialization) {
		// Параллельная транзакция заняла тот же бокс раньше нас
		uc.logger.Warn("CreateBooking: concurrent booking for location=%d %s %s: %v",
			req.LocationID, req.Date, req.StartTime, err)
		err = fmt.Errorf("%w: concurrent booking", ErrSlotNotAvailable)
	}
	if err != nil {
		uc.observe(outcomeOf(err))
		return nil, err
	}

	uc.observe("ok")
	uc.logger.Info("CreateBooking: booking id=%d created (bay %d, %d min)",
		result.ID, reservation.Placement.Bay, duration)

	// 4. Уведомление после фиксации транзакции
	uc.notifier.NotifyMemberAsync(result.UserID, notifier.BookingCreated(result.ID, req.Date, req.StartTime.String()))

	return buildResponse(result, req, reservation, duration, vehicle), nil
}

// mapPlannerError переводит ошибки планировщика в ошибки use case
func mapPlannerError(err error) error {
	switch {
	case errors.Is(err, planner.ErrSlotNotAvailable):
		return ErrSlotNotAvailable
	case errors.Is(err, planner.ErrOutsideOperatingHours):
		return fmt.Errorf("%w: %v", ErrOutsideOperatingHours, err)
	case errors.Is(err, planner.ErrTooLateToBook):
		return fmt.Errorf("%w: %v", ErrTooLateToBook, err)
	case errors.Is(err, planner.ErrLocationNotFound):
		return ErrLocationNotFound
	case errors.Is(err, planner.ErrInvalidConfiguration):
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	case errors.Is(err, planner.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		return "conflict"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveBookingWrite(operationCreate, outcome)
	}
}

func buildResponse(b *domain.Booking, req *Request, r *planner.Reservation, duration int, vehicle *userClient.Vehicle) *Response {
	resp := &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		LocationID:      b.LocationID,
		VehicleID:       b.VehicleID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		StartAt:         b.StartAt,
		DurationMinutes: duration,
		Bay:             r.Placement.Bay,
		Status:          string(b.Status),
		Services:        b.Services,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	for _, s := range b.Services {
		if s.Price != nil {
			resp.TotalPrice += *s.Price
		}
	}

	if vehicle != nil {
		resp.VehicleBrand = &vehicle.Brand
		resp.VehicleModel = &vehicle.Model
		resp.VehicleLicensePlate = &vehicle.LicensePlate
	}

	return resp
}
