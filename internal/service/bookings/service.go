package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-BayScheduler/internal/service/demand"
	"github.com/m04kA/SMC-BayScheduler/internal/service/planner"
	"github.com/m04kA/SMC-BayScheduler/pkg/txmanager"
	"github.com/m04kA/SMC-BayScheduler/pkg/types"
)

const (
	operationCancel     = "cancel"
	operationReschedule = "reschedule"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	planner     Planner
	txManager   TransactionManager
	notifier    Notifier
	zone        schedule.CivilZone
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	planner Planner,
	txManager TransactionManager,
	notifier Notifier,
	zone schedule.CivilZone,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		planner:     planner,
		txManager:   txManager,
		notifier:    notifier,
		zone:        zone,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Участник видит только своё бронирование, сотрудник точки - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := checkAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, s.zone), nil
}

// GetUserBookings получает историю записей участника
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.zone), nil
}

// ListByLocation получает записи точки на день
// Доступно только сотрудникам точки
func (s *Service) ListByLocation(ctx context.Context, req *models.GetLocationBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByLocation: fetching bookings for location=%d, date=%s, user=%d", req.LocationID, req.Date, req.UserID)

	if !req.IsStaff {
		s.logger.Warn("ListByLocation: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	if req.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	day, err := s.zone.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	filter, err := req.ToDomainFilter(day)
	if err != nil {
		s.logger.Warn("ListByLocation: invalid filter for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByLocation(ctx, filter)
	if err != nil {
		s.logger.Error("ListByLocation: repository error for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: ListByLocation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByLocation: successfully fetched %d bookings for location=%d", len(bookings), req.LocationID)
	return models.FromDomainBookingList(bookings, s.zone), nil
}

// Cancel отменяет бронирование
// Участник отменяет своё бронирование (cancelled_by_user), сотрудник - любое (cancelled_by_location)
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d (staff=%t)", bookingID, req.UserID, req.IsStaff)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.observe(operationCancel, "rejected")
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var (
		booking      *domain.Booking
		cancelStatus domain.BookingStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		// Определяем статус отмены в зависимости от прав доступа
		switch {
		case booking.UserID == req.UserID:
			cancelStatus = domain.StatusCancelledByUser
		case req.IsStaff:
			cancelStatus = domain.StatusCancelledByLocation
		default:
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, cancelStatus, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.observe(operationCancel, outcomeOf(err))
		return err
	}

	s.observe(operationCancel, "ok")
	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)

	s.notifier.NotifyMemberAsync(booking.UserID, notifier.BookingCancelled(
		bookingID, cancelStatus == domain.StatusCancelledByLocation, req.CancellationReason))

	return nil
}

// Reschedule переносит бронирование на другой день и время
// Проверка бокса выполняется так же, как при создании, но сама запись в расчете не участвует
func (s *Service) Reschedule(ctx context.Context, bookingID int64, req *models.RescheduleBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reschedule: booking id=%d to %s %s by user=%d", bookingID, req.Date, req.StartTime, req.UserID)

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		s.observe(operationReschedule, "rejected")
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	var booking *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.getBooking(txCtx, "Reschedule", bookingID)
		if err != nil {
			return err
		}

		if err := checkAccess(booking, req.Actor); err != nil {
			s.logger.Warn("Reschedule: access denied for user=%d to booking id=%d", req.UserID, bookingID)
			return err
		}

		if !booking.CanBeRescheduled() {
			s.logger.Warn("Reschedule: booking id=%d cannot be rescheduled, status=%s", bookingID, booking.Status)
			return ErrCannotReschedule
		}

		duration, err := demand.TotalDuration(booking.Services)
		if err != nil {
			s.logger.Error("Reschedule: booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		reservation, err := s.planner.Reserve(txCtx, planner.SlotRequest{
			LocationID:       booking.LocationID,
			Date:             req.Date,
			StartTime:        startTime,
			DurationMinutes:  duration,
			ExcludeBookingID: &booking.ID,
		})
		if err != nil {
			return mapPlannerError(err)
		}

		if err := s.bookingRepo.Reschedule(txCtx, bookingID, reservation.BookingDate, reservation.StartAt); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Reschedule: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		booking.BookingDate = reservation.BookingDate
		booking.StartAt = reservation.StartAt
		return nil
	})
	if errors.Is(err, txmanager.ErrSerialization) {
		s.logger.Warn("Reschedule: concurrent change for booking id=%d: %v", bookingID, err)
		err = fmt.Errorf("%w: concurrent booking", ErrSlotNotAvailable)
	}
	if err != nil {
		s.observe(operationReschedule, outcomeOf(err))
		return nil, err
	}

	s.observe(operationReschedule, "ok")
	s.logger.Info("Reschedule: booking id=%d moved to %s %s", bookingID, req.Date, startTime)

	s.notifier.NotifyMemberAsync(booking.UserID, notifier.BookingRescheduled(bookingID, req.Date, startTime.String()))

	return models.FromDomainBooking(booking, s.zone), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkAccess проверяет, что пользователь владелец бронирования или сотрудник точки
func checkAccess(booking *domain.Booking, actor models.Actor) error {
	if booking.UserID == actor.UserID || actor.IsStaff {
		return nil
	}
	return ErrAccessDenied
}

// mapPlannerError переводит ошибки планировщика в ошибки сервиса
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

func (s *Service) observe(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveBookingWrite(operation, outcome)
	}
}
