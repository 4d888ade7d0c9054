package planner

import (
	"context"
	"errors"
	"fmt"

	locationRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/location"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

// Service проверяет, что новую или переносимую запись можно разместить в свободном боксе
// Вызывается внутри сериализуемой транзакции: записи дня читаются с блокировкой,
// поэтому два параллельных запроса не займут один и тот же бокс
type Service struct {
	locationRepo LocationRepository
	demand       DemandLoader
	zone         schedule.CivilZone
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр планировщика
func NewService(
	locationRepo LocationRepository,
	demand DemandLoader,
	zone schedule.CivilZone,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		locationRepo: locationRepo,
		demand:       demand,
		zone:         zone,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Reserve проверяет слот и возвращает размещение записи
func (s *Service) Reserve(ctx context.Context, req SlotRequest) (*Reservation, error) {
	date, err := s.zone.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	startMinute, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: total service duration must be positive", ErrInvalidInput)
	}

	// 1. Точка и праздничный календарь
	location, err := s.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("Reserve: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("Reserve: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	isHoliday, err := s.locationRepo.IsHoliday(ctx, req.LocationID, date)
	if err != nil {
		s.logger.Error("Reserve: failed to check holiday for location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
	}

	// 2. Рабочее окно
	window, open, err := s.zone.ResolveOperatingWindow(location, req.Date, isHoliday)
	if err != nil {
		s.logger.Warn("Reserve: location id=%d has invalid hours: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if !open {
		return nil, fmt.Errorf("%w: location is closed on %s", ErrOutsideOperatingHours, req.Date)
	}

	// 3. Время начала не должно быть в прошлом (по бизнес-времени)
	now := s.timeProvider.Now()
	todayISO := s.zone.DateOf(now)
	nowClock := s.zone.ClockOf(now)

	if err := checkNotInPast(req.Date, startMinute, todayISO, nowClock); err != nil {
		s.logger.Warn("Reserve: %v (date=%s start=%s now=%s %s)", err, req.Date, req.StartTime, todayISO, nowClock)
		return nil, err
	}

	// 4. Текущая занятость дня
	var demand []schedule.BookingDemand
	if req.ExcludeBookingID != nil {
		demand, err = s.demand.LoadDemandExcluding(ctx, req.LocationID, req.Date, *req.ExcludeBookingID)
	} else {
		demand, err = s.demand.LoadDemand(ctx, req.LocationID, req.Date)
	}
	if err != nil {
		s.logger.Error("Reserve: failed to load demand for location id=%d date=%s: %v", req.LocationID, req.Date, err)
		return nil, fmt.Errorf("%w: failed to load demand: %v", ErrInternal, err)
	}

	// 5. Размещение поверх существующих записей
	placement, err := schedule.PlanBooking(schedule.Input{
		BayCount: location.BayCount,
		Window:   window,
		Open:     open,
		DateISO:  req.Date,
		TodayISO: todayISO,
		NowClock: nowClock,
		Demand:   demand,
	}, schedule.BookingDemand{
		DateISO:              req.Date,
		StartMinute:          startMinute,
		TotalDurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrOutsideWindow), errors.Is(err, schedule.ErrClosed):
			return nil, fmt.Errorf("%w: %v", ErrOutsideOperatingHours, err)
		case errors.Is(err, schedule.ErrInvalidOperatingWindow), errors.Is(err, schedule.ErrNoCapacity):
			s.logger.Warn("Reserve: location id=%d misconfigured: %v", req.LocationID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	if placement.Overflowed {
		s.logger.Warn("Reserve: no free bay at location id=%d date=%s start=%s for %d min",
			req.LocationID, req.Date, req.StartTime, req.DurationMinutes)
		return nil, ErrSlotNotAvailable
	}

	s.logger.Info("Reserve: location id=%d date=%s start=%s -> bay %d", req.LocationID, req.Date, req.StartTime, placement.Bay)

	return &Reservation{
		Location:    location,
		BookingDate: date,
		StartAt:     window.InstantOf(date, startMinute),
		Placement:   placement,
	}, nil
}

// checkNotInPast отклоняет даты раньше сегодняшней и слоты сегодняшнего дня, которые уже начались
// Правило совпадает с фильтром прошедших слотов при расчете доступности
func checkNotInPast(dateISO string, startMinute int, todayISO, nowClock string) error {
	if dateISO < todayISO {
		return fmt.Errorf("%w: date %s is in the past", ErrTooLateToBook, dateISO)
	}
	if dateISO > todayISO {
		return nil
	}

	nowMinute, err := schedule.MinutesOfDay(nowClock)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if startMinute < nowMinute {
		return fmt.Errorf("%w: %s has already started", ErrTooLateToBook, schedule.MinutesToClock(startMinute))
	}
	return nil
}
