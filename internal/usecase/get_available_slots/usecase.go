package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	locationRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/location"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

// UseCase use case для получения доступных слотов точки обслуживания
type UseCase struct {
	locationRepo LocationRepository
	demand       DemandLoader
	zone         schedule.CivilZone
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	locationRepo LocationRepository,
	demand DemandLoader,
	zone schedule.CivilZone,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		locationRepo: locationRepo,
		demand:       demand,
		zone:         zone,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: location=%d, date=%s", req.LocationID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.zone); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущие дата и время в бизнес-времени
	todayISO, nowClock, err := uc.currentMoment(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date, _ := uc.zone.ParseDate(req.Date)

	// 3. Точка, праздничный календарь и записи дня независимы и читаются параллельно
	var (
		location  *domain.Location
		isHoliday bool
		demand    []schedule.BookingDemand
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loc, err := uc.locationRepo.GetByID(gctx, req.LocationID)
		if err != nil {
			if errors.Is(err, locationRepo.ErrLocationNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
		}
		location = loc
		return nil
	})

	g.Go(func() error {
		holiday, err := uc.locationRepo.IsHoliday(gctx, req.LocationID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
		}
		isHoliday = holiday
		return nil
	})

	g.Go(func() error {
		d, err := uc.demand.LoadDemand(gctx, req.LocationID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
		}
		demand = d
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%d not found", req.LocationID)
			uc.metrics.ObserveAvailability("not_found", 0, 0)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: location=%d date=%s: %v", req.LocationID, req.Date, err)
		uc.metrics.ObserveAvailability("error", 0, 0)
		return nil, err
	}

	// 4. Рабочее окно на дату
	window, open, err := uc.zone.ResolveOperatingWindow(location, req.Date, isHoliday)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: location id=%d has invalid hours: %v", req.LocationID, err)
		uc.metrics.ObserveAvailability("invalid_configuration", 0, 0)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	// 5. Расчет
	result, err := schedule.ComputeAvailableSlots(schedule.Input{
		BayCount: location.BayCount,
		Window:   window,
		Open:     open,
		DateISO:  req.Date,
		TodayISO: todayISO,
		NowClock: nowClock,
		Demand:   demand,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidOperatingWindow) || errors.Is(err, schedule.ErrNoCapacity) {
			uc.logger.Warn("GetAvailableSlots: location id=%d misconfigured: %v", req.LocationID, err)
			uc.metrics.ObserveAvailability("invalid_configuration", 0, 0)
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		uc.logger.Error("GetAvailableSlots: compute failed for location=%d: %v", req.LocationID, err)
		uc.metrics.ObserveAvailability("error", 0, 0)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !open {
		uc.logger.Info("GetAvailableSlots: location=%d is closed on %s", req.LocationID, req.Date)
		uc.metrics.ObserveAvailability("closed", 0, 0)
		return &Response{
			Date:               req.Date,
			LocationID:         req.LocationID,
			Closed:             true,
			Slots:              []string{},
			OverflowedBookings: []OverflowedBooking{},
		}, nil
	}

	overflowed := uc.reportOverflows(req, window, result)
	uc.metrics.ObserveAvailability("ok", len(result.Slots), len(overflowed))

	uc.logger.Info("GetAvailableSlots: location=%d date=%s -> %d slots, %d overflowed",
		req.LocationID, req.Date, len(result.Slots), len(overflowed))

	return &Response{
		Date:               req.Date,
		LocationID:         req.LocationID,
		Slots:              result.Slots,
		OverflowedBookings: overflowed,
	}, nil
}

// currentMoment возвращает текущие дату и время: из запроса, если переданы, иначе из часов сервера
// Время-timestamp без currentDate задает и дату, чтобы время клиента не смешивалось с датой сервера
func (uc *UseCase) currentMoment(req *Request) (string, string, error) {
	now := uc.timeProvider.Now()
	todayISO := uc.zone.DateOf(now)
	nowClock := uc.zone.ClockOf(now)

	if req.CurrentTime != nil {
		clock, instantDate, err := normalizeClock(*req.CurrentTime, uc.zone)
		if err != nil {
			return "", "", err
		}
		nowClock = clock
		if instantDate != "" {
			todayISO = instantDate
		}
	}

	if req.CurrentDate != nil {
		todayISO = *req.CurrentDate
	}

	return todayISO, nowClock, nil
}
