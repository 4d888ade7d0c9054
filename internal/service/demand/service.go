package demand

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

// Service собирает потребность в боксах на день из активных записей и их услуг
type Service struct {
	bookingRepo BookingRepository
	zone        schedule.CivilZone
	logger      Logger
}

// NewService создает новый экземпляр агрегатора записей
func NewService(bookingRepo BookingRepository, zone schedule.CivilZone, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		zone:        zone,
		logger:      logger,
	}
}

// LoadDemand возвращает потребность всех активных записей точки на дату
// Длительность записи - сумма средних длительностей ее услуг
// Записи без услуг в результат не попадают
func (s *Service) LoadDemand(ctx context.Context, locationID int64, dateISO string) ([]schedule.BookingDemand, error) {
	return s.load(ctx, locationID, dateISO, nil)
}

// LoadDemandExcluding то же, что LoadDemand, но без указанной записи
// Используется при переносе записи, чтобы она не конфликтовала сама с собой
func (s *Service) LoadDemandExcluding(ctx context.Context, locationID int64, dateISO string, bookingID int64) ([]schedule.BookingDemand, error) {
	return s.load(ctx, locationID, dateISO, &bookingID)
}

func (s *Service) load(ctx context.Context, locationID int64, dateISO string, excludeBookingID *int64) ([]schedule.BookingDemand, error) {
	date, err := s.zone.ParseDate(dateISO)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	bookings, err := s.bookingRepo.ListActiveWithServices(ctx, locationID, date, excludeBookingID)
	if err != nil {
		s.logger.Error("LoadDemand: repository error for location=%d date=%s: %v", locationID, dateISO, err)
		return nil, fmt.Errorf("%w: LoadDemand - repository error: %v", ErrInternal, err)
	}

	result := make([]schedule.BookingDemand, 0, len(bookings))
	for _, b := range bookings {
		if len(b.Services) == 0 {
			s.logger.Info("LoadDemand: booking id=%d has no services, skipped", b.ID)
			continue
		}

		total, err := TotalDuration(b.Services)
		if err != nil {
			s.logger.Error("LoadDemand: booking id=%d: %v", b.ID, err)
			return nil, err
		}

		start, err := schedule.MinutesOfDay(s.zone.ClockOf(b.StartAt))
		if err != nil {
			return nil, fmt.Errorf("%w: booking id=%d start: %v", ErrInternal, b.ID, err)
		}

		result = append(result, schedule.BookingDemand{
			BookingID:            b.ID,
			DateISO:              b.BookingDate.Format(domain.DateFormat),
			StartMinute:          start,
			TotalDurationMinutes: total,
		})
	}

	return result, nil
}

// TotalDuration суммирует длительности услуг в минутах
func TotalDuration(services []domain.ServiceItem) (int, error) {
	total := 0
	for _, svc := range services {
		minutes, err := schedule.MinutesOfDay(svc.AverageDuration)
		if err != nil {
			return 0, fmt.Errorf("%w: service id=%d: %v", ErrInvalidDuration, svc.ID, err)
		}
		total += minutes
	}
	return total, nil
}
