package planner

import (
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
	"github.com/m04kA/SMC-BayScheduler/pkg/types"
)

// SlotRequest желаемое размещение записи
type SlotRequest struct {
	LocationID      int64
	Date            string           // "YYYY-MM-DD", день рабочего окна
	StartTime       types.TimeString // "HH:MM"
	DurationMinutes int              // суммарная длительность услуг
	// ExcludeBookingID - запись, которая переносится и не должна занимать бокс при проверке
	ExcludeBookingID *int64
}

// Reservation результат успешной проверки слота
type Reservation struct {
	Location    *domain.Location
	BookingDate time.Time // день рабочего окна
	StartAt     time.Time // абсолютное время начала (после полуночи - следующий календарный день)
	Placement   schedule.Placement
}
