package get_available_slots

import (
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

// reportOverflows логирует записи, которым не нашлось бокса, и переводит их в модель ответа
// Такие записи не блокируют ни один бокс и не приводят к ошибке запроса
func (uc *UseCase) reportOverflows(req *Request, window schedule.OperatingWindow, result schedule.Result) []OverflowedBooking {
	overflows := result.Overflows()
	out := make([]OverflowedBooking, 0, len(overflows))

	for _, p := range overflows {
		start := schedule.MinutesToClock(window.SlotMinute(p.StartSlot))
		uc.logger.Warn("GetAvailableSlots: booking id=%d at %s (%d slots) does not fit any bay at location=%d date=%s",
			p.BookingID, start, p.Span, req.LocationID, req.Date)

		out = append(out, OverflowedBooking{
			BookingID: p.BookingID,
			StartTime: start,
			SlotSpan:  p.Span,
		})
	}

	return out
}
