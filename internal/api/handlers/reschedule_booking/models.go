package reschedule_booking

import (
	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RescheduleBookingRequest) ToServiceRequest(actor models.Actor) *models.RescheduleBookingRequest {
	return &models.RescheduleBookingRequest{
		Actor:     actor,
		Date:      r.BookingDate,
		StartTime: r.StartTime,
	}
}
