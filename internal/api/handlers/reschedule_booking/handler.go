package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-BayScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
)

const (
	msgInvalidBookingID     = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingFields        = "bookingDate и startTime обязательны"
	msgInvalidInput         = "некорректные дата или время начала"
	msgNotFound             = "бронирование не найдено"
	msgLocationNotFound     = "точка обслуживания не найдена"
	msgForbidden            = "доступ запрещен"
	msgCannotReschedule     = "бронирование не может быть перенесено"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgOutsideHours         = "время начала вне часов работы точки"
	msgTooLateToBook        = "слишком поздно для бронирования этого слота"
	msgInvalidConfiguration = "некорректные часы работы или число боксов точки"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %q", mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	actor := models.Actor{UserID: userID, IsStaff: middleware.IsStaff(r.Context())}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.BookingDate == "" || req.StartTime == "" {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing fields: booking_id=%d", bookingID)
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	booking, err := h.service.Reschedule(r.Context(), bookingID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrLocationNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Location not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotReschedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Cannot reschedule: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, bookings.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%d, date=%s, start=%s",
				bookingID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, bookings.ErrOutsideOperatingHours):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Outside operating hours: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, bookings.ErrTooLateToBook):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Too late to book: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, bookings.ErrInvalidConfiguration):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid configuration: booking_id=%d, %v", bookingID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfiguration)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled successfully: booking_id=%d, date=%s, start=%s",
		bookingID, booking.BookingDate, booking.StartTime)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
