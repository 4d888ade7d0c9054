package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BayScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-BayScheduler/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-BayScheduler/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput         = "некорректные данные бронирования"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgLocationNotFound     = "точка обслуживания не найдена"
	msgServiceNotFound      = "услуга не найдена"
	msgVehicleNotFound      = "автомобиль не найден"
	msgOutsideHours         = "время начала вне часов работы точки"
	msgTooLateToBook        = "слишком поздно для бронирования этого слота"
	msgInvalidConfiguration = "некорректные часы работы или число боксов точки"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, location_id=%d", userID, req.LocationID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrLocationNotFound):
			h.logger.Warn("POST /bookings - Location not found: location_id=%d", req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%d, %v", userID, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrVehicleNotFound):
			h.logger.Warn("POST /bookings - Vehicle not found: user_id=%d, vehicle_id=%d", userID, req.VehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /bookings - Outside operating hours: location_id=%d, %v", req.LocationID, err)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, location_id=%d", userID, req.LocationID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidConfiguration):
			h.logger.Warn("POST /bookings - Invalid configuration: location_id=%d, %v", req.LocationID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfiguration)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, location_id=%d, error=%v",
				userID, req.LocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, location_id=%d",
		result.ID, userID, req.LocationID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
