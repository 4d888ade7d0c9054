package get_location_bookings

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
	msgInvalidLocationID = "некорректный ID точки обслуживания"
	msgInvalidParams     = "некорректные параметры запроса"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/locations/{locationId}/bookings
// Query params: date (обязательно), status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(mux.Vars(r)["locationId"], 10, 64)
	if err != nil || locationID <= 0 {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid location ID: %q", mux.Vars(r)["locationId"])
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}
	actor := models.Actor{UserID: userID, IsStaff: middleware.IsStaff(r.Context())}

	serviceReq, err := ToServiceRequest(locationID, actor, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Права сотрудника проверяет сервис
	result, err := h.service.ListByLocation(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /locations/{id}/bookings - Access denied: location_id=%d, user_id=%d",
				locationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/bookings - Invalid input: location_id=%d, %v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /locations/{id}/bookings - Failed to get bookings: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/bookings - Bookings retrieved successfully: location_id=%d, count=%d",
		locationID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
