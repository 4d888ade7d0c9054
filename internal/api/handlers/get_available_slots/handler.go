package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayScheduler/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-BayScheduler/internal/usecase/get_available_slots"
)

const (
	msgInvalidLocationID    = "некорректный ID точки обслуживания"
	msgMissingDate          = "дата обязательна"
	msgInvalidInput         = "некорректные параметры запроса: date и currentDate в формате YYYY-MM-DD, currentTime в формате HH:MM"
	msgLocationNotFound     = "точка обслуживания не найдена"
	msgInvalidConfiguration = "некорректные часы работы или число боксов точки"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/available-slots
// Query params: date (required, YYYY-MM-DD), currentDate, currentTime (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(mux.Vars(r)["locationId"], 10, 64)
	if err != nil || locationID <= 0 {
		h.logger.Warn("GET /locations/{id}/available-slots - Invalid location ID: %q", mux.Vars(r)["locationId"])
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	query := r.URL.Query()
	if query.Get("date") == "" {
		h.logger.Warn("GET /locations/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(locationID, query))
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid input: location_id=%d, %v", locationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id}/available-slots - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidConfiguration):
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid configuration: location_id=%d, %v", locationID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfiguration)

		default:
			h.logger.Error("GET /locations/{id}/available-slots - Failed to get slots: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/available-slots - Slots retrieved successfully: location_id=%d, date=%s, slots_count=%d",
		locationID, result.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
