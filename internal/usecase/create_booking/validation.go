package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := validateServiceIDs(req.ServiceIDs); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

func validateServiceIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(ids) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: service id=%d is listed twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// findMissingService возвращает первую запрошенную услугу, которой нет в справочнике
func findMissingService(requested []int64, found []domain.ServiceItem) (int64, bool) {
	known := make(map[int64]struct{}, len(found))
	for _, s := range found {
		known[s.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := known[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
