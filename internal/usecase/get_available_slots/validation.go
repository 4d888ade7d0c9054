package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, zone schedule.CivilZone) error {
	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := zone.ParseDate(req.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.CurrentDate != nil {
		if _, err := zone.ParseDate(*req.CurrentDate); err != nil {
			return fmt.Errorf("%w: currentDate: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// normalizeClock приводит текущее время клиента к "HH:MM:SS"
// RFC3339 timestamp переводится в бизнес-время, вторым значением возвращается его бизнес-дата
func normalizeClock(value string, zone schedule.CivilZone) (string, string, error) {
	value = strings.TrimSpace(value)

	var clock, instantDate string
	switch {
	case strings.Contains(value, "T"):
		date, converted, err := zone.MomentFromISOInstant(value)
		if err != nil {
			return "", "", fmt.Errorf("%w: currentTime: %v", ErrInvalidInput, err)
		}
		clock, instantDate = converted, date
	case len(value) == len("15:04"):
		clock = value + ":00"
	default:
		clock = value
	}

	if _, err := schedule.MinutesOfDay(clock); err != nil {
		return "", "", fmt.Errorf("%w: currentTime: %v", ErrInvalidInput, err)
	}

	return clock, instantDate, nil
}
