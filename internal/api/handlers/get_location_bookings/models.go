package get_location_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date обязателен, status и includeInactive опциональны
func ToServiceRequest(locationID int64, actor models.Actor, query url.Values) (*models.GetLocationBookingsRequest, error) {
	req := &models.GetLocationBookingsRequest{
		Actor:      actor,
		LocationID: locationID,
		Date:       query.Get("date"),
	}

	if req.Date == "" {
		return nil, fmt.Errorf("date is required")
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if v := query.Get("includeInactive"); v != "" {
		includeInactive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
