package get_location_bookings

import (
	"context"

	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
)

type BookingService interface {
	ListByLocation(ctx context.Context, req *models.GetLocationBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
