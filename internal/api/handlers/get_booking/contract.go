package get_booking

import (
	"context"

	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
