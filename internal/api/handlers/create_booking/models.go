package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-BayScheduler/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BayScheduler/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LocationID  int64   `json:"locationId"`
	VehicleID   int64   `json:"vehicleId"`
	ServiceIDs  []int64 `json:"serviceIds"`
	BookingDate string  `json:"bookingDate"` // "2025-10-15"
	StartTime   string  `json:"startTime"`   // "10:00"
	Notes       *string `json:"notes,omitempty"`
}

// ServiceResponse услуга в составе записи
type ServiceResponse struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                  int64             `json:"id"`
	UserID              int64             `json:"userId"`
	LocationID          int64             `json:"locationId"`
	VehicleID           int64             `json:"vehicleId"`
	BookingDate         string            `json:"bookingDate"`
	StartTime           string            `json:"startTime"`
	StartAt             string            `json:"startAt"`
	DurationMinutes     int               `json:"durationMinutes"`
	Status              string            `json:"status"`
	Services            []ServiceResponse `json:"services"`
	TotalPrice          float64           `json:"totalPrice"`
	VehicleBrand        *string           `json:"vehicleBrand,omitempty"`
	VehicleModel        *string           `json:"vehicleModel,omitempty"`
	VehicleLicensePlate *string           `json:"vehicleLicensePlate,omitempty"`
	Notes               *string           `json:"notes,omitempty"`
	CreatedAt           string            `json:"createdAt"`
	UpdatedAt           string            `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID берется из заголовка X-User-ID
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:     userID,
		LocationID: r.LocationID,
		VehicleID:  r.VehicleID,
		Date:       r.BookingDate,
		StartTime:  startTime,
		ServiceIDs: r.ServiceIDs,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	services := make([]ServiceResponse, len(resp.Services))
	for i, s := range resp.Services {
		services[i] = ServiceResponse{ID: s.ID, Name: s.Name, Price: s.Price}
	}

	return &BookingResponse{
		ID:                  resp.ID,
		UserID:              resp.UserID,
		LocationID:          resp.LocationID,
		VehicleID:           resp.VehicleID,
		BookingDate:         resp.BookingDate,
		StartTime:           resp.StartTime.String(),
		StartAt:             resp.StartAt.Format(time.RFC3339),
		DurationMinutes:     resp.DurationMinutes,
		Status:              resp.Status,
		Services:            services,
		TotalPrice:          resp.TotalPrice,
		VehicleBrand:        resp.VehicleBrand,
		VehicleModel:        resp.VehicleModel,
		VehicleLicensePlate: resp.VehicleLicensePlate,
		Notes:               resp.Notes,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           resp.UpdatedAt.Format(time.RFC3339),
	}
}
