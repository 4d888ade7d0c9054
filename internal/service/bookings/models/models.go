package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// Actor кто выполняет действие: участник или сотрудник точки
type Actor struct {
	UserID  int64 `json:"userId"`
	IsStaff bool  `json:"isStaff"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor
	CancellationReason string `json:"cancellationReason"`
}

// RescheduleBookingRequest запрос на перенос бронирования
type RescheduleBookingRequest struct {
	Actor
	Date      string `json:"date"`      // "2025-10-15", день рабочего окна
	StartTime string `json:"startTime"` // "10:00"
}

// GetUserBookingsRequest запрос на получение истории записей участника
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetLocationBookingsRequest запрос на получение бронирований точки за день
type GetLocationBookingsRequest struct {
	Actor
	LocationID      int64   `json:"locationId"`
	Date            string  `json:"date"`
	Status          *string `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool    `json:"includeInactive,omitempty"` // Включить отменённые и завершенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetLocationBookingsRequest) ToDomainFilter(day time.Time) (domain.LocationBookingsFilter, error) {
	filter := domain.LocationBookingsFilter{
		LocationID:      r.LocationID,
		Date:            &day,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ServiceResponse услуга в составе записи
type ServiceResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"userId"`
	LocationID      int64             `json:"locationId"`
	VehicleID       int64             `json:"vehicleId"`
	BookingDate     string            `json:"bookingDate"` // "2025-10-15"
	StartTime       string            `json:"startTime"`   // "10:00" по времени точки
	StartAt         time.Time         `json:"startAt"`
	DurationMinutes int               `json:"durationMinutes"`
	Status          string            `json:"status"`
	Services        []ServiceResponse `json:"services"`
	TotalPrice      float64           `json:"totalPrice"`
	Notes           *string           `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
// Время начала переводится в часовой пояс точки
func FromDomainBooking(b *domain.Booking, zone schedule.CivilZone) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		LocationID:         b.LocationID,
		VehicleID:          b.VehicleID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartAt.In(zone.Location()).Format(domain.TimeFormat),
		StartAt:            b.StartAt,
		Status:             string(b.Status),
		Services:           make([]ServiceResponse, 0, len(b.Services)),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	for _, s := range b.Services {
		// Некорректная длительность не ломает ответ, услуга показывается с нулем
		minutes, _ := schedule.MinutesOfDay(s.AverageDuration)
		resp.DurationMinutes += minutes
		if s.Price != nil {
			resp.TotalPrice += *s.Price
		}
		resp.Services = append(resp.Services, ServiceResponse{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: minutes,
			Price:           s.Price,
		})
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, zone schedule.CivilZone) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, zone); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.ActiveStatuses {
		if s == valid {
			return s, nil
		}
	}
	for _, valid := range domain.InactiveStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
