package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByUser     BookingStatus = "cancelled_by_user"
	StatusCancelledByLocation BookingStatus = "cancelled_by_location"
	StatusNoShow              BookingStatus = "no_show"
)

// Booking represents a vehicle appointment at a point of service
type Booking struct {
	ID          int64
	UserID      int64
	LocationID  int64
	VehicleID   int64
	BookingDate time.Time // день рабочего окна, к которому относится запись (без времени)
	StartAt     time.Time // абсолютное время начала
	Status      BookingStatus

	// Услуги, привязанные к записи; суммарная длительность определяет занятость бокса
	Services []ServiceItem

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies a bay
func (b *Booking) IsActive() bool {
	for _, s := range ActiveStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another slot
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByLocation
}

// ServiceIDs returns the IDs of the linked services
func (b *Booking) ServiceIDs() []int64 {
	ids := make([]int64, len(b.Services))
	for i, s := range b.Services {
		ids[i] = s.ID
	}
	return ids
}

// LocationBookingsFilter фильтр для получения бронирований точки обслуживания
type LocationBookingsFilter struct {
	LocationID       int64          // Обязательный параметр
	Date             *time.Time     // Конкретный день (сравнивается только дата)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive  bool           // Включать ли отмененные и завершенные
	ExcludeBookingID *int64         // Исключить запись (перенос записи не должен конфликтовать сам с собой)
}
