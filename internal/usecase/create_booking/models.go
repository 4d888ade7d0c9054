package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // ID участника
	LocationID int64            // ID точки обслуживания
	VehicleID  int64            // ID автомобиля участника
	Date       string           // День рабочего окна "YYYY-MM-DD"
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	ServiceIDs []int64          // Услуги; суммарная длительность определяет занятость бокса
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	UserID          int64
	LocationID      int64
	VehicleID       int64
	BookingDate     string
	StartTime       types.TimeString
	StartAt         time.Time // абсолютное время начала
	DurationMinutes int
	Bay             int // бокс, в который запись легла при проверке
	Status          string

	Services   []domain.ServiceItem
	TotalPrice float64

	// Денормализованные данные автомобиля (nil, если UserService недоступен)
	VehicleBrand        *string
	VehicleModel        *string
	VehicleLicensePlate *string
	Notes               *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
