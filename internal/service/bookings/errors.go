package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrLocationNotFound возвращается, когда точка обслуживания не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCannotReschedule возвращается, когда бронирование не может быть перенесено
	ErrCannotReschedule = errors.New("booking cannot be rescheduled")

	// ErrSlotNotAvailable возвращается, когда в новом слоте нет свободного бокса
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrOutsideOperatingHours возвращается, когда новое время не является слотом рабочего окна
	ErrOutsideOperatingHours = errors.New("start time is outside operating hours")

	// ErrTooLateToBook возвращается, когда новое время уже прошло
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrInvalidConfiguration возвращается, когда часы работы или число боксов точки некорректны
	ErrInvalidConfiguration = errors.New("invalid location configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
