package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда точка обслуживания не найдена
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в справочнике
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrVehicleNotFound возвращается, когда у пользователя нет указанного автомобиля
	ErrVehicleNotFound = errors.New("create_booking: vehicle not found")

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен (все боксы заняты)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrOutsideOperatingHours возвращается, когда время начала не является слотом рабочего окна
	ErrOutsideOperatingHours = errors.New("create_booking: start time is outside operating hours")

	// ErrTooLateToBook возвращается, когда время начала уже прошло
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidConfiguration возвращается, когда часы работы или число боксов точки некорректны
	ErrInvalidConfiguration = errors.New("create_booking: invalid location configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
