package planner

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("planner: invalid input data")

	// ErrLocationNotFound возвращается, когда точка обслуживания не найдена
	ErrLocationNotFound = errors.New("planner: location not found")

	// ErrInvalidConfiguration возвращается, когда часы работы или число боксов точки некорректны
	ErrInvalidConfiguration = errors.New("planner: invalid location configuration")

	// ErrOutsideOperatingHours возвращается, когда время начала не является слотом рабочего окна
	ErrOutsideOperatingHours = errors.New("planner: start time is outside operating hours")

	// ErrTooLateToBook возвращается, когда время начала уже прошло
	ErrTooLateToBook = errors.New("planner: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда ни один бокс не свободен на всю длительность записи
	ErrSlotNotAvailable = errors.New("planner: slot is not available")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("planner: internal error")
)
