package get_available_slots

import "errors"

var (
	// ErrLocationNotFound возвращается, когда точка обслуживания не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidConfiguration возвращается, когда у точки некорректные часы работы или нет боксов
	ErrInvalidConfiguration = errors.New("invalid location configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
