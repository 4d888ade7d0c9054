package demand

import "errors"

var (
	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("demand: invalid date")

	// ErrInvalidDuration возвращается, когда у услуги записи некорректная длительность
	ErrInvalidDuration = errors.New("demand: invalid service duration")

	// ErrInternal возвращается при ошибках чтения данных
	ErrInternal = errors.New("demand: internal error")
)
