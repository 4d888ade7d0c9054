package schedule

import "errors"

var (
	// ErrInvalidFormat возвращается, когда строка времени не соответствует формату HH:MM:SS
	ErrInvalidFormat = errors.New("schedule: invalid time format")

	// ErrInvalidDate возвращается, когда дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("schedule: invalid date")

	// ErrInvalidOperatingWindow возвращается, когда часы работы точки настроены некорректно
	ErrInvalidOperatingWindow = errors.New("schedule: invalid operating window")

	// ErrNoCapacity возвращается, когда у точки нет ни одного бокса
	ErrNoCapacity = errors.New("schedule: location has no bays")

	// ErrClosed возвращается при попытке разместить запись в день, когда точка закрыта
	ErrClosed = errors.New("schedule: location is closed on this date")

	// ErrOutsideWindow возвращается, когда время записи не является слотом рабочего окна
	ErrOutsideWindow = errors.New("schedule: start time is not a slot of the operating window")
)
