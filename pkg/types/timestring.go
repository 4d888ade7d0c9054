package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается, когда строка не является временем в формате HH:MM или HH:MM:SS
var ErrInvalidTimeString = errors.New("types: invalid time string")

// TimeString время суток в формате "HH:MM"
// Используется для времени начала бронирования и границ рабочего дня
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
// Секунды отбрасываются
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	layout := "15:04"
	if len(s) == len("15:04:05") {
		layout = "15:04:05"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return NewTimeString(t), nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	if _, err := time.Parse("15:04", string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
