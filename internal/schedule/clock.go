package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

// MinutesOfDay переводит "HH:MM:SS" в минуты от начала суток: h*60 + m + floor(s/60)
// Используется и для времени суток, и для длительности услуг
func MinutesOfDay(clock string) (int, error) {
	parts := clockPattern.FindStringSubmatch(clock)
	if parts == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}

	h, _ := strconv.Atoi(parts[1])
	m, _ := strconv.Atoi(parts[2])
	s, _ := strconv.Atoi(parts[3])
	if h > 23 || m > 59 || s > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}

	return h*60 + m + s/60, nil
}

// endOfDayClock закрытие в полночь, как его хранит PostgreSQL TIME
const endOfDayClock = "24:00:00"

// closingMinutes как MinutesOfDay, но допускает "24:00:00" как конец суток
func closingMinutes(clock string) (int, error) {
	if clock == endOfDayClock {
		return domain.MinutesPerDay, nil
	}
	return MinutesOfDay(clock)
}

// MinutesToClock форматирует минуты как "HH:MM"
// Значение не приводится по модулю суток, вызывающий код нормализует его сам
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CivilZone бизнес-время сети: фиксированное смещение от UTC
// Применяется одинаково при определении дня недели и при извлечении времени из timestamp
type CivilZone struct {
	loc *time.Location
}

// NewCivilZone создает зону с фиксированным смещением в часах (например, -3)
func NewCivilZone(offsetHours int) CivilZone {
	name := fmt.Sprintf("UTC%+03d", offsetHours)
	return CivilZone{loc: time.FixedZone(name, offsetHours*3600)}
}

// Location возвращает *time.Location зоны
func (z CivilZone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// ParseDate парсит "YYYY-MM-DD" как полночь бизнес-дня
func (z CivilZone) ParseDate(dateISO string) (time.Time, error) {
	d, err := time.ParseInLocation(domain.DateFormat, dateISO, z.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateISO)
	}
	return d, nil
}

// Weekday возвращает день недели бизнес-даты
func (z CivilZone) Weekday(dateISO string) (time.Weekday, error) {
	d, err := z.ParseDate(dateISO)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// TimeFromISOInstant извлекает "HH:MM:00" из RFC3339 timestamp в бизнес-времени
func (z CivilZone) TimeFromISOInstant(iso string) (string, error) {
	_, clock, err := z.MomentFromISOInstant(iso)
	return clock, err
}

// MomentFromISOInstant переводит RFC3339 timestamp в бизнес-дату "YYYY-MM-DD" и время "HH:MM:00"
// Дата берется из того же момента, поэтому около полуночи она может отличаться от даты в UTC
func (z CivilZone) MomentFromISOInstant(iso string) (string, string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFormat, iso)
	}
	return z.DateOf(t), z.ClockOf(t)[:5] + ":00", nil
}

// ClockOf возвращает "HH:MM:SS" момента t в бизнес-времени
func (z CivilZone) ClockOf(t time.Time) string {
	return t.In(z.Location()).Format(domain.ClockFormat)
}

// DateOf возвращает "YYYY-MM-DD" момента t в бизнес-времени
func (z CivilZone) DateOf(t time.Time) string {
	return t.In(z.Location()).Format(domain.DateFormat)
}

// ResolveOperatingWindow определяет рабочее окно точки на дату
// open=false означает, что точка в этот день закрыта (границы не заданы или совпадают)
func (z CivilZone) ResolveOperatingWindow(loc *domain.Location, dateISO string, isHoliday bool) (OperatingWindow, bool, error) {
	weekday, err := z.Weekday(dateISO)
	if err != nil {
		return OperatingWindow{}, false, err
	}
	return ResolveOperatingWindow(loc, weekday, isHoliday)
}

// ResolveOperatingWindow выбирает пару часов работы по дню недели
// Праздник имеет приоритет над днем недели
func ResolveOperatingWindow(loc *domain.Location, weekday time.Weekday, isHoliday bool) (OperatingWindow, bool, error) {
	day := daySchedule(loc, weekday, isHoliday)
	if !day.IsConfigured() {
		return OperatingWindow{}, false, nil
	}

	start, err := MinutesOfDay(*day.Open)
	if err != nil {
		return OperatingWindow{}, false, fmt.Errorf("%w: opening time: %v", ErrInvalidOperatingWindow, err)
	}
	end, err := closingMinutes(*day.Close)
	if err != nil {
		return OperatingWindow{}, false, fmt.Errorf("%w: closing time: %v", ErrInvalidOperatingWindow, err)
	}

	if start == end {
		return OperatingWindow{}, false, nil
	}

	return NewOperatingWindow(start, end), true, nil
}

func daySchedule(loc *domain.Location, weekday time.Weekday, isHoliday bool) domain.DaySchedule {
	if isHoliday {
		return loc.Holiday
	}

	switch weekday {
	case time.Saturday:
		return loc.Saturday
	case time.Sunday:
		return loc.Sunday
	default:
		return loc.MondayToFriday
	}
}
