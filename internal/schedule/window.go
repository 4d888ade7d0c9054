package schedule

import (
	"time"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

// OperatingWindow рабочее окно точки на один бизнес-день в минутах от начала суток
// Если StartMinute > EndMinute, окно переходит через полночь
type OperatingWindow struct {
	StartMinute     int
	EndMinute       int
	CrossesMidnight bool
}

// NewOperatingWindow создает окно и вычисляет признак перехода через полночь
func NewOperatingWindow(startMinute, endMinute int) OperatingWindow {
	return OperatingWindow{
		StartMinute:     startMinute,
		EndMinute:       endMinute,
		CrossesMidnight: startMinute > endMinute,
	}
}

// Span длительность окна в минутах
func (w OperatingWindow) Span() int {
	if w.CrossesMidnight {
		return w.spanToMidnight() + w.EndMinute
	}
	return w.EndMinute - w.StartMinute
}

// SlotCount количество 30-минутных слотов, покрывающих окно
func (w OperatingWindow) SlotCount() int {
	span := w.Span()
	if span <= 0 {
		return 0
	}
	return ceilDiv(span, domain.SlotWidthMinutes)
}

// Contains проверяет, что минута суток попадает в окно [start, end)
func (w OperatingWindow) Contains(minute int) bool {
	if w.CrossesMidnight {
		return minute >= w.StartMinute || minute < w.EndMinute
	}
	return minute >= w.StartMinute && minute < w.EndMinute
}

// SlotIndexOf индекс слота, в который попадает минута суток
// Для окна через полночь минуты после полуночи продолжают нумерацию
func (w OperatingWindow) SlotIndexOf(minute int) int {
	return w.elapsed(minute) / domain.SlotWidthMinutes
}

// SlotMinute минута суток начала слота с индексом index
func (w OperatingWindow) SlotMinute(index int) int {
	offset := index * domain.SlotWidthMinutes
	if w.CrossesMidnight && offset >= w.spanToMidnight() {
		return offset - w.spanToMidnight()
	}
	return w.StartMinute + offset
}

// IsSlotStart проверяет, что минута является началом слота внутри окна
func (w OperatingWindow) IsSlotStart(minute int) bool {
	return w.Contains(minute) && w.elapsed(minute)%domain.SlotWidthMinutes == 0
}

// InstantOf переводит минуту окна в абсолютное время
// date - полночь бизнес-дня; минуты после полуночи окна относятся к следующему календарному дню
func (w OperatingWindow) InstantOf(date time.Time, minute int) time.Time {
	day := date
	if w.CrossesMidnight && minute < w.StartMinute {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, day.Location())
}

func (w OperatingWindow) elapsed(minute int) int {
	if w.CrossesMidnight && minute < w.StartMinute {
		return w.spanToMidnight() + minute
	}
	return minute - w.StartMinute
}

func (w OperatingWindow) spanToMidnight() int {
	return domain.MinutesPerDay - w.StartMinute
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
