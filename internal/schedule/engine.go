package schedule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

// BookingDemand потребность записи в боксе на конкретный день
type BookingDemand struct {
	BookingID            int64
	DateISO              string
	StartMinute          int
	TotalDurationMinutes int
}

// Placement результат размещения записи в матрице
// Overflowed=true - записи не нашлось бокса, она не занимает ни одного бокса
type Placement struct {
	BookingID  int64
	StartSlot  int
	Span       int
	Bay        int
	Overflowed bool
}

// Input данные для расчета доступных слотов
type Input struct {
	BayCount int
	Window   OperatingWindow
	Open     bool
	DateISO  string // день, для которого считаются слоты
	TodayISO string // текущий бизнес-день
	NowClock string // текущее время "HH:MM:SS"
	Demand   []BookingDemand
}

// Result доступные слоты и диагностика размещения существующих записей
type Result struct {
	Slots      []string
	Placements []Placement
}

// Overflows записи, которые не удалось разместить ни в одном боксе
func (r Result) Overflows() []Placement {
	out := make([]Placement, 0)
	for _, p := range r.Placements {
		if p.Overflowed {
			out = append(out, p)
		}
	}
	return out
}

// ComputeAvailableSlots вычисляет времена начала, на которые еще можно записаться
//
// Алгоритм:
//  1. закрытый день - пустой список
//  2. окно нулевой длины - ErrInvalidOperatingWindow, нет боксов - ErrNoCapacity
//  3. существующие записи раскладываются по боксам first-fit в порядке (слот начала, id)
//  4. слот выдается, если в нем есть свободный бокс и он не в прошлом (для сегодняшнего дня)
func ComputeAvailableSlots(in Input) (Result, error) {
	if !in.Open {
		return Result{Slots: []string{}, Placements: []Placement{}}, nil
	}

	grid, placements, err := replay(in)
	if err != nil {
		return Result{}, err
	}

	nowMinute := -1
	if in.DateISO == in.TodayISO {
		nowMinute, err = MinutesOfDay(in.NowClock)
		if err != nil {
			return Result{}, err
		}
	}

	slots := make([]string, 0, grid.SlotCount())
	for i := 0; i < grid.SlotCount(); i++ {
		minute := in.Window.SlotMinute(i)
		if !in.Window.Contains(minute) {
			continue
		}
		if grid.FreeBays(i) == 0 {
			continue
		}
		if nowMinute >= 0 && minute < nowMinute {
			continue
		}
		slots = append(slots, MinutesToClock(minute))
	}

	return Result{Slots: slots, Placements: placements}, nil
}

// PlanBooking проверяет, что новую запись можно разместить поверх уже существующих
// Возвращает размещение кандидата; Overflowed=true означает, что свободного бокса нет
func PlanBooking(in Input, candidate BookingDemand) (Placement, error) {
	if !in.Open {
		return Placement{}, ErrClosed
	}

	grid, _, err := replay(in)
	if err != nil {
		return Placement{}, err
	}

	if candidate.DateISO != in.DateISO || !in.Window.IsSlotStart(candidate.StartMinute) {
		return Placement{}, fmt.Errorf("%w: %s", ErrOutsideWindow, MinutesToClock(candidate.StartMinute))
	}

	return place(grid, in.Window, candidate), nil
}

func replay(in Input) (*Grid, []Placement, error) {
	if in.Window.Span() <= 0 {
		return nil, nil, fmt.Errorf("%w: span=%d", ErrInvalidOperatingWindow, in.Window.Span())
	}
	if in.BayCount <= 0 {
		return nil, nil, ErrNoCapacity
	}

	grid := NewGrid(in.Window.SlotCount(), in.BayCount)

	demand := make([]BookingDemand, 0, len(in.Demand))
	for _, d := range in.Demand {
		if d.DateISO != in.DateISO || !in.Window.Contains(d.StartMinute) || d.TotalDurationMinutes <= 0 {
			continue
		}
		demand = append(demand, d)
	}

	slices.SortStableFunc(demand, func(a, b BookingDemand) int {
		if c := cmp.Compare(in.Window.SlotIndexOf(a.StartMinute), in.Window.SlotIndexOf(b.StartMinute)); c != 0 {
			return c
		}
		return cmp.Compare(a.BookingID, b.BookingID)
	})

	placements := make([]Placement, 0, len(demand))
	for _, d := range demand {
		placements = append(placements, place(grid, in.Window, d))
	}

	return grid, placements, nil
}

func place(grid *Grid, w OperatingWindow, d BookingDemand) Placement {
	p := Placement{
		BookingID: d.BookingID,
		StartSlot: w.SlotIndexOf(d.StartMinute),
		Span:      ceilDiv(d.TotalDurationMinutes, domain.SlotWidthMinutes),
	}

	bay, ok := grid.TryPlace(p.StartSlot, p.Span)
	if !ok {
		p.Overflowed = true
		return p
	}
	p.Bay = bay
	return p
}
