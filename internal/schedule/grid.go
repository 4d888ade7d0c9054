package schedule

// Grid матрица занятости "слот x бокс"
// Создается на один расчет и не разделяется между запросами
type Grid struct {
	slots int
	bays  int
	cells []bool // cells[slot*bays+bay] == true - бокс занят в этом слоте
}

// NewGrid создает пустую матрицу
func NewGrid(slotCount, bayCount int) *Grid {
	if slotCount < 0 {
		slotCount = 0
	}
	if bayCount < 0 {
		bayCount = 0
	}
	return &Grid{
		slots: slotCount,
		bays:  bayCount,
		cells: make([]bool, slotCount*bayCount),
	}
}

func (g *Grid) SlotCount() int { return g.slots }

func (g *Grid) BayCount() int { return g.bays }

// TryPlace ищет первый бокс (по возрастанию индекса), свободный во всех слотах
// [start, start+span), и занимает его. Диапазон обрезается по границам матрицы.
// Если подходящего бокса нет, матрица не меняется и возвращается ok=false.
func (g *Grid) TryPlace(start, span int) (bay int, ok bool) {
	if span <= 0 {
		return 0, false
	}

	lo, hi := g.clip(start, span)

	for bay := 0; bay < g.bays; bay++ {
		if !g.isFree(bay, lo, hi) {
			continue
		}
		for slot := lo; slot < hi; slot++ {
			g.cells[slot*g.bays+bay] = true
		}
		return bay, true
	}

	return 0, false
}

// FreeBays количество свободных боксов в слоте
func (g *Grid) FreeBays(slot int) int {
	if slot < 0 || slot >= g.slots {
		return 0
	}
	free := 0
	for bay := 0; bay < g.bays; bay++ {
		if !g.cells[slot*g.bays+bay] {
			free++
		}
	}
	return free
}

// IsOccupied возвращает true, если бокс занят в слоте
func (g *Grid) IsOccupied(slot, bay int) bool {
	if slot < 0 || slot >= g.slots || bay < 0 || bay >= g.bays {
		return false
	}
	return g.cells[slot*g.bays+bay]
}

func (g *Grid) isFree(bay, lo, hi int) bool {
	for slot := lo; slot < hi; slot++ {
		if g.cells[slot*g.bays+bay] {
			return false
		}
	}
	return true
}

func (g *Grid) clip(start, span int) (int, int) {
	lo, hi := start, start+span
	if lo < 0 {
		lo = 0
	}
	if hi > g.slots {
		hi = g.slots
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
