package get_available_slots

// Request модель запроса на получение доступных слотов
type Request struct {
	LocationID int64  // ID точки обслуживания
	Date       string // Дата "YYYY-MM-DD"

	// Текущие дата и время клиента. Если не переданы, берутся из бизнес-времени сервера
	CurrentDate *string // "YYYY-MM-DD"
	CurrentTime *string // "HH:MM", "HH:MM:SS" или RFC3339 timestamp
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       string   // Дата, на которую запрашивались слоты
	LocationID int64    // ID точки обслуживания
	Closed     bool     // Точка в этот день не работает
	Slots      []string // Время начала свободных слотов "HH:MM" в хронологическом порядке

	// Существующие записи, которым не нашлось бокса (например, после уменьшения числа боксов)
	OverflowedBookings []OverflowedBooking
}

// OverflowedBooking запись, не поместившаяся ни в один бокс
type OverflowedBooking struct {
	BookingID int64
	StartTime string // "HH:MM"
	SlotSpan  int
}
