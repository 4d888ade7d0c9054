package get_available_slots

import (
	"net/url"

	getAvailableSlots "github.com/m04kA/SMC-BayScheduler/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string   `json:"date"`
	LocationID int64    `json:"locationId"`
	Closed     bool     `json:"closed"`
	Slots      []string `json:"slots"` // "HH:MM" в хронологическом порядке рабочего окна

	// Записи дня, которым не нашлось бокса при раскладке; поле опускается, если таких нет
	OverflowedBookings []OverflowedBookingResponse `json:"overflowedBookings,omitempty"`
}

// OverflowedBookingResponse запись, не поместившаяся ни в один бокс
type OverflowedBookingResponse struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	SlotSpan  int    `json:"slotSpan"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []string{}
	}

	var overflowed []OverflowedBookingResponse
	for _, o := range resp.OverflowedBookings {
		overflowed = append(overflowed, OverflowedBookingResponse{
			BookingID: o.BookingID,
			StartTime: o.StartTime,
			SlotSpan:  o.SlotSpan,
		})
	}

	return &AvailableSlotsResponse{
		Date:               resp.Date,
		LocationID:         resp.LocationID,
		Closed:             resp.Closed,
		Slots:              slots,
		OverflowedBookings: overflowed,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// currentDate и currentTime необязательны
func ToUseCaseRequest(locationID int64, query url.Values) *getAvailableSlots.Request {
	req := &getAvailableSlots.Request{
		LocationID: locationID,
		Date:       query.Get("date"),
	}

	if v := query.Get("currentDate"); v != "" {
		req.CurrentDate = &v
	}
	if v := query.Get("currentTime"); v != "" {
		req.CurrentTime = &v
	}

	return req
}
