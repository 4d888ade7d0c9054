package notifier

import (
	"fmt"
	"strconv"
)

// BookingCreated сообщение о новой записи
func BookingCreated(bookingID int64, date, startTime string) Message {
	return Message{
		Title: "Booking received",
		Body:  fmt.Sprintf("Your service appointment #%d is booked for %s at %s.", bookingID, date, startTime),
		Data:  bookingData("booking_created", bookingID),
	}
}

// BookingCancelled сообщение об отмене записи
func BookingCancelled(bookingID int64, byLocation bool, reason string) Message {
	body := fmt.Sprintf("Your service appointment #%d was cancelled.", bookingID)
	if byLocation {
		body = fmt.Sprintf("The service location cancelled your appointment #%d.", bookingID)
	}
	if reason != "" {
		body += " Reason: " + reason
	}

	return Message{
		Title: "Booking cancelled",
		Body:  body,
		Data:  bookingData("booking_cancelled", bookingID),
	}
}

// BookingRescheduled сообщение о переносе записи
func BookingRescheduled(bookingID int64, date, startTime string) Message {
	return Message{
		Title: "Booking rescheduled",
		Body:  fmt.Sprintf("Your service appointment #%d was moved to %s at %s.", bookingID, date, startTime),
		Data:  bookingData("booking_rescheduled", bookingID),
	}
}

func bookingData(event string, bookingID int64) map[string]string {
	return map[string]string{
		"event":      event,
		"booking_id": strconv.FormatInt(bookingID, 10),
	}
}
