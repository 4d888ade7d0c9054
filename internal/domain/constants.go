package domain

// Slot grid
const (
	SlotWidthMinutes = 30
	MinutesPerDay    = 24 * 60
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxServicesPerBooking       = 10
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	ClockFormat = "15:04:05"   // HH:MM:SS
	DateFormat  = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых запись занимает бокс
// Используется при подсчете доступных слотов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses статусы, при которых запись бокс не занимает
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelledByUser,
	StatusCancelledByLocation,
	StatusNoShow,
}
