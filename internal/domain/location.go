package domain

import "time"

// DaySchedule часы работы на один тип дня
// Время хранится в формате "HH:MM:SS"; nil означает, что в этот день точка закрыта
type DaySchedule struct {
	Open  *string
	Close *string
}

// IsConfigured returns true if both bounds are set
func (d DaySchedule) IsConfigured() bool {
	return d.Open != nil && d.Close != nil && *d.Open != "" && *d.Close != ""
}

// Location represents a point of service with a fixed number of service bays
type Location struct {
	ID       int64
	Name     string
	BayCount int

	MondayToFriday DaySchedule
	Saturday       DaySchedule
	Sunday         DaySchedule
	Holiday        DaySchedule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacity returns true if the location has at least one bay
func (l *Location) HasCapacity() bool {
	return l.BayCount > 0
}
