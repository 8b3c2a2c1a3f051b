package domain

import "fmt"

// Slot identifies one concrete screening: a showtime on a calendar date, at a
// wall-clock start time, in a room. It is owned by the external scheduling
// workflow and immutable once created.
type Slot struct {
	ShowtimeID int
	Date       string // YYYY-MM-DD
	StartTime  string // HH:MM, local wall clock
	RoomID     string
}

// Key returns a canonical string form of the slot, used for map keys and log
// attributes.
func (s Slot) Key() string {
	return fmt.Sprintf("%d:%s:%s:%s", s.ShowtimeID, s.Date, s.StartTime, s.RoomID)
}
