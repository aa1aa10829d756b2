package models

import "time"

// SlotStatus tracks a slot through its lifecycle. Slots are never deleted,
// only moved to a terminal status, so historical ids stay resolvable.
type SlotStatus string

const (
	SlotOpen      SlotStatus = "Open"
	SlotBooked    SlotStatus = "Booked"
	SlotCancelled SlotStatus = "Cancelled"
	SlotSettled   SlotStatus = "Settled"
)

// Slot is a host-published, priced, bookable time window. Price is
// snapshotted at creation and never changes afterwards.
type Slot struct {
	ID               uint64     `bson:"id" json:"id"`
	Host             string     `bson:"host" json:"host"`
	StartTime        time.Time  `bson:"startTime" json:"startTime"`
	DurationMins     int        `bson:"durationMins" json:"durationMins"`
	Price            int64      `bson:"price" json:"price"` // token base units
	GraceMins        int        `bson:"graceMins" json:"graceMins"`
	MinOverlapMins   int        `bson:"minOverlapMins" json:"minOverlapMins"`
	CancelCutoffMins int        `bson:"cancelCutoffMins" json:"cancelCutoffMins"`
	Status           SlotStatus `bson:"status" json:"status"`
	BookingID        uint64     `bson:"bookingId,omitempty" json:"bookingId,omitempty"` // 0 while unbooked
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
}

// EndTime returns the scheduled end of the session window.
func (s *Slot) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMins) * time.Minute)
}
