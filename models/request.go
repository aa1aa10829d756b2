package models

import "time"

// RequestStatus tracks a guest-initiated booking request.
type RequestStatus string

const (
	RequestOpen      RequestStatus = "Open"
	RequestCancelled RequestStatus = "Cancelled"
	RequestAccepted  RequestStatus = "Accepted"
)

// Request is a guest's escrowed offer for a session somewhere inside a time
// window. The amount is pulled into escrow the moment the request is created,
// before any host has committed to it.
type Request struct {
	ID           uint64        `bson:"id" json:"id"`
	Guest        string        `bson:"guest" json:"guest"`
	HostTarget   string        `bson:"hostTarget,omitempty" json:"hostTarget,omitempty"` // empty means any host may accept
	WindowStart  time.Time     `bson:"windowStart" json:"windowStart"`
	WindowEnd    time.Time     `bson:"windowEnd" json:"windowEnd"`
	DurationMins int           `bson:"durationMins" json:"durationMins"`
	Amount       int64         `bson:"amount" json:"amount"`
	Expiry       time.Time     `bson:"expiry" json:"expiry"`
	Status       RequestStatus `bson:"status" json:"status"`
	SlotID       uint64        `bson:"slotId,omitempty" json:"slotId,omitempty"`       // set on acceptance
	BookingID    uint64        `bson:"bookingId,omitempty" json:"bookingId,omitempty"` // set on acceptance
	Host         string        `bson:"host,omitempty" json:"host,omitempty"`           // accepting host
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
}
