package models

import "time"

// Event types emitted by the escrow engine. External indexers key off these.
const (
	EventSlotCreated      = "slot.created"
	EventSlotCancelled    = "slot.cancelled"
	EventBooked           = "booking.booked"
	EventBookingCancelled = "booking.cancelled"
	EventAttested         = "booking.attested"
	EventChallenged       = "booking.challenged"
	EventResolved         = "booking.resolved"
	EventFinalized        = "booking.finalized"
	EventRequestCreated   = "request.created"
	EventRequestCancelled = "request.cancelled"
	EventRequestAccepted  = "request.accepted"
)

// Event is a single state-change record emitted by the engine, archived to
// Mongo and published on Redis for external consumers.
type Event struct {
	ID   string                 `bson:"id" json:"id"`
	Type string                 `bson:"type" json:"type"`
	At   time.Time              `bson:"at" json:"at"`
	Data map[string]interface{} `bson:"data" json:"data"`
}
