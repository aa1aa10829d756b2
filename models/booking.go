package models

import "time"

// BookingStatus tracks a booking through its lifecycle. Finalized and
// Cancelled are terminal.
type BookingStatus string

const (
	BookingBooked    BookingStatus = "Booked"
	BookingCancelled BookingStatus = "Cancelled"
	BookingAttested  BookingStatus = "Attested"
	BookingDisputed  BookingStatus = "Disputed"
	BookingResolved  BookingStatus = "Resolved"
	BookingFinalized BookingStatus = "Finalized"
)

// SessionOutcome is the oracle's (or arbiter's) verdict on how the session
// actually went. CancelledByGuest is reserved: nothing emits it today, but
// the settlement split keeps a branch for it.
type SessionOutcome string

const (
	OutcomeCompleted        SessionOutcome = "Completed"
	OutcomeNoShowHost       SessionOutcome = "NoShowHost"
	OutcomeNoShowGuest      SessionOutcome = "NoShowGuest"
	OutcomeCancelledByHost  SessionOutcome = "CancelledByHost"
	OutcomeCancelledByGuest SessionOutcome = "CancelledByGuest"
)

// Booking is a guest's paid reservation of a slot. Amount is pulled from the
// guest at creation and never changes.
type Booking struct {
	ID            uint64         `bson:"id" json:"id"`
	SlotID        uint64         `bson:"slotId" json:"slotId"`
	Guest         string         `bson:"guest" json:"guest"`
	Amount        int64          `bson:"amount" json:"amount"`
	Status        BookingStatus  `bson:"status" json:"status"`
	Terms         BookingTerms   `bson:"terms" json:"terms"`
	OracleOutcome SessionOutcome `bson:"oracleOutcome,omitempty" json:"oracleOutcome,omitempty"`
	MetricsHash   string         `bson:"metricsHash,omitempty" json:"metricsHash,omitempty"`
	AttestedAt    time.Time      `bson:"attestedAt,omitempty" json:"attestedAt,omitempty"`
	FinalizableAt time.Time      `bson:"finalizableAt,omitempty" json:"finalizableAt,omitempty"`
	Challenger    string         `bson:"challenger,omitempty" json:"challenger,omitempty"`
	BondAmount    int64          `bson:"bondAmount,omitempty" json:"bondAmount,omitempty"`
	DisputedAt    time.Time      `bson:"disputedAt,omitempty" json:"disputedAt,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
}
