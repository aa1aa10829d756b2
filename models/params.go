package models

import "time"

// BPS is the basis-point denominator: 10000 = 100%.
const BPS = 10000

// Caps on the admin-tunable parameters.
const (
	MaxFeeBps               = 2000 // 20%
	MaxLateCancelPenaltyBps = BPS
	MaxChallengeWindow      = 30 * 24 * time.Hour
	MaxNoAttestBuffer       = 30 * 24 * time.Hour
	MaxDisputeTimeout       = 180 * 24 * time.Hour
)

// EngineParams is the admin-tunable economic configuration. Changes only
// affect bookings created afterward; every booking carries its own
// BookingTerms snapshot.
type EngineParams struct {
	FeeBps               int64         `json:"feeBps"`
	LateCancelPenaltyBps int64         `json:"lateCancelPenaltyBps"`
	ChallengeWindow      time.Duration `json:"challengeWindow"`
	NoAttestBuffer       time.Duration `json:"noAttestBuffer"`
	DisputeTimeout       time.Duration `json:"disputeTimeout"`
	ChallengeBond        int64         `json:"challengeBond"`
}

// BookingTerms is the immutable copy of EngineParams taken at booking
// creation, so later parameter changes cannot retroactively move the goalposts
// on an in-flight booking.
type BookingTerms struct {
	FeeBps               int64         `bson:"feeBps" json:"feeBps"`
	LateCancelPenaltyBps int64         `bson:"lateCancelPenaltyBps" json:"lateCancelPenaltyBps"`
	ChallengeWindow      time.Duration `bson:"challengeWindow" json:"challengeWindow"`
	NoAttestBuffer       time.Duration `bson:"noAttestBuffer" json:"noAttestBuffer"`
	DisputeTimeout       time.Duration `bson:"disputeTimeout" json:"disputeTimeout"`
	ChallengeBond        int64         `bson:"challengeBond" json:"challengeBond"`
}

// Snapshot freezes the current parameters into booking terms.
func (p EngineParams) Snapshot() BookingTerms {
	return BookingTerms{
		FeeBps:               p.FeeBps,
		LateCancelPenaltyBps: p.LateCancelPenaltyBps,
		ChallengeWindow:      p.ChallengeWindow,
		NoAttestBuffer:       p.NoAttestBuffer,
		DisputeTimeout:       p.DisputeTimeout,
		ChallengeBond:        p.ChallengeBond,
	}
}
