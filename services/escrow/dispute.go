package escrow

import (
	"time"

	"go.uber.org/zap"

	"bookvault/models"
)

// Challenge disputes a fresh attestation. Either party may challenge while
// the challenge window is open, posting the bond their booking terms fixed at
// creation time.
func (e *Engine) Challenge(caller string, bookingID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if b.Status != models.BookingAttested {
		return stateErrf("booking %d is %s, not Attested", bookingID, b.Status)
	}
	slot := e.slots[b.SlotID]
	if caller != b.Guest && caller != slot.Host {
		return authErrf("caller %s is neither guest nor host of booking %d", caller, bookingID)
	}
	now := e.clock.Now()
	if !now.Before(b.FinalizableAt) {
		return timingErrf("challenge window closed at %s", b.FinalizableAt)
	}

	bond := b.Terms.ChallengeBond
	b.Status = models.BookingDisputed
	b.Challenger = caller
	b.BondAmount = bond
	b.DisputedAt = now

	if err := e.pull(caller, bond); err != nil {
		b.Status = models.BookingAttested
		b.Challenger = ""
		b.BondAmount = 0
		b.DisputedAt = time.Time{}
		return err
	}

	e.logger.Info("attestation challenged",
		zap.Uint64("bookingId", bookingID),
		zap.String("challenger", caller),
		zap.Int64("bondAmount", bond))
	e.emit(models.EventChallenged, map[string]interface{}{
		"bookingId":  bookingID,
		"challenger": caller,
		"bondAmount": bond,
	})
	return nil
}

// ResolveDispute is the admin verdict on a disputed attestation. A verdict
// that differs from the original oracle outcome vindicates the challenger and
// returns their bond; an identical verdict forfeits the bond to the party the
// challenger was opposing.
func (e *Engine) ResolveDispute(caller string, bookingID uint64, finalOutcome models.SessionOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if caller != e.admin {
		return authErrf("caller %s is not the admin", caller)
	}
	if b.Status != models.BookingDisputed {
		return stateErrf("booking %d is %s, not Disputed", bookingID, b.Status)
	}
	switch finalOutcome {
	case models.OutcomeCompleted, models.OutcomeNoShowHost, models.OutcomeNoShowGuest:
	default:
		return validationErrf("outcome %q cannot resolve a dispute", finalOutcome)
	}

	challengerWon := finalOutcome != b.OracleOutcome
	if challengerWon {
		e.credit(b.Challenger, b.BondAmount)
	} else {
		e.credit(e.counterparty(b), b.BondAmount)
	}

	now := e.clock.Now()
	b.OracleOutcome = finalOutcome
	b.Status = models.BookingResolved
	b.FinalizableAt = now

	e.logger.Info("dispute resolved",
		zap.Uint64("bookingId", bookingID),
		zap.String("finalOutcome", string(finalOutcome)),
		zap.Bool("challengerWon", challengerWon))
	e.emit(models.EventResolved, map[string]interface{}{
		"bookingId":    bookingID,
		"finalOutcome": finalOutcome,
	})
	return nil
}

// FinalizeDisputeByTimeout closes a dispute the admin never ruled on. The
// original oracle outcome stands and the bond is forfeited to the
// challenger's counterparty, so a vanished admin can't be used to grief the
// other side with a free challenge. Callable by anyone.
func (e *Engine) FinalizeDisputeByTimeout(bookingID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if b.Status != models.BookingDisputed {
		return stateErrf("booking %d is %s, not Disputed", bookingID, b.Status)
	}
	deadline := b.DisputedAt.Add(b.Terms.DisputeTimeout)
	now := e.clock.Now()
	if now.Before(deadline) {
		return timingErrf("dispute timeout elapses at %s", deadline)
	}

	e.credit(e.counterparty(b), b.BondAmount)
	b.Status = models.BookingResolved
	b.FinalizableAt = now

	e.logger.Info("dispute finalized by timeout",
		zap.Uint64("bookingId", bookingID),
		zap.String("outcome", string(b.OracleOutcome)))
	e.emit(models.EventResolved, map[string]interface{}{
		"bookingId":    bookingID,
		"finalOutcome": b.OracleOutcome,
	})
	return nil
}

// counterparty returns the booking party the challenger was opposing.
// Caller holds the lock.
func (e *Engine) counterparty(b *models.Booking) string {
	slot := e.slots[b.SlotID]
	if b.Challenger == b.Guest {
		return slot.Host
	}
	return b.Guest
}
