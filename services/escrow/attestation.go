package escrow

import (
	"time"

	"go.uber.org/zap"

	"bookvault/models"
)

// Attest records the oracle's outcome for a booked session. Each outcome has
// its own validity window derived from the slot: no-shows can only be called
// once the grace period has run out and before a full session length has
// passed beyond it, while a completed session can be attested from the
// minimum-overlap mark until two hours after the scheduled end.
func (e *Engine) Attest(caller string, bookingID uint64, outcome models.SessionOutcome, metricsHash string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if caller != e.oracle {
		return authErrf("caller %s is not the oracle", caller)
	}
	if b.Status != models.BookingBooked {
		return stateErrf("booking %d is %s, not Booked", bookingID, b.Status)
	}

	slot := e.slots[b.SlotID]
	start := slot.StartTime
	end := slot.EndTime()
	now := e.clock.Now()

	switch outcome {
	case models.OutcomeNoShowHost, models.OutcomeNoShowGuest:
		grace := time.Duration(slot.GraceMins) * time.Minute
		duration := time.Duration(slot.DurationMins) * time.Minute
		windowOpen := start.Add(grace)
		windowClose := windowOpen.Add(duration)
		if now.Before(windowOpen) {
			return timingErrf("no-show cannot be attested before %s", windowOpen)
		}
		if now.After(windowClose) {
			return timingErrf("no-show window closed at %s", windowClose)
		}
	case models.OutcomeCompleted:
		windowOpen := start.Add(time.Duration(slot.MinOverlapMins) * time.Minute)
		windowClose := end.Add(completedAttestTail)
		if now.Before(windowOpen) {
			return timingErrf("completion cannot be attested before %s", windowOpen)
		}
		if now.After(windowClose) {
			return timingErrf("completion window closed at %s", windowClose)
		}
	default:
		return validationErrf("outcome %q cannot be attested", outcome)
	}

	b.Status = models.BookingAttested
	b.OracleOutcome = outcome
	b.MetricsHash = metricsHash
	b.AttestedAt = now
	b.FinalizableAt = now.Add(b.Terms.ChallengeWindow)

	e.logger.Info("booking attested",
		zap.Uint64("bookingId", bookingID),
		zap.String("outcome", string(outcome)),
		zap.Time("finalizableAt", b.FinalizableAt))
	e.emit(models.EventAttested, map[string]interface{}{
		"bookingId":     bookingID,
		"outcome":       outcome,
		"metricsHash":   metricsHash,
		"attestedAt":    now,
		"finalizableAt": b.FinalizableAt,
	})
	return nil
}

// ClaimIfUnattested is the liveness escape hatch against a silent oracle:
// once the no-attest buffer has elapsed past the session end with the booking
// still unattested, either party can close it out with a full refund to the
// guest.
func (e *Engine) ClaimIfUnattested(caller string, bookingID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if b.Status != models.BookingBooked {
		return stateErrf("booking %d is %s, not Booked", bookingID, b.Status)
	}
	slot := e.slots[b.SlotID]
	if caller != b.Guest && caller != slot.Host {
		return authErrf("caller %s is neither guest nor host of booking %d", caller, bookingID)
	}
	deadline := slot.EndTime().Add(b.Terms.NoAttestBuffer)
	now := e.clock.Now()
	if now.Before(deadline) {
		return timingErrf("no-attest claim opens at %s", deadline)
	}

	b.Status = models.BookingFinalized
	slot.Status = models.SlotCancelled
	e.credit(b.Guest, b.Amount)

	e.logger.Info("unattested booking claimed",
		zap.Uint64("bookingId", bookingID),
		zap.String("caller", caller),
		zap.Int64("guestRefund", b.Amount))
	e.emit(models.EventFinalized, map[string]interface{}{
		"bookingId":   bookingID,
		"slotId":      slot.ID,
		"hostPaid":    int64(0),
		"guestRefund": b.Amount,
		"feePaid":     int64(0),
	})
	return nil
}
