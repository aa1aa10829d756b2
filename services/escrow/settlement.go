package escrow

import (
	"go.uber.org/zap"

	"bookvault/models"
)

// Finalize converts a booking's (possibly dispute-overridden) outcome into
// pull-ledger credits once the challenge window has passed. The guest's
// original amount is split exactly: a completed session or a guest no-show
// pays the host minus the protocol fee, while a host no-show or host
// cancellation refunds the guest in full. Callable by anyone.
func (e *Engine) Finalize(bookingID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if b.Status != models.BookingAttested && b.Status != models.BookingResolved {
		return stateErrf("booking %d is %s, not Attested or Resolved", bookingID, b.Status)
	}
	now := e.clock.Now()
	if now.Before(b.FinalizableAt) {
		return timingErrf("booking %d finalizable at %s", bookingID, b.FinalizableAt)
	}

	slot := e.slots[b.SlotID]
	var hostPaid, guestRefund, feePaid int64
	switch b.OracleOutcome {
	case models.OutcomeCompleted, models.OutcomeNoShowGuest:
		feePaid = b.Amount * b.Terms.FeeBps / models.BPS
		hostPaid = b.Amount - feePaid
	case models.OutcomeNoShowHost, models.OutcomeCancelledByHost:
		guestRefund = b.Amount
	case models.OutcomeCancelledByGuest:
		// Reserved outcome; nothing produces it today, but if it ever
		// arrives the guest is refunded in full.
		guestRefund = b.Amount
	default:
		return stateErrf("booking %d has no settleable outcome %q", bookingID, b.OracleOutcome)
	}
	if hostPaid+guestRefund+feePaid != b.Amount {
		return financialErrf("settlement split %d+%d+%d does not conserve amount %d", hostPaid, guestRefund, feePaid, b.Amount)
	}

	b.Status = models.BookingFinalized
	slot.Status = models.SlotSettled
	e.credit(slot.Host, hostPaid)
	e.credit(b.Guest, guestRefund)
	e.credit(e.treasury, feePaid)

	e.logger.Info("booking finalized",
		zap.Uint64("bookingId", bookingID),
		zap.String("outcome", string(b.OracleOutcome)),
		zap.Int64("hostPaid", hostPaid),
		zap.Int64("guestRefund", guestRefund),
		zap.Int64("feePaid", feePaid))
	e.emit(models.EventFinalized, map[string]interface{}{
		"bookingId":   bookingID,
		"slotId":      slot.ID,
		"hostPaid":    hostPaid,
		"guestRefund": guestRefund,
		"feePaid":     feePaid,
	})
	return nil
}
