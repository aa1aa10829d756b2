package escrow

import (
	"time"

	"go.uber.org/zap"

	"bookvault/models"
)

// Book reserves an open slot for the calling guest. The slot price is pulled
// from the guest into escrow and the current engine parameters are frozen
// into the booking's terms.
func (e *Engine) Book(guest string, slotID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, ok := e.slots[slotID]
	if !ok {
		return 0, validationErrf("unknown slot %d", slotID)
	}
	if guest == "" {
		return 0, authErrf("caller identity is required")
	}
	if slot.Status != models.SlotOpen {
		return 0, stateErrf("slot %d is %s, not Open", slotID, slot.Status)
	}
	if slot.BookingID != 0 {
		return 0, stateErrf("slot %d already has booking %d", slotID, slot.BookingID)
	}
	if guest == slot.Host {
		return 0, validationErrf("host cannot book their own slot")
	}

	now := e.clock.Now()
	id := e.nextBookingID
	e.nextBookingID++
	booking := &models.Booking{
		ID:        id,
		SlotID:    slotID,
		Guest:     guest,
		Amount:    slot.Price,
		Status:    models.BookingBooked,
		Terms:     e.params.Snapshot(),
		CreatedAt: now,
	}
	e.bookings[id] = booking
	slot.Status = models.SlotBooked
	slot.BookingID = id

	if err := e.pull(guest, slot.Price); err != nil {
		delete(e.bookings, id)
		e.nextBookingID--
		slot.Status = models.SlotOpen
		slot.BookingID = 0
		return 0, err
	}

	e.logger.Info("slot booked",
		zap.Uint64("slotId", slotID),
		zap.Uint64("bookingId", id),
		zap.String("guest", guest),
		zap.Int64("amount", slot.Price))
	e.emit(models.EventBooked, map[string]interface{}{
		"slotId":    slotID,
		"bookingId": id,
		"guest":     guest,
		"amount":    slot.Price,
	})
	return id, nil
}

// CancelBookingAsGuest cancels a booking before the session starts. Up to the
// slot's cancellation cutoff the guest gets a full refund and the slot
// reopens; after the cutoff a penalty is split between host and treasury and
// the slot is retired.
func (e *Engine) CancelBookingAsGuest(caller string, bookingID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.bookings[bookingID]
	if !ok {
		return validationErrf("unknown booking %d", bookingID)
	}
	if b.Status != models.BookingBooked {
		return stateErrf("booking %d is %s, not Booked", bookingID, b.Status)
	}
	if caller != b.Guest {
		return authErrf("caller %s is not the booking guest", caller)
	}
	slot := e.slots[b.SlotID]
	now := e.clock.Now()
	if !now.Before(slot.StartTime) {
		return timingErrf("session already started at %s", slot.StartTime)
	}

	cutoff := slot.StartTime.Add(-time.Duration(slot.CancelCutoffMins) * time.Minute)
	if !now.After(cutoff) {
		// Early cancel: full refund, slot becomes bookable again.
		b.Status = models.BookingCancelled
		slot.Status = models.SlotOpen
		slot.BookingID = 0
		e.credit(b.Guest, b.Amount)

		e.logger.Info("booking cancelled early by guest",
			zap.Uint64("bookingId", bookingID),
			zap.Int64("refund", b.Amount))
		e.emit(models.EventBookingCancelled, map[string]interface{}{
			"bookingId": bookingID,
			"slotId":    slot.ID,
			"refund":    b.Amount,
			"penalty":   int64(0),
			"hostPaid":  int64(0),
			"feePaid":   int64(0),
		})
		return nil
	}

	// Late cancel: penalty and fee use truncating integer division. The
	// three legs must add back up to the exact booking amount.
	penalty := b.Amount * b.Terms.LateCancelPenaltyBps / models.BPS
	fee := penalty * b.Terms.FeeBps / models.BPS
	hostNet := penalty - fee
	refund := b.Amount - penalty
	if refund+hostNet+fee != b.Amount {
		return financialErrf("cancellation split %d+%d+%d does not conserve amount %d", refund, hostNet, fee, b.Amount)
	}

	b.Status = models.BookingCancelled
	slot.Status = models.SlotSettled
	e.credit(b.Guest, refund)
	e.credit(slot.Host, hostNet)
	e.credit(e.treasury, fee)

	e.logger.Info("booking cancelled late by guest",
		zap.Uint64("bookingId", bookingID),
		zap.Int64("refund", refund),
		zap.Int64("penalty", penalty),
		zap.Int64("hostPaid", hostNet),
		zap.Int64("feePaid", fee))
	e.emit(models.EventBookingCancelled, map[string]interface{}{
		"bookingId": bookingID,
		"slotId":    slot.ID,
		"refund":    refund,
		"penalty":   penalty,
		"hostPaid":  hostNet,
		"feePaid":   fee,
	})
	return nil
}

// CancelBookingAsHost lets the host call off a not-yet-started session. The
// guest is always made whole; the slot is retired as Cancelled.
func (e *Engine) CancelBookingAsHost(caller string, bookingID uint64) error {
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
	if caller != slot.Host {
		return authErrf("caller %s is not the slot host", caller)
	}
	now := e.clock.Now()
	if !now.Before(slot.StartTime) {
		return timingErrf("session already started at %s", slot.StartTime)
	}

	b.Status = models.BookingCancelled
	slot.Status = models.SlotCancelled
	e.credit(b.Guest, b.Amount)

	e.logger.Info("booking cancelled by host",
		zap.Uint64("bookingId", bookingID),
		zap.Int64("refund", b.Amount))
	e.emit(models.EventBookingCancelled, map[string]interface{}{
		"bookingId": bookingID,
		"slotId":    slot.ID,
		"refund":    b.Amount,
		"penalty":   int64(0),
		"hostPaid":  int64(0),
		"feePaid":   int64(0),
	})
	return nil
}
