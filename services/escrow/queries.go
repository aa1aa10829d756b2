package escrow

import (
	"bookvault/models"
)

// Read-only views. These take the read lock only, so lookups run concurrently
// with each other and never wait on anything but an in-flight mutation.

// GetSlot returns a copy of the slot record.
func (e *Engine) GetSlot(slotID uint64) (models.Slot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	slot, ok := e.slots[slotID]
	if !ok {
		return models.Slot{}, validationErrf("unknown slot %d", slotID)
	}
	return *slot, nil
}

// GetBooking returns a copy of the booking record.
func (e *Engine) GetBooking(bookingID uint64) (models.Booking, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bookings[bookingID]
	if !ok {
		return models.Booking{}, validationErrf("unknown booking %d", bookingID)
	}
	return *b, nil
}

// GetRequest returns a copy of the request record.
func (e *Engine) GetRequest(requestID uint64) (models.Request, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	req, ok := e.requests[requestID]
	if !ok {
		return models.Request{}, validationErrf("unknown request %d", requestID)
	}
	return *req, nil
}

// Owed returns an address's withdrawable balance.
func (e *Engine) Owed(address string) int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.owed[address]
}

// Ledger returns the global custody counters.
func (e *Engine) Ledger() models.LedgerView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return models.LedgerView{
		TotalHeld: e.totalHeld,
		Custodied: e.vault.BalanceOf(e.custody),
	}
}

// Params returns the current (not snapshotted) engine parameters.
func (e *Engine) Params() models.EngineParams {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

// HostBasePrice returns a host's published base price, 0 if none.
func (e *Engine) HostBasePrice(host string) int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.basePrices[host]
}

// DueFinalizations lists bookings whose challenge window has passed and are
// ready for Finalize. Feeds the settlement worker.
func (e *Engine) DueFinalizations() []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	now := e.clock.Now()
	var due []uint64
	for id, b := range e.bookings {
		if b.Status != models.BookingAttested && b.Status != models.BookingResolved {
			continue
		}
		if !now.Before(b.FinalizableAt) {
			due = append(due, id)
		}
	}
	return due
}

// DueDisputeTimeouts lists disputes the admin has left past their timeout,
// ready for FinalizeDisputeByTimeout. Feeds the settlement worker.
func (e *Engine) DueDisputeTimeouts() []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	now := e.clock.Now()
	var due []uint64
	for id, b := range e.bookings {
		if b.Status != models.BookingDisputed {
			continue
		}
		if !now.Before(b.DisputedAt.Add(b.Terms.DisputeTimeout)) {
			due = append(due, id)
		}
	}
	return due
}
