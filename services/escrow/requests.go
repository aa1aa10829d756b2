package escrow

import (
	"time"

	"go.uber.org/zap"

	"bookvault/models"
)

// CreateRequest escrows an offer for a session anywhere inside the given
// window. The amount is pulled from the guest immediately, before any host
// has committed; a targeted request must meet the target host's published
// base price.
func (e *Engine) CreateRequest(guest, hostTarget string, windowStart, windowEnd time.Time, durationMins int, amount int64, expiry time.Time) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if guest == "" {
		return 0, authErrf("caller identity is required")
	}
	if amount <= 0 {
		return 0, validationErrf("amount must be positive, got %d", amount)
	}
	if windowEnd.Before(windowStart) {
		return 0, validationErrf("windowEnd %s before windowStart %s", windowEnd, windowStart)
	}
	if durationMins <= 0 || durationMins > maxDurationMins {
		return 0, validationErrf("durationMins %d outside (0, %d]", durationMins, maxDurationMins)
	}
	now := e.clock.Now()
	if !expiry.After(now) {
		return 0, validationErrf("expiry %s is not in the future", expiry)
	}
	if expiry.After(windowEnd) {
		return 0, validationErrf("expiry %s is after windowEnd %s", expiry, windowEnd)
	}
	if hostTarget != "" {
		if base, ok := e.basePrices[hostTarget]; ok && amount < base {
			return 0, validationErrf("amount %d below host base price %d", amount, base)
		}
	}

	id := e.nextRequestID
	e.nextRequestID++
	req := &models.Request{
		ID:           id,
		Guest:        guest,
		HostTarget:   hostTarget,
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		DurationMins: durationMins,
		Amount:       amount,
		Expiry:       expiry,
		Status:       models.RequestOpen,
		CreatedAt:    now,
	}
	e.requests[id] = req

	if err := e.pull(guest, amount); err != nil {
		delete(e.requests, id)
		e.nextRequestID--
		return 0, err
	}

	e.logger.Info("request created",
		zap.Uint64("requestId", id),
		zap.String("guest", guest),
		zap.String("hostTarget", hostTarget),
		zap.Int64("amount", amount))
	e.emit(models.EventRequestCreated, map[string]interface{}{
		"requestId":    id,
		"guest":        guest,
		"hostTarget":   hostTarget,
		"windowStart":  windowStart,
		"windowEnd":    windowEnd,
		"durationMins": durationMins,
		"amount":       amount,
		"expiry":       expiry,
	})
	return id, nil
}

// CancelRequest withdraws an open request and credits the escrowed amount
// back to the guest. Expired-but-open requests can still be cancelled.
func (e *Engine) CancelRequest(caller string, requestID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	req, ok := e.requests[requestID]
	if !ok {
		return validationErrf("unknown request %d", requestID)
	}
	if caller != req.Guest {
		return authErrf("caller %s is not the requesting guest", caller)
	}
	if req.Status != models.RequestOpen {
		return stateErrf("request %d is %s, not Open", requestID, req.Status)
	}

	req.Status = models.RequestCancelled
	e.credit(req.Guest, req.Amount)

	e.logger.Info("request cancelled", zap.Uint64("requestId", requestID), zap.Int64("refund", req.Amount))
	e.emit(models.EventRequestCancelled, map[string]interface{}{
		"requestId": requestID,
		"guest":     req.Guest,
		"refund":    req.Amount,
	})
	return nil
}

// AcceptRequest turns an open request into a slot and a booking in one step.
// The booking is funded from the already-escrowed request amount; no new
// tokens move. The slot is priced at the host's base price when one is
// published, otherwise at the request amount.
func (e *Engine) AcceptRequest(caller string, requestID uint64, startTime time.Time, graceMins, minOverlapMins, cancelCutoffMins int) (uint64, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	req, ok := e.requests[requestID]
	if !ok {
		return 0, 0, validationErrf("unknown request %d", requestID)
	}
	if req.Status != models.RequestOpen {
		return 0, 0, stateErrf("request %d is %s, not Open", requestID, req.Status)
	}
	now := e.clock.Now()
	if !now.Before(req.Expiry) {
		return 0, 0, timingErrf("request %d expired at %s", requestID, req.Expiry)
	}
	if caller == "" {
		return 0, 0, authErrf("caller identity is required")
	}
	if caller == req.Guest {
		return 0, 0, authErrf("guest cannot accept their own request")
	}
	if req.HostTarget != "" && caller != req.HostTarget {
		return 0, 0, authErrf("request %d is reserved for host %s", requestID, req.HostTarget)
	}
	if startTime.Before(req.WindowStart) || startTime.After(req.WindowEnd) {
		return 0, 0, validationErrf("startTime %s outside request window [%s, %s]", startTime, req.WindowStart, req.WindowEnd)
	}

	price := req.Amount
	if base, ok := e.basePrices[caller]; ok {
		price = base
	}
	if err := validateSlotShape(now, startTime, req.DurationMins, price, graceMins, minOverlapMins, cancelCutoffMins); err != nil {
		return 0, 0, err
	}

	slotID := e.nextSlotID
	e.nextSlotID++
	bookingID := e.nextBookingID
	e.nextBookingID++

	slot := &models.Slot{
		ID:               slotID,
		Host:             caller,
		StartTime:        startTime,
		DurationMins:     req.DurationMins,
		Price:            price,
		GraceMins:        graceMins,
		MinOverlapMins:   minOverlapMins,
		CancelCutoffMins: cancelCutoffMins,
		Status:           models.SlotBooked,
		BookingID:        bookingID,
		CreatedAt:        now,
	}
	booking := &models.Booking{
		ID:        bookingID,
		SlotID:    slotID,
		Guest:     req.Guest,
		Amount:    req.Amount,
		Status:    models.BookingBooked,
		Terms:     e.params.Snapshot(),
		CreatedAt: now,
	}
	e.slots[slotID] = slot
	e.bookings[bookingID] = booking

	req.Status = models.RequestAccepted
	req.SlotID = slotID
	req.BookingID = bookingID
	req.Host = caller

	e.logger.Info("request accepted",
		zap.Uint64("requestId", requestID),
		zap.Uint64("slotId", slotID),
		zap.Uint64("bookingId", bookingID),
		zap.String("host", caller))
	e.emit(models.EventSlotCreated, map[string]interface{}{
		"slotId":           slotID,
		"host":             caller,
		"startTime":        startTime,
		"durationMins":     req.DurationMins,
		"price":            price,
		"graceMins":        graceMins,
		"minOverlapMins":   minOverlapMins,
		"cancelCutoffMins": cancelCutoffMins,
	})
	e.emit(models.EventRequestAccepted, map[string]interface{}{
		"requestId": requestID,
		"slotId":    slotID,
		"bookingId": bookingID,
		"host":      caller,
		"guest":     req.Guest,
		"amount":    req.Amount,
	})
	return slotID, bookingID, nil
}
