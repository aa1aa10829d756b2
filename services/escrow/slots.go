package escrow

import (
	"time"

	"go.uber.org/zap"

	"bookvault/models"
)

// CreateSlot publishes a bookable time slot for the calling host. The price
// is snapshotted here and can never change afterwards.
func (e *Engine) CreateSlot(host string, startTime time.Time, durationMins int, price int64, graceMins, minOverlapMins, cancelCutoffMins int) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if host == "" {
		return 0, authErrf("caller identity is required")
	}
	if err := validateSlotShape(e.clock.Now(), startTime, durationMins, price, graceMins, minOverlapMins, cancelCutoffMins); err != nil {
		return 0, err
	}

	id := e.nextSlotID
	e.nextSlotID++
	slot := &models.Slot{
		ID:               id,
		Host:             host,
		StartTime:        startTime,
		DurationMins:     durationMins,
		Price:            price,
		GraceMins:        graceMins,
		MinOverlapMins:   minOverlapMins,
		CancelCutoffMins: cancelCutoffMins,
		Status:           models.SlotOpen,
		CreatedAt:        e.clock.Now(),
	}
	e.slots[id] = slot

	e.logger.Info("slot created",
		zap.Uint64("slotId", id),
		zap.String("host", host),
		zap.Time("startTime", startTime),
		zap.Int64("price", price))
	e.emit(models.EventSlotCreated, map[string]interface{}{
		"slotId":           id,
		"host":             host,
		"startTime":        startTime,
		"durationMins":     durationMins,
		"price":            price,
		"graceMins":        graceMins,
		"minOverlapMins":   minOverlapMins,
		"cancelCutoffMins": cancelCutoffMins,
	})
	return id, nil
}

func validateSlotShape(now, startTime time.Time, durationMins int, price int64, graceMins, minOverlapMins, cancelCutoffMins int) error {
	if price <= 0 {
		return validationErrf("price must be positive, got %d", price)
	}
	if !startTime.After(now.Add(slotStartBuffer)) {
		return validationErrf("startTime %s is not far enough in the future", startTime)
	}
	if durationMins <= 0 || durationMins > maxDurationMins {
		return validationErrf("durationMins %d outside (0, %d]", durationMins, maxDurationMins)
	}
	if graceMins < 0 {
		return validationErrf("graceMins must not be negative, got %d", graceMins)
	}
	if minOverlapMins < 0 || minOverlapMins > durationMins {
		return validationErrf("minOverlapMins %d outside [0, %d]", minOverlapMins, durationMins)
	}
	if cancelCutoffMins < 0 || cancelCutoffMins > maxCancelCutoffMins {
		return validationErrf("cancelCutoffMins %d outside [0, %d]", cancelCutoffMins, maxCancelCutoffMins)
	}
	return nil
}

// CancelSlot withdraws an open, unbooked slot. Host-only.
func (e *Engine) CancelSlot(caller string, slotID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, ok := e.slots[slotID]
	if !ok {
		return validationErrf("unknown slot %d", slotID)
	}
	if caller != slot.Host {
		return authErrf("caller %s is not the slot host", caller)
	}
	if slot.Status != models.SlotOpen {
		return stateErrf("slot %d is %s, not Open", slotID, slot.Status)
	}

	slot.Status = models.SlotCancelled

	e.logger.Info("slot cancelled", zap.Uint64("slotId", slotID), zap.String("host", caller))
	e.emit(models.EventSlotCancelled, map[string]interface{}{
		"slotId": slotID,
		"host":   caller,
	})
	return nil
}
