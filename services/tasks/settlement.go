package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeFinalize       = "escrow:finalize"
	TypeDisputeTimeout = "escrow:dispute_timeout"
	TypeSweep          = "escrow:sweep"
)

// SettlementPayload carries the booking a settlement task targets.
type SettlementPayload struct {
	BookingID uint64 `json:"bookingId"`
}

// NewFinalizeTask builds a task that finalizes one due booking. The task id
// dedupes repeated enqueues from the scanner.
func NewFinalizeTask(bookingID uint64) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SettlementPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeFinalize, b)
	opts := []asynq.Option{asynq.TaskID(fmt.Sprintf("finalize:%d", bookingID))}
	return task, opts, nil
}

// NewDisputeTimeoutTask builds a task that closes one timed-out dispute.
func NewDisputeTimeoutTask(bookingID uint64) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SettlementPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDisputeTimeout, b)
	opts := []asynq.Option{asynq.TaskID(fmt.Sprintf("dispute-timeout:%d", bookingID))}
	return task, opts, nil
}

// NewSweepTask builds the periodic excess-sweep task.
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweep, nil)
}
