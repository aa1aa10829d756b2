package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"bookvault/config"
	"bookvault/services/escrow"
	"bookvault/services/tasks"
)

// scanInterval is how often the scanner looks for due settlement work.
const scanInterval = time.Minute

// InitSettlementWorker starts the asynq worker that finalizes due bookings,
// closes timed-out disputes and sweeps unsolicited custody excess. The
// on-chain original lets anyone trigger these; here the worker is that
// anyone.
func InitSettlementWorker(engine *escrow.Engine) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeFinalize, handleFinalizeTask(engine))
	mux.HandleFunc(tasks.TypeDisputeTimeout, handleDisputeTimeoutTask(engine))
	mux.HandleFunc(tasks.TypeSweep, handleSweepTask(engine))

	go runScanner(engine, redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[SettlementWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SettlementWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SettlementWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runScanner periodically enqueues a task for every due booking. Task ids
// make duplicate enqueues between scans harmless.
func runScanner(engine *escrow.Engine, redisOpts asynq.RedisClientOpt) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for range ticker.C {
		for _, id := range engine.DueFinalizations() {
			task, opts, err := tasks.NewFinalizeTask(id)
			if err != nil {
				log.Printf("[SettlementScanner] failed to build finalize task for booking %d: %v", id, err)
				continue
			}
			if _, err := client.Enqueue(task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
				log.Printf("[SettlementScanner] failed to enqueue finalize for booking %d: %v", id, err)
			}
		}
		for _, id := range engine.DueDisputeTimeouts() {
			task, opts, err := tasks.NewDisputeTimeoutTask(id)
			if err != nil {
				log.Printf("[SettlementScanner] failed to build dispute-timeout task for booking %d: %v", id, err)
				continue
			}
			if _, err := client.Enqueue(task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
				log.Printf("[SettlementScanner] failed to enqueue dispute timeout for booking %d: %v", id, err)
			}
		}
		if _, err := client.Enqueue(tasks.NewSweepTask()); err != nil {
			log.Printf("[SettlementScanner] failed to enqueue sweep: %v", err)
		}
	}
}

func handleFinalizeTask(engine *escrow.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SettlementPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[SettlementWorker] invalid finalize payload: %v", err)
			return err
		}
		err := engine.Finalize(p.BookingID)
		// A booking already settled by someone else is not a worker failure.
		if errors.Is(err, escrow.ErrState) || errors.Is(err, escrow.ErrTiming) {
			log.Printf("[SettlementWorker] finalize for booking %d skipped: %v", p.BookingID, err)
			return nil
		}
		return err
	}
}

func handleDisputeTimeoutTask(engine *escrow.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SettlementPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[SettlementWorker] invalid dispute-timeout payload: %v", err)
			return err
		}
		err := engine.FinalizeDisputeByTimeout(p.BookingID)
		if errors.Is(err, escrow.ErrState) || errors.Is(err, escrow.ErrTiming) {
			log.Printf("[SettlementWorker] dispute timeout for booking %d skipped: %v", p.BookingID, err)
			return nil
		}
		return err
	}
}

func handleSweepTask(engine *escrow.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		swept, err := engine.SweepExcess()
		if err != nil {
			return err
		}
		if swept > 0 {
			log.Printf("[SettlementWorker] swept %d unsolicited tokens to treasury", swept)
		}
		return nil
	}
}
