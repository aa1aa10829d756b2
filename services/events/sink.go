package events

import (
	"go.uber.org/zap"

	"bookvault/models"
)

// Sink receives engine events. Implementations must not block: Publish is
// called from inside the engine's critical section.
type Sink interface {
	Publish(ev models.Event)
}

// LogSink writes every event to the structured log.
type LogSink struct {
	Logger *zap.Logger
}

func (s *LogSink) Publish(ev models.Event) {
	s.Logger.Info("escrow event",
		zap.String("eventId", ev.ID),
		zap.String("type", ev.Type),
		zap.Time("at", ev.At),
		zap.Any("data", ev.Data))
}

// MultiSink fans one event out to several sinks.
type MultiSink []Sink

func (s MultiSink) Publish(ev models.Event) {
	for _, sink := range s {
		sink.Publish(ev)
	}
}

// AsyncSink decouples slow sinks (Redis, Mongo) from the engine's lock by
// queueing events onto a buffered channel drained by a single goroutine.
// Events are dropped with a warning if the buffer fills; the Mongo archive
// is the durable record and indexers re-sync from it.
type AsyncSink struct {
	ch     chan models.Event
	logger *zap.Logger
}

// NewAsyncSink starts the drain goroutine and returns the sink.
func NewAsyncSink(inner Sink, buffer int, logger *zap.Logger) *AsyncSink {
	s := &AsyncSink{
		ch:     make(chan models.Event, buffer),
		logger: logger,
	}
	go func() {
		for ev := range s.ch {
			inner.Publish(ev)
		}
	}()
	return s
}

func (s *AsyncSink) Publish(ev models.Event) {
	select {
	case s.ch <- ev:
	default:
		s.logger.Warn("event buffer full, dropping event",
			zap.String("eventId", ev.ID),
			zap.String("type", ev.Type))
	}
}

// Close stops the drain goroutine once queued events are flushed.
func (s *AsyncSink) Close() {
	close(s.ch)
}
