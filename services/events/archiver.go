package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	eventsRepo "bookvault/database/repository/events"
	"bookvault/models"
)

// MongoArchiver appends every event to the durable Mongo archive.
type MongoArchiver struct {
	Repo   eventsRepo.EventArchive
	Logger *zap.Logger
}

func (a *MongoArchiver) Publish(ev models.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Repo.Append(ctx, ev); err != nil {
		a.Logger.Error("failed to archive event",
			zap.String("eventId", ev.ID),
			zap.String("type", ev.Type),
			zap.Error(err))
	}
}
