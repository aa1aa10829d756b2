package eventsRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookvault/models"
)

// Append inserts an event record. Events are never updated or deleted.
func (r *mongoEventRepo) Append(ctx context.Context, ev models.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, ev)
	return err
}

// GetByID returns a single event by its id.
func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var ev models.Event
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListByType fetches the most recent events of one type.
func (r *mongoEventRepo) ListByType(ctx context.Context, evType string, limit int64) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.M{"at": -1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"type": evType}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListSince fetches events emitted at or after the given instant, oldest
// first, for indexer catch-up.
func (r *mongoEventRepo) ListSince(ctx context.Context, since time.Time, limit int64) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.M{"at": 1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"at": bson.M{"$gte": since}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
