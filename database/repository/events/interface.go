package eventsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookvault/database"
	"bookvault/models"
)

// EventArchive is the append-only store of engine events consumed by
// external indexers.
type EventArchive interface {
	Append(ctx context.Context, ev models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListByType(ctx context.Context, evType string, limit int64) ([]models.Event, error)
	ListSince(ctx context.Context, since time.Time, limit int64) ([]models.Event, error)
}

type mongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo returns a new EventArchive instance using MongoDB.
func NewMongoEventRepo() EventArchive {
	db := database.MongoClient.Database("bookvault")
	return &mongoEventRepo{
		coll: db.Collection("escrow_events"),
	}
}
