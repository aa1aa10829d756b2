package escrow

import (
	"time"

	"github.com/google/uuid"

	"bookvault/models"
)

func newEvent(evType string, at time.Time, data map[string]interface{}) models.Event {
	return models.Event{
		ID:   uuid.New().String(),
		Type: evType,
		At:   at,
		Data: data,
	}
}
