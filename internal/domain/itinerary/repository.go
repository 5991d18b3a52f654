package itinerary

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for itineraries.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Itinerary, error)
	FindByOwnerID(ctx context.Context, ownerID string) ([]*Itinerary, error)
	Save(ctx context.Context, it *Itinerary) error
	Update(ctx context.Context, it *Itinerary) error
}
