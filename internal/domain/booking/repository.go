package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking and its comment thread.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByOwnerID retrieves every booking submitted by a user.
	FindByOwnerID(ctx context.Context, ownerID string) ([]*Booking, error)

	// FindByStatus retrieves every booking in a status (admin).
	FindByStatus(ctx context.Context, status BookingStatus) ([]*Booking, error)

	// ListAll retrieves every booking (admin).
	ListAll(ctx context.Context) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountCreatedSince returns how many bookings were created at or after t.
	CountCreatedSince(ctx context.Context, t time.Time) (int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists a status change, failing with a conflict if the stored
	// version is not the one the booking was loaded at.
	Update(ctx context.Context, booking *Booking) error

	// AppendComment persists the booking's newest comment under the same
	// version check as Update.
	AppendComment(ctx context.Context, booking *Booking, comment Comment) error
}
