package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a user's request to have an itinerary
// fulfilled by an agent.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	owner         Owner
	itineraryID   *uuid.UUID
	itineraryName string
	selections    []selection.Selection

	totalPriceCents int64
	currency        string

	status   BookingStatus
	comments []Comment

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// now is truncated to the precision the store keeps so that values read back
// compare equal to the ones written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewBooking creates a new Booking aggregate with status=pending_review.
func NewBooking(
	owner Owner,
	itinerary *ItineraryRef,
	selections []selection.Selection,
	totalPriceCents int64,
) (*Booking, error) {
	if strings.TrimSpace(owner.ID) == "" {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if len(selections) == 0 {
		return nil, domain.NewValidationError("at least one selection is required")
	}
	if err := selection.Validate(selections); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if totalPriceCents < 0 {
		return nil, domain.NewValidationError("total price cannot be negative")
	}

	var itineraryID *uuid.UUID
	var itineraryName string
	if itinerary != nil {
		id, err := uuid.Parse(itinerary.ID)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid itinerary ID: %s", itinerary.ID))
		}
		itineraryID = &id
		itineraryName = itinerary.Name
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	ts := now()
	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		owner:           owner,
		itineraryID:     itineraryID,
		itineraryName:   itineraryName,
		selections:      selection.Clone(selections),
		totalPriceCents: totalPriceCents,
		currency:        domain.CurrencyUSD,
		status:          StatusPendingReview,
		comments:        []Comment{},
		version:         1,
		createdAt:       ts,
		updatedAt:       ts,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	owner Owner,
	itineraryID *uuid.UUID,
	itineraryName string,
	selections []selection.Selection,
	totalPriceCents int64,
	currency string,
	status BookingStatus,
	comments []Comment,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	if comments == nil {
		comments = []Comment{}
	}
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		owner:           owner,
		itineraryID:     itineraryID,
		itineraryName:   itineraryName,
		selections:      selections,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		status:          status,
		comments:        comments,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Owner returns the owner snapshot taken at submission.
func (b *Booking) Owner() Owner { return b.owner }

// OwnerID returns the submitting user's ID.
func (b *Booking) OwnerID() string { return b.owner.ID }

// ItineraryID returns the source itinerary, or nil if the booking was built inline.
func (b *Booking) ItineraryID() *uuid.UUID { return b.itineraryID }

// ItineraryName returns the itinerary's display name at submission.
func (b *Booking) ItineraryName() string { return b.itineraryName }

// Selections returns a copy of the booked line items.
func (b *Booking) Selections() []selection.Selection { return selection.Clone(b.selections) }

// TotalPriceCents returns the quoted total in cents.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Comments returns the thread in creation order.
func (b *Booking) Comments() []Comment { return append([]Comment(nil), b.comments...) }

// CommentCount returns the number of comments in the thread.
func (b *Booking) CommentCount() int { return len(b.comments) }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsOwnedBy reports whether userID submitted the booking.
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.owner.ID == userID
}

// CanBeViewedBy reports whether the actor may read the booking and its thread.
func (b *Booking) CanBeViewedBy(a Actor) bool {
	return a.IsAdmin() || b.IsOwnedBy(a.ID)
}

// CanComment reports whether the thread still accepts comments.
func (b *Booking) CanComment() bool {
	return b.status.AcceptsComments()
}

// SetStatus moves the booking to newStatus. Only admins may do so, and the
// policy decides which edges are legal. On error the booking is unchanged.
func (b *Booking) SetStatus(newStatus BookingStatus, actor Actor, policy TransitionPolicy) error {
	if !actor.IsAdmin() {
		return domain.NewForbiddenError("only agents can change booking status")
	}
	if !newStatus.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", newStatus))
	}
	if !policy.Allows(b.status, newStatus) {
		return domain.NewInvalidStateError(string(b.status), string(newStatus))
	}
	b.status = newStatus
	b.touch()
	return nil
}

// AddComment appends a message to the thread and returns it.
func (b *Booking) AddComment(authorID, authorName string, isAgent bool, body string) (Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Comment{}, domain.NewValidationError("comment body is required")
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return Comment{}, domain.NewValidationError(fmt.Sprintf("comment exceeds %d characters", MaxCommentLength))
	}
	if strings.TrimSpace(authorID) == "" {
		return Comment{}, domain.NewValidationError("comment author is required")
	}
	if !b.CanComment() {
		return Comment{}, domain.NewCommentsClosedError(string(b.status))
	}

	b.touch()
	c := Comment{
		id:         uuid.New(),
		seq:        len(b.comments) + 1,
		authorID:   authorID,
		authorName: authorName,
		isAgent:    isAgent,
		body:       body,
		createdAt:  b.updatedAt,
	}
	b.comments = append(b.comments, c)
	return c, nil
}

// touch bumps the version and moves updatedAt strictly forward.
func (b *Booking) touch() {
	ts := now()
	if !ts.After(b.updatedAt) {
		ts = b.updatedAt.Add(time.Microsecond)
	}
	b.updatedAt = ts
	b.version++
}
