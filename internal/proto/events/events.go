// Package events holds the topic names and payloads exchanged over Kafka.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicBillingEvents = "billing.events"
)

// Booking event types.
const (
	BookingSubmitted     = "booking.submitted"
	BookingStatusChanged = "booking.status_changed"
	BookingCommentAdded  = "booking.comment_added"
)

// Billing event types.
const (
	BillingSubscriptionUpdated = "billing.subscription.updated"
)

// BookingSubmittedEvent is published when a user submits a booking.
type BookingSubmittedEvent struct {
	BookingID       uuid.UUID  `json:"booking_id"`
	BookingNumber   string     `json:"booking_number"`
	OwnerID         string     `json:"owner_id"`
	ItineraryID     *uuid.UUID `json:"itinerary_id,omitempty"`
	ItineraryName   string     `json:"itinerary_name,omitempty"`
	SelectionCount  int        `json:"selection_count"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Currency        string     `json:"currency"`
	OccurredAt      time.Time  `json:"occurred_at"`
}

// BookingStatusChangedEvent is published when an agent moves a booking.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	OwnerID       string    `json:"owner_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedBy     string    `json:"changed_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCommentAddedEvent is published when a message is appended to a thread.
type BookingCommentAddedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	OwnerID       string    `json:"owner_id"`
	CommentID     uuid.UUID `json:"comment_id"`
	AuthorID      string    `json:"author_id"`
	IsAgent       bool      `json:"is_agent"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SubscriptionUpdatedEvent is consumed from billing.
type SubscriptionUpdatedEvent struct {
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Plan       string    `json:"plan"`
	OccurredAt time.Time `json:"occurred_at"`
}
