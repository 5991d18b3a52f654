package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPendingReview    BookingStatus = "pending_review"
	StatusAgentReviewing   BookingStatus = "agent_reviewing"
	StatusQuestionsPending BookingStatus = "questions_pending"
	StatusConfirmed        BookingStatus = "confirmed"
	StatusCompleted        BookingStatus = "completed"
	StatusCancelled        BookingStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []BookingStatus{
	StatusPendingReview,
	StatusAgentReviewing,
	StatusQuestionsPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for completed and cancelled.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AcceptsComments returns false only for cancelled bookings.
func (s BookingStatus) AcceptsComments() bool {
	return s != StatusCancelled
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// TransitionPolicy is the table of allowed next states per current state.
type TransitionPolicy struct {
	name    string
	allowed map[BookingStatus][]BookingStatus
}

// PermissiveTransitions lets an operator move a booking from any status to any status.
func PermissiveTransitions() TransitionPolicy {
	allowed := make(map[BookingStatus][]BookingStatus, len(AllStatuses))
	for _, from := range AllStatuses {
		allowed[from] = append([]BookingStatus(nil), AllStatuses...)
	}
	return TransitionPolicy{name: "permissive", allowed: allowed}
}

// StrictTransitions only allows forward moves along the fulfillment chain,
// plus cancellation from any non-terminal status.
func StrictTransitions() TransitionPolicy {
	return TransitionPolicy{
		name: "strict",
		allowed: map[BookingStatus][]BookingStatus{
			StatusPendingReview:    {StatusAgentReviewing, StatusQuestionsPending, StatusConfirmed, StatusCancelled},
			StatusAgentReviewing:   {StatusQuestionsPending, StatusConfirmed, StatusCancelled},
			StatusQuestionsPending: {StatusAgentReviewing, StatusConfirmed, StatusCancelled},
			StatusConfirmed:        {StatusCompleted, StatusCancelled},
			StatusCompleted:        {},
			StatusCancelled:        {},
		},
	}
}

// NewTransitionPolicy builds a policy from an explicit table.
func NewTransitionPolicy(name string, allowed map[BookingStatus][]BookingStatus) TransitionPolicy {
	return TransitionPolicy{name: name, allowed: allowed}
}

// Name identifies the policy in logs.
func (p TransitionPolicy) Name() string { return p.name }

// Allows returns true if moving from one status to another is permitted.
func (p TransitionPolicy) Allows(from, to BookingStatus) bool {
	for _, t := range p.allowed[from] {
		if t == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
func (p TransitionPolicy) NextStatuses(from BookingStatus) []BookingStatus {
	return append([]BookingStatus(nil), p.allowed[from]...)
}
