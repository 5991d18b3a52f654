package entitlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripdesk/service-booking/internal/platform/domain"
)

// Status mirrors the billing subscription state.
type Status string

const (
	StatusActive   Status = "active"
	StatusTrialing Status = "trialing"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusNone     Status = "none"
)

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusTrialing, StatusPastDue, StatusCanceled, StatusNone:
		return true
	}
	return false
}

// Entitlement is the booking service's snapshot of a user's subscription.
type Entitlement struct {
	userID    string
	status    Status
	plan      string
	updatedAt time.Time
}

// NewEntitlement validates and builds an entitlement snapshot.
func NewEntitlement(userID string, status Status, plan string, at time.Time) (*Entitlement, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user ID is required")
	}
	status = Status(strings.ToLower(string(status)))
	if !status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid subscription status: %s", status))
	}
	if at.IsZero() {
		at = time.Now()
	}
	return &Entitlement{
		userID:    userID,
		status:    status,
		plan:      plan,
		updatedAt: at.UTC().Truncate(time.Microsecond),
	}, nil
}

// None returns the entitlement of a user billing has never reported on.
func None(userID string) *Entitlement {
	return &Entitlement{userID: userID, status: StatusNone}
}

// Reconstruct rebuilds an Entitlement from persistence data.
func Reconstruct(userID string, status Status, plan string, updatedAt time.Time) *Entitlement {
	return &Entitlement{userID: userID, status: status, plan: plan, updatedAt: updatedAt}
}

func (e *Entitlement) UserID() string       { return e.userID }
func (e *Entitlement) Status() Status       { return e.status }
func (e *Entitlement) Plan() string         { return e.plan }
func (e *Entitlement) UpdatedAt() time.Time { return e.updatedAt }

// CanBook reports whether the subscription allows submitting bookings.
func (e *Entitlement) CanBook() bool {
	return e.status == StatusActive || e.status == StatusTrialing
}

// IsNewerThan reports whether e was issued after other. Billing events can
// arrive out of order.
func (e *Entitlement) IsNewerThan(other *Entitlement) bool {
	if other == nil {
		return true
	}
	return !e.updatedAt.Before(other.updatedAt)
}
