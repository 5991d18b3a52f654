package entitlement

import "context"

// Repository defines persistence operations for entitlements.
type Repository interface {
	// FindByUserID returns nil, nil when billing has not reported on the user.
	FindByUserID(ctx context.Context, userID string) (*Entitlement, error)
	Upsert(ctx context.Context, e *Entitlement) error
}
