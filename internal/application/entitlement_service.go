package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	entitlementDomain "github.com/tripdesk/service-booking/internal/domain/entitlement"
	"github.com/tripdesk/service-booking/internal/proto/events"
)

// EntitlementDTO is the API response representation of a subscription snapshot.
type EntitlementDTO struct {
	Status    string     `json:"status"`
	Plan      string     `json:"plan,omitempty"`
	CanBook   bool       `json:"can_book"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EntitlementService keeps the local subscription snapshot in sync with billing.
type EntitlementService struct {
	repo   entitlementDomain.Repository
	logger *zap.Logger
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(repo entitlementDomain.Repository, logger *zap.Logger) *EntitlementService {
	return &EntitlementService{repo: repo, logger: logger}
}

// ApplySubscriptionUpdate stores the subscription state carried by a billing event.
func (s *EntitlementService) ApplySubscriptionUpdate(ctx context.Context, evt events.SubscriptionUpdatedEvent) error {
	ent, err := entitlementDomain.NewEntitlement(evt.UserID, entitlementDomain.Status(evt.Status), evt.Plan, evt.OccurredAt)
	if err != nil {
		return err
	}

	current, err := s.repo.FindByUserID(ctx, ent.UserID())
	if err != nil {
		return fmt.Errorf("failed to load entitlement: %w", err)
	}
	if !ent.IsNewerThan(current) {
		s.logger.Info("stale subscription update ignored",
			zap.String("user_id", ent.UserID()),
			zap.Time("occurred_at", ent.UpdatedAt()),
			zap.Time("stored_at", current.UpdatedAt()),
		)
		return nil
	}

	// Upsert also guards on updated_at for concurrent deliveries.
	if err := s.repo.Upsert(ctx, ent); err != nil {
		return fmt.Errorf("failed to store entitlement: %w", err)
	}

	s.logger.Info("entitlement updated",
		zap.String("user_id", ent.UserID()),
		zap.String("status", string(ent.Status())),
		zap.String("plan", ent.Plan()),
	)
	return nil
}

// GetEntitlement returns the user's snapshot, or status "none" if billing has
// never reported on the user.
func (s *EntitlementService) GetEntitlement(ctx context.Context, userID string) (*EntitlementDTO, error) {
	ent, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		ent = entitlementDomain.None(userID)
	}

	result := &EntitlementDTO{
		Status:  string(ent.Status()),
		Plan:    ent.Plan(),
		CanBook: ent.CanBook(),
	}
	if !ent.UpdatedAt().IsZero() {
		at := ent.UpdatedAt()
		result.UpdatedAt = &at
	}
	return result, nil
}
