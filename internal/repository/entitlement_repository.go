package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	entitlementDomain "github.com/tripdesk/service-booking/internal/domain/entitlement"
)

// EntitlementModel is the GORM model for the entitlements table.
type EntitlementModel struct {
	UserID    string    `gorm:"primaryKey;size:128"`
	Status    string    `gorm:"type:varchar(20);not null"`
	Plan      string    `gorm:"type:varchar(50)"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (EntitlementModel) TableName() string { return "entitlements" }

// GormEntitlementRepository implements entitlement.Repository using GORM.
type GormEntitlementRepository struct {
	db *gorm.DB
}

func NewGormEntitlementRepository(db *gorm.DB) *GormEntitlementRepository {
	return &GormEntitlementRepository{db: db}
}

// FindByUserID returns nil, nil when there is no row for the user.
func (r *GormEntitlementRepository) FindByUserID(ctx context.Context, userID string) (*entitlementDomain.Entitlement, error) {
	var model EntitlementModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entitlement: %w", err)
	}
	return entitlementDomain.Reconstruct(
		model.UserID,
		entitlementDomain.Status(model.Status),
		model.Plan,
		model.UpdatedAt,
	), nil
}

// Upsert inserts or replaces the user's entitlement. A stored row that is
// newer than e is left alone.
func (r *GormEntitlementRepository) Upsert(ctx context.Context, e *entitlementDomain.Entitlement) error {
	model := EntitlementModel{
		UserID:    e.UserID(),
		Status:    string(e.Status()),
		Plan:      e.Plan(),
		UpdatedAt: e.UpdatedAt(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "plan", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "entitlements.updated_at <= EXCLUDED.updated_at"},
		}},
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert entitlement: %w", err)
	}
	return nil
}
