package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itineraryDomain "github.com/tripdesk/service-booking/internal/domain/itinerary"
	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

// ItineraryModel is the GORM model for the itineraries table.
type ItineraryModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID    string          `gorm:"not null;index;size:128"`
	Name       string          `gorm:"type:varchar(120);not null"`
	Selections json.RawMessage `gorm:"type:jsonb;not null"`
	Status     string          `gorm:"type:varchar(20);not null;default:'active'"`
	Version    int64           `gorm:"not null;default:1"`
	CreatedAt  time.Time       `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt  time.Time       `gorm:"type:timestamptz;not null;default:now()"`
}

func (ItineraryModel) TableName() string { return "itineraries" }

// GormItineraryRepository implements itinerary.Repository using GORM.
type GormItineraryRepository struct {
	db *gorm.DB
}

func NewGormItineraryRepository(db *gorm.DB) *GormItineraryRepository {
	return &GormItineraryRepository{db: db}
}

func (r *GormItineraryRepository) FindByID(ctx context.Context, id uuid.UUID) (*itineraryDomain.Itinerary, error) {
	var model ItineraryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Itinerary", id.String())
		}
		return nil, fmt.Errorf("failed to find itinerary: %w", err)
	}
	return toItineraryDomain(&model)
}

// FindByOwnerID returns the user's active itineraries, newest first.
func (r *GormItineraryRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]*itineraryDomain.Itinerary, error) {
	var models []ItineraryModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, string(itineraryDomain.StatusActive)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner itineraries: %w", err)
	}
	items := make([]*itineraryDomain.Itinerary, len(models))
	for i := range models {
		it, err := toItineraryDomain(&models[i])
		if err != nil {
			return nil, err
		}
		items[i] = it
	}
	return items, nil
}

func (r *GormItineraryRepository) Save(ctx context.Context, it *itineraryDomain.Itinerary) error {
	model, err := toItineraryModel(it)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save itinerary: %w", err)
	}
	return nil
}

func (r *GormItineraryRepository) Update(ctx context.Context, it *itineraryDomain.Itinerary) error {
	model, err := toItineraryModel(it)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ItineraryModel{}).
		Where("id = ? AND version = ?", model.ID, it.Version()-1).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"selections": model.Selections,
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update itinerary: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("itinerary was modified by another transaction")
	}
	return nil
}

// --- Conversions ---

func toItineraryModel(it *itineraryDomain.Itinerary) (*ItineraryModel, error) {
	selectionsJSON, err := json.Marshal(it.Selections())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selections: %w", err)
	}
	return &ItineraryModel{
		ID:         it.ID(),
		OwnerID:    it.OwnerID(),
		Name:       it.Name(),
		Selections: selectionsJSON,
		Status:     string(it.Status()),
		Version:    it.Version(),
		CreatedAt:  it.CreatedAt(),
		UpdatedAt:  it.UpdatedAt(),
	}, nil
}

func toItineraryDomain(m *ItineraryModel) (*itineraryDomain.Itinerary, error) {
	var selections []selection.Selection
	if err := json.Unmarshal(m.Selections, &selections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selections: %w", err)
	}
	return itineraryDomain.Reconstruct(
		m.ID, m.OwnerID, m.Name,
		selections,
		itineraryDomain.Status(m.Status),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}
