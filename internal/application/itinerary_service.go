package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	itineraryDomain "github.com/tripdesk/service-booking/internal/domain/itinerary"
	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

// CreateItineraryRequest is the request DTO for creating an itinerary.
type CreateItineraryRequest struct {
	Name       string                `json:"name" binding:"required"`
	Selections []selection.Selection `json:"selections"`
}

// UpdateItineraryRequest is the request DTO for renaming an itinerary.
type UpdateItineraryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ItineraryDTO is the API response representation of an itinerary.
type ItineraryDTO struct {
	ID         uuid.UUID      `json:"id"`
	OwnerID    string         `json:"owner_id"`
	Name       string         `json:"name"`
	Selections []SelectionDTO `json:"selections"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ItineraryService implements use cases for itinerary management.
type ItineraryService struct {
	repo   itineraryDomain.Repository
	logger *zap.Logger
}

// NewItineraryService creates a new ItineraryService.
func NewItineraryService(repo itineraryDomain.Repository, logger *zap.Logger) *ItineraryService {
	return &ItineraryService{repo: repo, logger: logger}
}

// CreateItinerary creates a new itinerary for the given owner.
func (s *ItineraryService) CreateItinerary(ctx context.Context, ownerID string, req CreateItineraryRequest) (*ItineraryDTO, error) {
	it, err := itineraryDomain.NewItinerary(ownerID, req.Name, req.Selections)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, it); err != nil {
		s.logger.Error("failed to create itinerary", zap.Error(err))
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	s.logger.Info("itinerary created",
		zap.String("itinerary_id", it.ID().String()),
		zap.String("owner_id", ownerID),
	)
	result := toItineraryDTO(it)
	return &result, nil
}

// GetMyItineraries returns all active itineraries for the given owner.
func (s *ItineraryService) GetMyItineraries(ctx context.Context, ownerID string) ([]ItineraryDTO, error) {
	items, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get itineraries: %w", err)
	}
	dtos := make([]ItineraryDTO, len(items))
	for i, it := range items {
		dtos[i] = toItineraryDTO(it)
	}
	return dtos, nil
}

// GetItinerary returns a single itinerary, verifying ownership.
func (s *ItineraryService) GetItinerary(ctx context.Context, ownerID string, id uuid.UUID) (*ItineraryDTO, error) {
	it, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	result := toItineraryDTO(it)
	return &result, nil
}

// RenameItinerary changes an itinerary's name, verifying ownership.
func (s *ItineraryService) RenameItinerary(ctx context.Context, ownerID string, id uuid.UUID, req UpdateItineraryRequest) (*ItineraryDTO, error) {
	return s.mutate(ctx, ownerID, id, "itinerary renamed", func(it *itineraryDomain.Itinerary) error {
		return it.Rename(req.Name)
	})
}

// AddSelection appends a line item to an itinerary.
func (s *ItineraryService) AddSelection(ctx context.Context, ownerID string, id uuid.UUID, sel selection.Selection) (*ItineraryDTO, error) {
	return s.mutate(ctx, ownerID, id, "selection added", func(it *itineraryDomain.Itinerary) error {
		return it.AddSelection(sel)
	})
}

// RemoveSelection drops the line item at index.
func (s *ItineraryService) RemoveSelection(ctx context.Context, ownerID string, id uuid.UUID, index int) (*ItineraryDTO, error) {
	return s.mutate(ctx, ownerID, id, "selection removed", func(it *itineraryDomain.Itinerary) error {
		return it.RemoveSelection(index)
	})
}

// DeleteItinerary archives an itinerary, verifying ownership. Bookings keep
// their own snapshot of its selections.
func (s *ItineraryService) DeleteItinerary(ctx context.Context, ownerID string, id uuid.UUID) error {
	_, err := s.mutate(ctx, ownerID, id, "itinerary archived", func(it *itineraryDomain.Itinerary) error {
		it.Archive()
		return nil
	})
	return err
}

func (s *ItineraryService) mutate(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
	logMsg string,
	apply func(*itineraryDomain.Itinerary) error,
) (*ItineraryDTO, error) {
	it, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(it); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, it); err != nil {
		s.logger.Error("failed to update itinerary", zap.Error(err))
		return nil, err
	}

	s.logger.Info(logMsg, zap.String("itinerary_id", id.String()))
	result := toItineraryDTO(it)
	return &result, nil
}

func (s *ItineraryService) loadOwned(ctx context.Context, ownerID string, id uuid.UUID) (*itineraryDomain.Itinerary, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("you do not own this itinerary")
	}
	return it, nil
}

func toItineraryDTO(it *itineraryDomain.Itinerary) ItineraryDTO {
	return ItineraryDTO{
		ID:         it.ID(),
		OwnerID:    it.OwnerID(),
		Name:       it.Name(),
		Selections: toSelectionDTOs(it.Selections()),
		Status:     string(it.Status()),
		CreatedAt:  it.CreatedAt(),
		UpdatedAt:  it.UpdatedAt(),
	}
}
