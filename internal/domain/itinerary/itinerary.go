package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

// MaxNameLength bounds an itinerary name.
const MaxNameLength = 120

// Status represents the lifecycle state of an itinerary.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Itinerary is a user-curated collection of selections that can later be
// submitted as a booking.
type Itinerary struct {
	id         uuid.UUID
	ownerID    string
	name       string
	selections []selection.Selection
	status     Status
	version    int64
	createdAt  time.Time
	updatedAt  time.Time
}

// NewItinerary creates a new active itinerary.
func NewItinerary(ownerID, name string, selections []selection.Selection) (*Itinerary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.NewValidationError("owner ID is required")
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := selection.Validate(selections); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if selections == nil {
		selections = []selection.Selection{}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	return &Itinerary{
		id:         uuid.New(),
		ownerID:    ownerID,
		name:       name,
		selections: selection.Clone(selections),
		status:     StatusActive,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds an Itinerary from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	ownerID, name string,
	selections []selection.Selection,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Itinerary {
	return &Itinerary{
		id:         id,
		ownerID:    ownerID,
		name:       name,
		selections: selections,
		status:     status,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

func (i *Itinerary) ID() uuid.UUID                     { return i.id }
func (i *Itinerary) OwnerID() string                   { return i.ownerID }
func (i *Itinerary) Name() string                      { return i.name }
func (i *Itinerary) Selections() []selection.Selection { return selection.Clone(i.selections) }
func (i *Itinerary) Status() Status                    { return i.status }
func (i *Itinerary) Version() int64                    { return i.version }
func (i *Itinerary) CreatedAt() time.Time              { return i.createdAt }
func (i *Itinerary) UpdatedAt() time.Time              { return i.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the itinerary belongs to the given user.
func (i *Itinerary) IsOwnedBy(userID string) bool {
	return i.ownerID == userID
}

// IsActive returns true if the itinerary has not been archived.
func (i *Itinerary) IsActive() bool {
	return i.status == StatusActive
}

// Rename changes the display name.
func (i *Itinerary) Rename(name string) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	name, err := validateName(name)
	if err != nil {
		return err
	}
	i.name = name
	i.touch()
	return nil
}

// AddSelection appends a line item.
func (i *Itinerary) AddSelection(s selection.Selection) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return domain.NewValidationError(err.Error())
	}
	i.selections = append(i.selections, selection.Clone([]selection.Selection{s})...)
	i.touch()
	return nil
}

// RemoveSelection drops the line item at index.
func (i *Itinerary) RemoveSelection(index int) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if index < 0 || index >= len(i.selections) {
		return domain.NewValidationError(fmt.Sprintf("selection index %d out of range", index))
	}
	i.selections = append(i.selections[:index:index], i.selections[index+1:]...)
	i.touch()
	return nil
}

// Archive marks the itinerary as archived.
func (i *Itinerary) Archive() {
	i.status = StatusArchived
	i.touch()
}

func (i *Itinerary) ensureActive() error {
	if !i.IsActive() {
		return domain.NewInvalidStateError(string(i.status), "modified")
	}
	return nil
}

func (i *Itinerary) touch() {
	i.version++
	i.updatedAt = time.Now().UTC().Truncate(time.Microsecond)
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("itinerary name is required")
	}
	if len([]rune(name)) > MaxNameLength {
		return "", domain.NewValidationError(fmt.Sprintf("itinerary name exceeds %d characters", MaxNameLength))
	}
	return name, nil
}
