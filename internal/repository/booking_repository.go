package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber   string          `gorm:"uniqueIndex;not null;size:20"`
	OwnerID         string          `gorm:"index;not null;size:128"`
	OwnerName       string          `gorm:"size:200"`
	OwnerEmail      string          `gorm:"size:320"`
	ItineraryID     *uuid.UUID      `gorm:"type:uuid;index"`
	ItineraryName   string          `gorm:"size:120"`
	Selections      json.RawMessage `gorm:"type:jsonb;not null"`
	TotalPriceCents int64           `gorm:"not null"`
	Currency        string          `gorm:"not null;size:3;default:'USD'"`
	Status          string          `gorm:"not null;size:30;index"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`

	Comments []CommentModel `gorm:"foreignKey:BookingID"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// CommentModel is the GORM model for the booking_comments table.
type CommentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_comments_seq"`
	Seq        int       `gorm:"not null;uniqueIndex:idx_booking_comments_seq"`
	AuthorID   string    `gorm:"not null;size:128"`
	AuthorName string    `gorm:"size:200"`
	IsAgent    bool      `gorm:"not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "booking_comments"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) withComments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

// FindByID retrieves a booking and its comment thread.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.withComments(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.withComments(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByOwnerID retrieves every booking submitted by a user, newest first.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.withComments(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindByStatus retrieves every booking in the given status, newest first.
func (r *GormBookingRepository) FindByStatus(ctx context.Context, status bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.withComments(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by status: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves every booking, newest first (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.withComments(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// CountCreatedSince returns how many bookings were created at or after t.
func (r *GormBookingRepository) CountCreatedSince(ctx context.Context, t time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("created_at >= ?", t).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings created since %s: %w", t.Format(time.RFC3339), err)
	}
	return count, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists a status change with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// The aggregate bumps its version on every mutation, so the stored row
	// must still carry the previous one.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// AppendComment bumps the booking row under the version check and inserts the
// comment in one transaction.
func (r *GormBookingRepository) AppendComment(ctx context.Context, bk *bookingDomain.Booking, c bookingDomain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND version = ?", bk.ID(), bk.Version()-1).
			Updates(map[string]interface{}{
				"version":    bk.Version(),
				"updated_at": bk.UpdatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("booking was modified by another transaction")
		}

		model := toCommentModel(bk.ID(), c)
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}
		return nil
	})
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	selectionsJSON, err := json.Marshal(bk.Selections())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selections: %w", err)
	}

	owner := bk.Owner()
	comments := bk.Comments()
	commentModels := make([]CommentModel, len(comments))
	for i, c := range comments {
		commentModels[i] = toCommentModel(bk.ID(), c)
	}

	return &BookingModel{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		OwnerID:         owner.ID,
		OwnerName:       owner.Name,
		OwnerEmail:      owner.Email,
		ItineraryID:     bk.ItineraryID(),
		ItineraryName:   bk.ItineraryName(),
		Selections:      selectionsJSON,
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		Status:          string(bk.Status()),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
		Comments:        commentModels,
	}, nil
}

func toCommentModel(bookingID uuid.UUID, c bookingDomain.Comment) CommentModel {
	return CommentModel{
		ID:         c.ID(),
		BookingID:  bookingID,
		Seq:        c.Seq(),
		AuthorID:   c.AuthorID(),
		AuthorName: c.AuthorName(),
		IsAgent:    c.IsAgent(),
		Body:       c.Body(),
		CreatedAt:  c.CreatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var selections []selection.Selection
	if err := json.Unmarshal(m.Selections, &selections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selections: %w", err)
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	comments := make([]bookingDomain.Comment, len(m.Comments))
	for i, c := range m.Comments {
		comments[i] = bookingDomain.ReconstructComment(
			c.ID, c.Seq, c.AuthorID, c.AuthorName, c.IsAgent, c.Body, c.CreatedAt,
		)
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		bookingDomain.Owner{ID: m.OwnerID, Name: m.OwnerName, Email: m.OwnerEmail},
		m.ItineraryID,
		m.ItineraryName,
		selections,
		m.TotalPriceCents,
		m.Currency,
		status,
		comments,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
