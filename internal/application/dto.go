package application

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	"github.com/tripdesk/service-booking/internal/domain/selection"
)

// SelectionDTO is a line item with its display label.
type SelectionDTO struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Summary string          `json:"summary"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID           `json:"id"`
	BookingNumber   string              `json:"booking_number"`
	Owner           bookingDomain.Owner `json:"owner"`
	ItineraryID     *uuid.UUID          `json:"itinerary_id,omitempty"`
	ItineraryName   string              `json:"itinerary_name,omitempty"`
	Selections      []SelectionDTO      `json:"selections"`
	TotalPriceCents int64               `json:"total_price_cents"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	NextStatuses    []string            `json:"next_statuses,omitempty"`
	CanComment      bool                `json:"can_comment"`
	CommentCount    int                 `json:"comment_count"`
	Version         int64               `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CommentDTO is the response representation of a thread message.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Seq        int       `json:"seq"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	IsAgent    bool      `json:"is_agent"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func toSelectionDTOs(items []selection.Selection) []SelectionDTO {
	dtos := make([]SelectionDTO, len(items))
	for i, s := range items {
		dtos[i] = SelectionDTO{Type: string(s.Type), Data: s.Data, Summary: s.Summary()}
	}
	return dtos
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		Owner:           bk.Owner(),
		ItineraryID:     bk.ItineraryID(),
		ItineraryName:   bk.ItineraryName(),
		Selections:      toSelectionDTOs(bk.Selections()),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		Status:          string(bk.Status()),
		CanComment:      bk.CanComment(),
		CommentCount:    bk.CommentCount(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func toCommentDTO(c bookingDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Seq:        c.Seq(),
		AuthorID:   c.AuthorID(),
		AuthorName: c.AuthorName(),
		IsAgent:    c.IsAgent(),
		Body:       c.Body(),
		CreatedAt:  c.CreatedAt(),
	}
}

func toCommentDTOs(comments []bookingDomain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return dtos
}
