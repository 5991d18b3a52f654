package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	"github.com/tripdesk/service-booking/internal/proto/events"
)

// AddCommentRequest holds the body of a new thread message.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// CommentService handles booking thread use cases.
type CommentService struct {
	repo     bookingDomain.BookingRepository
	events   eventEmitter
	notifier AgentNotifier
	logger   *zap.Logger
}

// NewCommentService creates a new CommentService. notifier may be nil.
func NewCommentService(
	repo bookingDomain.BookingRepository,
	publisher EventPublisher,
	notifier AgentNotifier,
	logger *zap.Logger,
) *CommentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CommentService{
		repo:     repo,
		events:   eventEmitter{publisher: publisher, logger: logger},
		notifier: notifier,
		logger:   logger,
	}
}

// AddComment appends a message to a booking's thread. The owner writes as a
// customer and an admin writes as an agent.
func (s *CommentService) AddComment(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID, req AddCommentRequest) (*CommentDTO, error) {
	bk, err := loadVisibleBooking(ctx, s.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}

	isAgent := actor.IsAdmin()
	comment, err := bk.AddComment(actor.ID, displayName(actor), isAgent, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AppendComment(ctx, bk, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		zap.String("booking_id", bookingID.String()),
		zap.String("comment_id", comment.ID().String()),
		zap.Bool("is_agent", isAgent),
	)

	s.events.emit(ctx, events.TopicBookingEvents, events.BookingCommentAdded, events.BookingCommentAddedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		OwnerID:       bk.OwnerID(),
		CommentID:     comment.ID(),
		AuthorID:      comment.AuthorID(),
		IsAgent:       isAgent,
		OccurredAt:    comment.CreatedAt(),
	})

	result := toCommentDTO(comment)
	if !isAgent {
		s.notifier.NotifyCustomerComment(ctx, toBookingDTO(bk), result)
	}
	return &result, nil
}

// ListComments returns a booking's thread in creation order.
func (s *CommentService) ListComments(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID) ([]CommentDTO, error) {
	bk, err := loadVisibleBooking(ctx, s.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}
	return toCommentDTOs(bk.Comments()), nil
}

func displayName(a bookingDomain.Actor) string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
