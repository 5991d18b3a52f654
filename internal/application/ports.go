package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/tripdesk/service-booking/internal/platform/kafka"
)

// EventPublisher writes CloudEvents to a topic. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// AgentNotifier alerts the agent desk. Delivery is best-effort.
type AgentNotifier interface {
	NotifyBookingSubmitted(ctx context.Context, bk BookingDTO)
	NotifyCustomerComment(ctx context.Context, bk BookingDTO, c CommentDTO)
}

// StatsCache stores the admin booking stats for a short time.
//
// GetBookingStats returns the cached stats (nil on a miss) and the current
// generation. Invalidation advances the generation, and SetBookingStats only
// stores stats computed under the generation that is still current.
type StatsCache interface {
	GetBookingStats(ctx context.Context) (*BookingStatsDTO, int64, error)
	SetBookingStats(ctx context.Context, stats *BookingStatsDTO, generation int64) error
	InvalidateBookingStats(ctx context.Context) error
}

// SummaryRenderer renders a printable booking summary.
type SummaryRenderer interface {
	RenderBookingSummary(bk BookingDTO, comments []CommentDTO) ([]byte, error)
}

type nopNotifier struct{}

func (nopNotifier) NotifyBookingSubmitted(context.Context, BookingDTO)             {}
func (nopNotifier) NotifyCustomerComment(context.Context, BookingDTO, CommentDTO) {}

// eventEmitter wraps payloads in CloudEvents. Failures are logged and never
// surface to the caller.
type eventEmitter struct {
	publisher EventPublisher
	logger    *zap.Logger
}

func (e eventEmitter) emit(ctx context.Context, topic, eventType string, data interface{}) {
	if e.publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		e.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := e.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		e.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

const eventSource = "service-booking"
