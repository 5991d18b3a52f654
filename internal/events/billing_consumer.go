package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tripdesk/service-booking/internal/platform/domain"
	"github.com/tripdesk/service-booking/internal/platform/kafka"
	"github.com/tripdesk/service-booking/internal/proto/events"
)

// SubscriptionApplier stores subscription state reported by billing.
type SubscriptionApplier interface {
	ApplySubscriptionUpdate(ctx context.Context, evt events.SubscriptionUpdatedEvent) error
}

// BillingEventConsumer listens to billing events and keeps entitlements current.
type BillingEventConsumer struct {
	consumer *kafka.Consumer
	service  SubscriptionApplier
	logger   *zap.Logger
}

// NewBillingEventConsumer creates a new BillingEventConsumer.
func NewBillingEventConsumer(
	brokers []string,
	groupID string,
	service SubscriptionApplier,
	logger *zap.Logger,
) *BillingEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicBillingEvents, logger)
	return &BillingEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming billing events. This blocks until the context is cancelled.
func (c *BillingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *BillingEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *BillingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from billing topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are never retried
	}

	switch cloudEvent.Type {
	case events.BillingSubscriptionUpdated:
		return c.handleSubscriptionUpdated(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled billing event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *BillingEventConsumer) handleSubscriptionUpdated(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.SubscriptionUpdatedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse SubscriptionUpdatedEvent data", zap.Error(err))
		return nil
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = cloudEvent.Time
	}

	c.logger.Info("processing subscription update",
		zap.String("user_id", evt.UserID),
		zap.String("status", evt.Status),
	)

	if err := c.service.ApplySubscriptionUpdate(ctx, evt); err != nil {
		if domain.IsValidation(err) {
			c.logger.Error("dropping invalid subscription update",
				zap.String("user_id", evt.UserID),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to apply subscription update",
			zap.String("user_id", evt.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
