package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	"github.com/tripdesk/service-booking/internal/platform/domain"
	"github.com/tripdesk/service-booking/internal/proto/events"
)

func TestAddComment_CustomerNotifiesAgents(t *testing.T) {
	repo, publisher, notifier := new(mockBookingRepo), new(mockPublisher), new(mockNotifier)
	bk := storedBooking(t, alice, bookingDomain.StatusQuestionsPending, "Paris Trip", time.Now().Add(-time.Hour))

	repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	repo.On("AppendComment", mock.Anything, bk, mock.AnythingOfType("booking.Comment")).Return(nil)
	publisher.On("PublishEvent", mock.Anything, events.TopicBookingEvents, eventOfType(events.BookingCommentAdded)).Return(nil)
	notifier.On("NotifyCustomerComment", mock.Anything, mock.Anything, mock.Anything).Return()

	svc := NewCommentService(repo, publisher, notifier, zap.NewNop())
	c, err := svc.AddComment(context.Background(), alice, bk.ID(), AddCommentRequest{Body: "  Aisle seat please  "})
	require.NoError(t, err)

	assert.Equal(t, "Aisle seat please", c.Body)
	assert.Equal(t, "Alice", c.AuthorName)
	assert.False(t, c.IsAgent)
	assert.Equal(t, 1, c.Seq)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAddComment_AgentReply(t *testing.T) {
	repo, publisher, notifier := new(mockBookingRepo), new(mockPublisher), new(mockNotifier)
	bk := storedBooking(t, alice, bookingDomain.StatusAgentReviewing, "Paris Trip", time.Now())

	repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)
	repo.On("AppendComment", mock.Anything, bk, mock.Anything).Return(nil)
	publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewCommentService(repo, publisher, notifier, zap.NewNop())
	c, err := svc.AddComment(context.Background(), agent, bk.ID(), AddCommentRequest{Body: "Which dates?"})
	require.NoError(t, err)

	assert.True(t, c.IsAgent)
	notifier.AssertNotCalled(t, "NotifyCustomerComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddComment_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		status   bookingDomain.BookingStatus
		actor    bookingDomain.Actor
		body     string
		wantCode domain.ErrorCode
	}{
		{"whitespace body", bookingDomain.StatusPendingReview, alice, "   ", domain.CodeValidation},
		{"cancelled thread", bookingDomain.StatusCancelled, alice, "hello?", domain.CodeCommentsClosed},
		{"stranger", bookingDomain.StatusPendingReview, bob, "hi", domain.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockBookingRepo)
			bk := storedBooking(t, alice, tt.status, "Paris Trip", time.Now())
			repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

			svc := NewCommentService(repo, new(mockPublisher), nil, zap.NewNop())
			_, err := svc.AddComment(context.Background(), tt.actor, bk.ID(), AddCommentRequest{Body: tt.body})

			assert.Equal(t, tt.wantCode, domain.CodeOf(err))
			assert.Equal(t, 0, bk.CommentCount())
			repo.AssertNotCalled(t, "AppendComment", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListComments_InOrder(t *testing.T) {
	repo := new(mockBookingRepo)
	bk := storedBooking(t, alice, bookingDomain.StatusPendingReview, "Paris Trip", time.Now())
	_, err := bk.AddComment(alice.ID, alice.Name, false, "first")
	require.NoError(t, err)
	_, err = bk.AddComment(agent.ID, agent.Name, true, "second")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, bk.ID()).Return(bk, nil)

	svc := NewCommentService(repo, nil, nil, zap.NewNop())
	comments, err := svc.ListComments(context.Background(), alice, bk.ID())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)

	again, err := svc.ListComments(context.Background(), alice, bk.ID())
	require.NoError(t, err)
	assert.Equal(t, comments, again)
}
