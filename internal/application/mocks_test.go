package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	entitlementDomain "github.com/tripdesk/service-booking/internal/domain/entitlement"
	itineraryDomain "github.com/tripdesk/service-booking/internal/domain/itinerary"
	"github.com/tripdesk/service-booking/internal/platform/kafka"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	bk, _ := args.Get(0).(*bookingDomain.Booking)
	return bk, args.Error(1)
}

func (m *mockBookingRepo) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, number)
	bk, _ := args.Get(0).(*bookingDomain.Booking)
	return bk, args.Error(1)
}

func (m *mockBookingRepo) FindByOwnerID(ctx context.Context, ownerID string) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]*bookingDomain.Booking)
	return list, args.Error(1)
}

func (m *mockBookingRepo) FindByStatus(ctx context.Context, status bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, status)
	list, _ := args.Get(0).([]*bookingDomain.Booking)
	return list, args.Error(1)
}

func (m *mockBookingRepo) ListAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*bookingDomain.Booking)
	return list, args.Error(1)
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

func (m *mockBookingRepo) CountCreatedSince(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

func (m *mockBookingRepo) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

func (m *mockBookingRepo) AppendComment(ctx context.Context, bk *bookingDomain.Booking, c bookingDomain.Comment) error {
	return m.Called(ctx, bk, c).Error(0)
}

type mockItineraryRepo struct{ mock.Mock }

func (m *mockItineraryRepo) FindByID(ctx context.Context, id uuid.UUID) (*itineraryDomain.Itinerary, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*itineraryDomain.Itinerary)
	return it, args.Error(1)
}

func (m *mockItineraryRepo) FindByOwnerID(ctx context.Context, ownerID string) ([]*itineraryDomain.Itinerary, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]*itineraryDomain.Itinerary)
	return list, args.Error(1)
}

func (m *mockItineraryRepo) Save(ctx context.Context, it *itineraryDomain.Itinerary) error {
	return m.Called(ctx, it).Error(0)
}

func (m *mockItineraryRepo) Update(ctx context.Context, it *itineraryDomain.Itinerary) error {
	return m.Called(ctx, it).Error(0)
}

type mockEntitlementRepo struct{ mock.Mock }

func (m *mockEntitlementRepo) FindByUserID(ctx context.Context, userID string) (*entitlementDomain.Entitlement, error) {
	args := m.Called(ctx, userID)
	e, _ := args.Get(0).(*entitlementDomain.Entitlement)
	return e, args.Error(1)
}

func (m *mockEntitlementRepo) Upsert(ctx context.Context, e *entitlementDomain.Entitlement) error {
	return m.Called(ctx, e).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyBookingSubmitted(ctx context.Context, bk BookingDTO) {
	m.Called(ctx, bk)
}

func (m *mockNotifier) NotifyCustomerComment(ctx context.Context, bk BookingDTO, c CommentDTO) {
	m.Called(ctx, bk, c)
}

type memoryStatsCache struct {
	stats       *BookingStatsDTO
	generation  int64
	invalidated int
}

func (c *memoryStatsCache) GetBookingStats(context.Context) (*BookingStatsDTO, int64, error) {
	return c.stats, c.generation, nil
}

func (c *memoryStatsCache) SetBookingStats(_ context.Context, stats *BookingStatsDTO, generation int64) error {
	if generation == c.generation {
		c.stats = stats
	}
	return nil
}

func (c *memoryStatsCache) InvalidateBookingStats(context.Context) error {
	c.stats = nil
	c.generation++
	c.invalidated++
	return nil
}

// eventOfType matches a CloudEvent by its type.
func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.CloudEvent) bool { return e.Type == eventType })
}
