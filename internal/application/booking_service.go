package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"

	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	entitlementDomain "github.com/tripdesk/service-booking/internal/domain/entitlement"
	itineraryDomain "github.com/tripdesk/service-booking/internal/domain/itinerary"
	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
	"github.com/tripdesk/service-booking/internal/proto/events"
)

// CreateBookingRequest holds the data needed to submit a booking. When
// ItineraryID is set and Selections is empty, the itinerary's selections are used.
type CreateBookingRequest struct {
	ItineraryID     string                `json:"itinerary_id"`
	Selections      []selection.Selection `json:"selections"`
	TotalPriceCents int64                 `json:"total_price_cents"`
}

// ListBookingsQuery carries the list view's search box, status tab and paging.
type ListBookingsQuery struct {
	Query  string `form:"q"`
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings    int64            `json:"total_bookings"`
	ByStatus         map[string]int64 `json:"by_status"`
	CreatedThisWeek  int64            `json:"created_this_week"`
	CreatedThisMonth int64            `json:"created_this_month"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// BookingOption configures optional BookingService collaborators.
type BookingOption func(*BookingService)

// WithTransitionPolicy sets the status transition table.
func WithTransitionPolicy(p bookingDomain.TransitionPolicy) BookingOption {
	return func(s *BookingService) { s.policy = p }
}

// WithSubscriptionGate requires an active or trialing subscription to submit.
func WithSubscriptionGate(required bool) BookingOption {
	return func(s *BookingService) { s.requireSubscription = required }
}

// WithAgentNotifier sets the agent desk notifier.
func WithAgentNotifier(n AgentNotifier) BookingOption {
	return func(s *BookingService) { s.notifier = n }
}

// WithStatsCache sets the admin stats cache.
func WithStatsCache(c StatsCache) BookingOption {
	return func(s *BookingService) { s.stats = c }
}

// WithSummaryRenderer sets the summary document renderer.
func WithSummaryRenderer(r SummaryRenderer) BookingOption {
	return func(s *BookingService) { s.renderer = r }
}

// WithClock overrides the time source used for stats windows.
func WithClock(clock func() time.Time) BookingOption {
	return func(s *BookingService) { s.clock = clock }
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo         bookingDomain.BookingRepository
	itineraries  itineraryDomain.Repository
	entitlements entitlementDomain.Repository
	events       eventEmitter
	notifier     AgentNotifier
	stats        StatsCache
	renderer     SummaryRenderer
	policy       bookingDomain.TransitionPolicy
	clock        func() time.Time
	logger       *zap.Logger

	requireSubscription bool
}

// NewBookingService creates a new BookingService. The transition policy
// defaults to permissive.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	itineraries itineraryDomain.Repository,
	entitlements entitlementDomain.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
	opts ...BookingOption,
) *BookingService {
	s := &BookingService{
		repo:         repo,
		itineraries:  itineraries,
		entitlements: entitlements,
		events:       eventEmitter{publisher: publisher, logger: logger},
		notifier:     nopNotifier{},
		policy:       bookingDomain.PermissiveTransitions(),
		clock:        time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TransitionPolicy returns the configured status transition table.
func (s *BookingService) TransitionPolicy() bookingDomain.TransitionPolicy {
	return s.policy
}

// CreateBooking submits a new booking for the actor.
func (s *BookingService) CreateBooking(ctx context.Context, actor bookingDomain.Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if err := s.checkEntitlement(ctx, actor.ID); err != nil {
		return nil, err
	}

	selections := req.Selections
	var ref *bookingDomain.ItineraryRef
	if req.ItineraryID != "" {
		it, err := s.loadOwnedItinerary(ctx, actor.ID, req.ItineraryID)
		if err != nil {
			return nil, err
		}
		if len(selections) == 0 {
			selections = it.Selections()
		}
		ref = &bookingDomain.ItineraryRef{ID: it.ID().String(), Name: it.Name()}
	}

	bk, err := bookingDomain.NewBooking(bookingDomain.OwnerFromActor(actor), ref, selections, req.TotalPriceCents)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		s.logger.Error("failed to save booking", zap.Error(err))
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking submitted",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("owner_id", actor.ID),
	)

	s.events.emit(ctx, events.TopicBookingEvents, events.BookingSubmitted, events.BookingSubmittedEvent{
		BookingID:       bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		OwnerID:         bk.OwnerID(),
		ItineraryID:     bk.ItineraryID(),
		ItineraryName:   bk.ItineraryName(),
		SelectionCount:  len(selections),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		OccurredAt:      bk.CreatedAt(),
	})
	s.invalidateStats(ctx)

	result := toBookingDTO(bk)
	s.notifier.NotifyBookingSubmitted(ctx, result)
	return &result, nil
}

// GetBooking retrieves a single booking visible to the actor.
func (s *BookingService) GetBooking(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := loadVisibleBooking(ctx, s.repo, actor, bookingID)
	if err != nil {
		return nil, err
	}
	result := s.bookingView(bk, actor)
	return &result, nil
}

// GetBookingByNumber retrieves a booking by its human-readable number.
func (s *BookingService) GetBookingByNumber(ctx context.Context, actor bookingDomain.Actor, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeViewedBy(actor) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := s.bookingView(bk, actor)
	return &result, nil
}

// ListMyBookings returns the actor's own bookings, searched, filtered and paged.
func (s *BookingService) ListMyBookings(ctx context.Context, actor bookingDomain.Actor, q ListBookingsQuery) (*domain.PaginatedResult[BookingDTO], error) {
	criteria, err := toCriteria(q)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByOwnerID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return paginateBookings(bookingDomain.Filter(bookings, criteria), q), nil
}

// ListAllBookings returns every booking, searched, filtered and paged (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, actor bookingDomain.Actor, q ListBookingsQuery) (*domain.PaginatedResult[BookingDTO], error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("only agents can list all bookings")
	}
	criteria, err := toCriteria(q)
	if err != nil {
		return nil, err
	}

	var bookings []*bookingDomain.Booking
	if criteria.Status == bookingDomain.StatusFilterAll {
		bookings, err = s.repo.ListAll(ctx)
	} else {
		bookings, err = s.repo.FindByStatus(ctx, bookingDomain.BookingStatus(criteria.Status))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := paginateBookings(bookingDomain.Filter(bookings, criteria), q)
	for i := range result.Items {
		result.Items[i].NextStatuses = s.nextStatuses(bookingDomain.BookingStatus(result.Items[i].Status))
	}
	return result, nil
}

// SetStatus moves a booking to a new status (admin).
func (s *BookingService) SetStatus(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID, status string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if err := bk.SetStatus(bookingDomain.BookingStatus(status), actor, s.policy); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(bk.Status())),
		zap.String("changed_by", actor.ID),
	)

	s.events.emit(ctx, events.TopicBookingEvents, events.BookingStatusChanged, events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		OwnerID:       bk.OwnerID(),
		FromStatus:    string(from),
		ToStatus:      string(bk.Status()),
		ChangedBy:     actor.ID,
		OccurredAt:    bk.UpdatedAt(),
	})
	s.invalidateStats(ctx)

	result := s.bookingView(bk, actor)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context, actor bookingDomain.Actor) (*BookingStatsDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("only agents can view booking stats")
	}

	cacheable := false
	var generation int64
	if s.stats != nil {
		cached, gen, err := s.stats.GetBookingStats(ctx)
		if err != nil {
			s.logger.Warn("failed to read booking stats cache", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		} else {
			cacheable, generation = true, gen
		}
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	byStatus := make(map[string]int64, len(bookingDomain.AllStatuses))
	var total int64
	for _, st := range bookingDomain.AllStatuses {
		byStatus[string(st)] = counts[string(st)]
		total += counts[string(st)]
	}

	current := s.clock().UTC()
	cal := &now.Config{WeekStartDay: time.Monday}
	thisWeek, err := s.repo.CountCreatedSince(ctx, cal.With(current).BeginningOfWeek())
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}
	thisMonth, err := s.repo.CountCreatedSince(ctx, cal.With(current).BeginningOfMonth())
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	stats := &BookingStatsDTO{
		TotalBookings:    total,
		ByStatus:         byStatus,
		CreatedThisWeek:  thisWeek,
		CreatedThisMonth: thisMonth,
		GeneratedAt:      current,
	}

	if cacheable {
		if err := s.stats.SetBookingStats(ctx, stats, generation); err != nil {
			s.logger.Warn("failed to write booking stats cache", zap.Error(err))
		}
	}
	return stats, nil
}

// RenderSummary renders the booking summary PDF and returns it with a file name.
func (s *BookingService) RenderSummary(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", fmt.Errorf("summary renderer is not configured")
	}
	bk, err := loadVisibleBooking(ctx, s.repo, actor, bookingID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := s.renderer.RenderBookingSummary(toBookingDTO(bk), toCommentDTOs(bk.Comments()))
	if err != nil {
		s.logger.Error("failed to render booking summary",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		return nil, "", fmt.Errorf("failed to render booking summary: %w", err)
	}
	return pdf, bk.BookingNumber() + ".pdf", nil
}

// --- Helpers ---

func (s *BookingService) checkEntitlement(ctx context.Context, userID string) error {
	if !s.requireSubscription {
		return nil
	}
	ent, err := s.entitlements.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check subscription: %w", err)
	}
	if ent == nil {
		ent = entitlementDomain.None(userID)
	}
	if !ent.CanBook() {
		return domain.NewPaymentRequiredError("an active subscription is required to submit bookings")
	}
	return nil
}

func (s *BookingService) loadOwnedItinerary(ctx context.Context, ownerID, rawID string) (*itineraryDomain.Itinerary, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid itinerary ID: %s", rawID))
	}
	it, err := s.itineraries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("itinerary does not belong to this user")
	}
	if !it.IsActive() {
		return nil, domain.NewValidationError("archived itineraries cannot be booked")
	}
	return it, nil
}

// bookingView converts a booking for the actor. Admins also get the statuses
// the active policy lets them move it to.
func (s *BookingService) bookingView(bk *bookingDomain.Booking, actor bookingDomain.Actor) BookingDTO {
	result := toBookingDTO(bk)
	if actor.IsAdmin() {
		result.NextStatuses = s.nextStatuses(bk.Status())
	}
	return result
}

func (s *BookingService) nextStatuses(from bookingDomain.BookingStatus) []string {
	next := s.policy.NextStatuses(from)
	out := make([]string, 0, len(next))
	for _, st := range next {
		if st != from {
			out = append(out, string(st))
		}
	}
	return out
}

func (s *BookingService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.InvalidateBookingStats(ctx); err != nil {
		s.logger.Warn("failed to invalidate booking stats cache", zap.Error(err))
	}
}

func loadVisibleBooking(ctx context.Context, repo bookingDomain.BookingRepository, actor bookingDomain.Actor, id uuid.UUID) (*bookingDomain.Booking, error) {
	bk, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeViewedBy(actor) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	return bk, nil
}

func toCriteria(q ListBookingsQuery) (bookingDomain.Criteria, error) {
	status, err := bookingDomain.ParseStatusFilter(q.Status)
	if err != nil {
		return bookingDomain.Criteria{}, domain.NewValidationError(err.Error())
	}
	return bookingDomain.Criteria{Query: q.Query, Status: status}, nil
}

func paginateBookings(bookings []*bookingDomain.Booking, q ListBookingsQuery) *domain.PaginatedResult[BookingDTO] {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	result := domain.Paginate(toBookingDTOs(bookings), page, limit)
	return &result
}
