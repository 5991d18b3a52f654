package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

func fixture(itinerary, name, email string, status BookingStatus, created time.Time) *Booking {
	sels := []selection.Selection{{Type: selection.TypeActivity, Data: json.RawMessage(`{}`)}}
	return ReconstructBooking(uuid.New(), "BK-TEST00", Owner{ID: name, Name: name, Email: email}, nil, itinerary,
		sels, 100, domain.CurrencyUSD, status, nil, 1, created, created)
}

func TestSearch_MatchesItineraryCaseInsensitive(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	paris := fixture("Paris Trip", "Alice", "a@x.com", StatusPendingReview, base)
	tokyo := fixture("Tokyo Trip", "Bob", "b@x.com", StatusPendingReview, base.Add(time.Hour))

	got := Search([]*Booking{paris, tokyo}, "tokyo")

	require.Len(t, got, 1)
	assert.Same(t, tokyo, got[0])
}

func TestSearch_MatchesOwnerNameAndEmail(t *testing.T) {
	base := time.Now()
	paris := fixture("Paris Trip", "Alice", "a@x.com", StatusPendingReview, base)
	tokyo := fixture("Tokyo Trip", "Bob", "b@x.com", StatusPendingReview, base)
	all := []*Booking{paris, tokyo}

	assert.Equal(t, []*Booking{paris}, Search(all, "ALICE"))
	assert.Equal(t, []*Booking{tokyo}, Search(all, "b@x"))
	assert.Empty(t, Search(all, "lisbon"))
}

func TestSearch_EmptyQueryIsIdentity(t *testing.T) {
	base := time.Now()
	all := []*Booking{
		fixture("A", "a", "a@x.com", StatusConfirmed, base),
		fixture("B", "b", "b@x.com", StatusCancelled, base.Add(-time.Hour)),
	}
	assert.Equal(t, all, Search(all, ""))
	assert.Equal(t, all, Search(all, "   "))
}

func TestFilterByStatus(t *testing.T) {
	base := time.Now()
	confirmed := fixture("A", "a", "a@x.com", StatusConfirmed, base)
	cancelled := fixture("B", "b", "b@x.com", StatusCancelled, base)
	all := []*Booking{confirmed, cancelled}

	assert.Equal(t, all, FilterByStatus(all, StatusFilterAll))
	assert.Equal(t, []*Booking{cancelled}, FilterByStatus(all, StatusFilter(StatusCancelled)))
	assert.Empty(t, FilterByStatus(all, StatusFilter(StatusCompleted)))
}

func TestFilter_AndsPredicatesAndSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := fixture("Paris Spring", "Alice", "a@x.com", StatusConfirmed, base)
	newer := fixture("Paris Autumn", "Alice", "a@x.com", StatusConfirmed, base.Add(48*time.Hour))
	otherStatus := fixture("Paris Winter", "Alice", "a@x.com", StatusCancelled, base.Add(time.Hour))
	otherCity := fixture("Rome", "Carol", "c@x.com", StatusConfirmed, base.Add(72*time.Hour))

	got := Filter([]*Booking{older, otherStatus, newer, otherCity}, Criteria{
		Query:  "paris",
		Status: StatusFilter(StatusConfirmed),
	})

	assert.Equal(t, []*Booking{newer, older}, got)
}

func TestFilter_DoesNotReorderInput(t *testing.T) {
	base := time.Now()
	a := fixture("A", "a", "a@x.com", StatusConfirmed, base)
	b := fixture("B", "b", "b@x.com", StatusConfirmed, base.Add(time.Hour))
	in := []*Booking{a, b}

	_ = Filter(in, Criteria{Status: StatusFilterAll})

	assert.Same(t, a, in[0])
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter(StatusFilterAll), f)

	f, err = ParseStatusFilter("questions_pending")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter(StatusQuestionsPending), f)

	_, err = ParseStatusFilter("unknown")
	assert.Error(t, err)
}
