package booking

import (
	"fmt"
	"sort"
	"strings"
)

// StatusFilterAll is the status filter that matches every booking.
const StatusFilterAll = "all"

// StatusFilter is either StatusFilterAll or a single BookingStatus.
type StatusFilter string

// ParseStatusFilter accepts "", "all" or any valid status.
func ParseStatusFilter(s string) (StatusFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == StatusFilterAll {
		return StatusFilterAll, nil
	}
	if _, err := ParseBookingStatus(s); err != nil {
		return "", fmt.Errorf("invalid status filter: %s", s)
	}
	return StatusFilter(s), nil
}

// Criteria combines the list-view predicates.
type Criteria struct {
	Query  string
	Status StatusFilter
}

// Search keeps bookings whose itinerary name, owner name or owner email
// contains query, ignoring case. An empty query keeps everything.
func Search(bookings []*Booking, query string) []*Booking {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return bookings
	}
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if matchesQuery(b, q) {
			out = append(out, b)
		}
	}
	return out
}

// FilterByStatus keeps bookings in the given status. StatusFilterAll keeps everything.
func FilterByStatus(bookings []*Booking, status StatusFilter) []*Booking {
	if status == "" || status == StatusFilterAll {
		return bookings
	}
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if string(b.status) == string(status) {
			out = append(out, b)
		}
	}
	return out
}

// Filter applies both predicates and orders the result newest first.
// Bookings created at the same instant keep their input order.
func Filter(bookings []*Booking, c Criteria) []*Booking {
	matched := FilterByStatus(Search(bookings, c.Query), c.Status)
	out := append([]*Booking(nil), matched...)
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders bookings by creation time, descending, in place.
func SortNewestFirst(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].createdAt.After(bookings[j].createdAt)
	})
}

func matchesQuery(b *Booking, q string) bool {
	return strings.Contains(strings.ToLower(b.itineraryName), q) ||
		strings.Contains(strings.ToLower(b.owner.Name), q) ||
		strings.Contains(strings.ToLower(b.owner.Email), q)
}
