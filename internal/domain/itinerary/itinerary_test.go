package itinerary

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

func hotel(name string) selection.Selection {
	return selection.Selection{Type: selection.TypeHotel, Data: json.RawMessage(`{"name":"` + name + `"}`)}
}

func TestNewItinerary(t *testing.T) {
	it, err := NewItinerary("user-1", "  Paris Trip ", nil)
	require.NoError(t, err)

	assert.Equal(t, "Paris Trip", it.Name())
	assert.Empty(t, it.Selections())
	assert.True(t, it.IsActive())
	assert.Equal(t, int64(1), it.Version())
	assert.True(t, it.IsOwnedBy("user-1"))
}

func TestNewItinerary_Validation(t *testing.T) {
	_, err := NewItinerary("", "Trip", nil)
	assert.True(t, domain.IsValidation(err))

	_, err = NewItinerary("user-1", " ", nil)
	assert.True(t, domain.IsValidation(err))

	_, err = NewItinerary("user-1", strings.Repeat("n", MaxNameLength+1), nil)
	assert.True(t, domain.IsValidation(err))

	_, err = NewItinerary("user-1", "Trip", []selection.Selection{{Type: "train"}})
	assert.True(t, domain.IsValidation(err))
}

func TestAddAndRemoveSelection(t *testing.T) {
	it, err := NewItinerary("user-1", "Paris Trip", nil)
	require.NoError(t, err)

	require.NoError(t, it.AddSelection(hotel("A")))
	require.NoError(t, it.AddSelection(hotel("B")))
	require.NoError(t, it.AddSelection(hotel("C")))
	require.NoError(t, it.RemoveSelection(1))

	sels := it.Selections()
	require.Len(t, sels, 2)
	assert.Equal(t, "Hotel: A", sels[0].Summary())
	assert.Equal(t, "Hotel: C", sels[1].Summary())
	assert.Equal(t, int64(5), it.Version())

	err = it.RemoveSelection(5)
	assert.True(t, domain.IsValidation(err))
}

func TestArchivedIsReadOnly(t *testing.T) {
	it, err := NewItinerary("user-1", "Paris Trip", nil)
	require.NoError(t, err)
	it.Archive()

	assert.False(t, it.IsActive())
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(it.Rename("Rome")))
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(it.AddSelection(hotel("A"))))
}
