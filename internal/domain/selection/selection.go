// Package selection holds the flight, hotel and activity line items that
// itineraries collect and bookings snapshot.
package selection

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type tags the kind of line item.
type Type string

const (
	TypeFlight   Type = "flight"
	TypeHotel    Type = "hotel"
	TypeActivity Type = "activity"
)

// IsValid returns true if the type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeFlight, TypeHotel, TypeActivity:
		return true
	}
	return false
}

// Selection is one line item. Data is the provider payload and is not interpreted
// beyond what Summary needs.
type Selection struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// New validates and builds a Selection. A nil payload becomes an empty object.
func New(t Type, data json.RawMessage) (Selection, error) {
	if !t.IsValid() {
		return Selection{}, fmt.Errorf("invalid selection type: %q", t)
	}
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	if !json.Valid(data) {
		return Selection{}, fmt.Errorf("selection data for %s is not valid JSON", t)
	}
	return Selection{Type: t, Data: data}, nil
}

// Validate checks the type tag and payload.
func (s Selection) Validate() error {
	_, err := New(s.Type, s.Data)
	return err
}

// Summary renders a short display label for the line item.
func (s Selection) Summary() string {
	var fields map[string]interface{}
	_ = json.Unmarshal(s.Data, &fields)

	switch s.Type {
	case TypeFlight:
		from := firstString(fields, "departure", "origin", "from")
		to := firstString(fields, "arrival", "destination", "to")
		if from != "" || to != "" {
			return fmt.Sprintf("Flight %s → %s", orUnknown(from), orUnknown(to))
		}
	case TypeHotel:
		if name := firstString(fields, "name", "hotel_name"); name != "" {
			return "Hotel: " + name
		}
	case TypeActivity:
		if desc := firstString(fields, "description", "name", "title"); desc != "" {
			return "Activity: " + desc
		}
	}
	return strings.ToUpper(string(s.Type[:1])) + string(s.Type[1:])
}

// Validate checks every selection in the list.
func Validate(items []Selection) error {
	for i, s := range items {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("selection %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate an aggregate's payloads.
func Clone(items []Selection) []Selection {
	if items == nil {
		return nil
	}
	out := make([]Selection, len(items))
	for i, s := range items {
		out[i] = Selection{Type: s.Type, Data: append(json.RawMessage(nil), s.Data...)}
	}
	return out
}

func firstString(fields map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := fields[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
