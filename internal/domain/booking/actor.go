package booking

// Actor is the authenticated caller performing an operation. Admin is the
// capability resolved at the transport boundary by a role provider.
type Actor struct {
	ID    string
	Name  string
	Email string
	Admin bool
}

// IsAdmin reports whether the actor may drive booking status transitions.
func (a Actor) IsAdmin() bool { return a.Admin }

// Owner is the snapshot of the submitting user stored on a booking.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnerFromActor snapshots an actor's display fields.
func OwnerFromActor(a Actor) Owner {
	return Owner{ID: a.ID, Name: a.Name, Email: a.Email}
}

// ItineraryRef links a booking back to the itinerary it was submitted from.
type ItineraryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
