// Package model holds pure domain logic that is independent of the
// database and HTTP layers: the time-slot catalog, the booking status
// machine and order pricing arithmetic.
package model

// Slot is one bookable window of a calendar day.  The catalog is fixed:
// every yurt can be booked for the afternoon or the evening, nothing
// else.  ID is the stable identifier used on the wire and in the
// bookings table; Label and Range are display strings.
type Slot struct {
	ID    string `json:"id"`
	Label string `json:"name"`
	Range string `json:"time"`
}

// Slot identifiers.  The set is closed; no other value is ever valid.
const (
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// Slots returns the full catalog in display order (afternoon first).
// It allocates a fresh slice so callers may reorder or filter freely.
func Slots() []Slot {
	return []Slot{
		{ID: SlotAfternoon, Label: "Afternoon", Range: "14:00 - 18:00"},
		{ID: SlotEvening, Label: "Evening", Range: "18:00 - 22:00"},
	}
}

// ValidSlot reports whether id names a slot from the catalog.
func ValidSlot(id string) bool {
	return id == SlotAfternoon || id == SlotEvening
}

// AvailableSlots returns the catalog entries whose IDs do not appear in
// booked.  Together with booked the result always covers the whole
// catalog, and the two sets never overlap.
func AvailableSlots(booked []string) []Slot {
	taken := make(map[string]struct{}, len(booked))
	for _, id := range booked {
		taken[id] = struct{}{}
	}
	free := make([]Slot, 0, 2)
	for _, s := range Slots() {
		if _, ok := taken[s.ID]; !ok {
			free = append(free, s)
		}
	}
	return free
}
