package timerange

import (
	"fmt"

	"github.com/frahmantamala/workspace-booking/internal"
)

type SlotID string

const (
	SlotMorning   SlotID = "morning"
	SlotAfternoon SlotID = "afternoon"
	SlotEvening   SlotID = "evening"
	SlotFull      SlotID = "full"
	SlotCustom    SlotID = "custom"
)

type Slot struct {
	ID    SlotID `json:"id"`
	Label string `json:"label"`
	Range Range  `json:"range"`
}

var slots = []Slot{
	{ID: SlotMorning, Label: "Morning", Range: Range{From: 9 * 60, To: 13 * 60}},
	{ID: SlotAfternoon, Label: "Afternoon", Range: Range{From: 13 * 60, To: 17 * 60}},
	{ID: SlotEvening, Label: "Evening", Range: Range{From: 17 * 60, To: 21 * 60}},
	{ID: SlotFull, Label: "Full day", Range: Range{From: 9 * 60, To: 21 * 60}},
}

// Slots returns the named slot templates in display order.
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

func SlotByID(id SlotID) (Slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// ResolveSlot returns the template range for a named slot, or the validated
// from/to bounds when id is custom.
func ResolveSlot(id SlotID, from, to string) (Range, error) {
	if id == SlotCustom {
		return ParseRange(from, to)
	}
	s, ok := SlotByID(id)
	if !ok {
		return Range{}, internal.NewValidationFieldError("slot", fmt.Sprintf("unknown slot %q", id), internal.ErrCodeInvalidSlot)
	}
	return s.Range, nil
}
