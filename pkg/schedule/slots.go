// Package schedule owns the fixed pickup slot list. Slots are time-of-day
// labels reused every calendar day; there is no date or timezone reasoning.
package schedule

// pickupSlots is the process-wide allowed set, in display order.
var pickupSlots = []string{
	"12:00 PM",
	"12:30 PM",
	"1:00 PM",
	"1:30 PM",
	"2:00 PM",
	"2:30 PM",
	"3:00 PM",
	"5:00 PM",
	"5:30 PM",
	"6:00 PM",
	"6:30 PM",
	"7:00 PM",
}

// AvailableSlots returns the fixed ordered slot list. The result is a copy so
// callers cannot mutate the process-wide set.
func AvailableSlots() []string {
	out := make([]string, len(pickupSlots))
	copy(out, pickupSlots)
	return out
}

// IsValidSlot reports whether label exactly matches an allowed slot.
func IsValidSlot(label string) bool {
	for _, s := range pickupSlots {
		if s == label {
			return true
		}
	}
	return false
}
