package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quickbite/pkg/schedule"
)

func TestAvailableSlots(t *testing.T) {
	slots := schedule.AvailableSlots()
	assert.Len(t, slots, 12)
	assert.Equal(t, "12:00 PM", slots[0])
	assert.Equal(t, "7:00 PM", slots[len(slots)-1])

	// Mutating the returned slice must not affect the canonical list.
	slots[0] = "tampered"
	assert.Equal(t, "12:00 PM", schedule.AvailableSlots()[0])
}

func TestIsValidSlot(t *testing.T) {
	for _, slot := range schedule.AvailableSlots() {
		assert.True(t, schedule.IsValidSlot(slot), "slot %q should be valid", slot)
	}

	assert.False(t, schedule.IsValidSlot("11:00 AM"))
	assert.False(t, schedule.IsValidSlot("12:00pm"))
	assert.False(t, schedule.IsValidSlot("4:00 PM"))
	assert.False(t, schedule.IsValidSlot(""))
}
