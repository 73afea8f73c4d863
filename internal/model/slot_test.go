package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsCatalog(t *testing.T) {
	slots := Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, SlotAfternoon, slots[0].ID)
	assert.Equal(t, SlotEvening, slots[1].ID)
	assert.Equal(t, "14:00 - 18:00", slots[0].Range)
	assert.Equal(t, "18:00 - 22:00", slots[1].Range)
}

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("afternoon"))
	assert.True(t, ValidSlot("evening"))
	assert.False(t, ValidSlot("morning"))
	assert.False(t, ValidSlot("Afternoon"))
	assert.False(t, ValidSlot(""))
}

func TestAvailableSlotsPartition(t *testing.T) {
	cases := []struct {
		name   string
		booked []string
		want   []string
	}{
		{"none booked", nil, []string{"afternoon", "evening"}},
		{"afternoon booked", []string{"afternoon"}, []string{"evening"}},
		{"evening booked", []string{"evening"}, []string{"afternoon"}},
		{"all booked", []string{"afternoon", "evening"}, []string{}},
		{"duplicates ignored", []string{"evening", "evening"}, []string{"afternoon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AvailableSlots(tc.booked)
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tc.want, ids)

			// available and booked together always cover the catalog
			// and never overlap
			seen := map[string]bool{}
			for _, id := range ids {
				seen[id] = true
			}
			for _, id := range tc.booked {
				assert.False(t, seen[id], "slot %s both available and booked", id)
			}
			assert.Equal(t, 2, len(seen)+countDistinct(tc.booked))
		})
	}
}

func countDistinct(ids []string) int {
	set := map[string]struct{}{}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return len(set)
}
