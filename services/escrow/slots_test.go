package escrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookvault/models"
)

func TestCreateSlotValidation(t *testing.T) {
	eng, _, clock, _ := newTestEngine(t)
	start := clock.Now().Add(time.Hour)

	cases := []struct {
		name                          string
		start                         time.Time
		duration                      int
		price                         int64
		grace, minOverlap, cutoff     int
	}{
		{"zero price", start, 60, 0, 10, 30, 120},
		{"negative price", start, 60, -5, 10, 30, 120},
		{"start in past", clock.Now().Add(-time.Hour), 60, 100, 10, 30, 120},
		{"start inside buffer", clock.Now().Add(time.Minute), 60, 100, 10, 30, 120},
		{"zero duration", start, 0, 100, 10, 30, 120},
		{"duration over cap", start, 241, 100, 10, 30, 120},
		{"overlap beyond duration", start, 60, 100, 10, 61, 120},
		{"negative grace", start, 60, 100, -1, 30, 120},
		{"cutoff over seven days", start, 60, 100, 10, 30, 10081},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.CreateSlot(hostAddr, tc.start, tc.duration, tc.price, tc.grace, tc.minOverlap, tc.cutoff)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateSlotSnapshotsPrice(t *testing.T) {
	eng, _, clock, sink := newTestEngine(t)
	start := clock.Now().Add(time.Hour)

	id, err := eng.CreateSlot(hostAddr, start, 60, 100, 10, 30, 120)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	slot, err := eng.GetSlot(id)
	require.NoError(t, err)
	require.Equal(t, hostAddr, slot.Host)
	require.Equal(t, int64(100), slot.Price)
	require.Equal(t, models.SlotOpen, slot.Status)
	require.Equal(t, start.Add(time.Hour), slot.EndTime())

	ev, ok := sink.lastOfType(models.EventSlotCreated)
	require.True(t, ok)
	require.Equal(t, id, ev.Data["slotId"])
	require.Equal(t, int64(100), ev.Data["price"])
}

func TestCancelSlot(t *testing.T) {
	eng, _, clock, sink := newTestEngine(t)
	id := makeSlot(t, eng, clock)

	require.ErrorIs(t, eng.CancelSlot(strangerAddr, id), ErrAuthorization)
	require.ErrorIs(t, eng.CancelSlot(hostAddr, 999), ErrValidation)

	require.NoError(t, eng.CancelSlot(hostAddr, id))
	slot, err := eng.GetSlot(id)
	require.NoError(t, err)
	require.Equal(t, models.SlotCancelled, slot.Status)

	_, ok := sink.lastOfType(models.EventSlotCancelled)
	require.True(t, ok)

	// Terminal: a second cancel and a booking attempt both bounce.
	require.ErrorIs(t, eng.CancelSlot(hostAddr, id), ErrState)
	_, err = eng.Book(guestAddr, id)
	require.ErrorIs(t, err, ErrState)
}
