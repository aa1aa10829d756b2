package escrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookvault/models"
)

func TestCreateRequestEscrowsImmediately(t *testing.T) {
	eng, vault, clock, sink := newTestEngine(t)
	fund(vault, guestAddr, 50)
	now := clock.Now()

	id, err := eng.CreateRequest(guestAddr, "", now.Add(time.Hour), now.Add(5*time.Hour), 60, 50, now.Add(time.Hour))
	require.NoError(t, err)

	req, err := eng.GetRequest(id)
	require.NoError(t, err)
	require.Equal(t, models.RequestOpen, req.Status)
	require.Equal(t, int64(50), req.Amount)

	lv := eng.Ledger()
	require.Equal(t, int64(50), lv.TotalHeld)
	require.Equal(t, int64(50), lv.Custodied)
	require.Equal(t, int64(0), vault.BalanceOf(guestAddr))
	requireLedgerInvariant(t, eng)

	_, ok := sink.lastOfType(models.EventRequestCreated)
	require.True(t, ok)
}

func TestCreateRequestValidation(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	fund(vault, guestAddr, 1000)
	now := clock.Now()
	ws, we := now.Add(time.Hour), now.Add(5*time.Hour)

	_, err := eng.CreateRequest(guestAddr, "", ws, we, 60, 0, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrValidation)

	_, err = eng.CreateRequest(guestAddr, "", we, ws, 60, 50, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrValidation)

	_, err = eng.CreateRequest(guestAddr, "", ws, we, 60, 50, now.Add(-time.Minute))
	require.ErrorIs(t, err, ErrValidation)

	_, err = eng.CreateRequest(guestAddr, "", ws, we, 60, 50, we.Add(time.Minute))
	require.ErrorIs(t, err, ErrValidation)

	_, err = eng.CreateRequest(guestAddr, "", ws, we, 500, 50, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrValidation)

	// A targeted request must meet the host's published base price.
	require.NoError(t, eng.SetHostBasePrice(hostAddr, 80))
	_, err = eng.CreateRequest(guestAddr, hostAddr, ws, we, 60, 50, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrValidation)
	_, err = eng.CreateRequest(guestAddr, hostAddr, ws, we, 60, 80, now.Add(time.Hour))
	require.NoError(t, err)
}

func TestCreateRequestPullFailureLeavesNoTrace(t *testing.T) {
	eng, _, clock, _ := newTestEngine(t)
	now := clock.Now()

	// Guest has no funds and no allowance.
	_, err := eng.CreateRequest(guestAddr, "", now.Add(time.Hour), now.Add(5*time.Hour), 60, 50, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrFinancial)

	_, err = eng.GetRequest(1)
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, int64(0), eng.Ledger().TotalHeld)
}

func TestCancelRequest(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	fund(vault, guestAddr, 50)
	now := clock.Now()

	id, err := eng.CreateRequest(guestAddr, "", now.Add(time.Hour), now.Add(5*time.Hour), 60, 50, now.Add(time.Hour))
	require.NoError(t, err)

	require.ErrorIs(t, eng.CancelRequest(strangerAddr, id), ErrAuthorization)

	require.NoError(t, eng.CancelRequest(guestAddr, id))
	req, err := eng.GetRequest(id)
	require.NoError(t, err)
	require.Equal(t, models.RequestCancelled, req.Status)

	// Escrow moved to the owed bucket; totalHeld is untouched until withdrawal.
	require.Equal(t, int64(50), eng.Owed(guestAddr))
	require.Equal(t, int64(50), eng.Ledger().TotalHeld)

	require.ErrorIs(t, eng.CancelRequest(guestAddr, id), ErrState)
}

func TestAcceptRequestAtomically(t *testing.T) {
	eng, vault, clock, sink := newTestEngine(t)
	fund(vault, guestAddr, 50)
	now := clock.Now()

	// Scenario: window [T+1h, T+5h], amount 50, host has no base price.
	id, err := eng.CreateRequest(guestAddr, "", now.Add(time.Hour), now.Add(5*time.Hour), 60, 50, now.Add(time.Hour))
	require.NoError(t, err)
	heldBefore := eng.Ledger().TotalHeld

	slotID, bookingID, err := eng.AcceptRequest(hostAddr, id, now.Add(3*time.Hour), 10, 30, 120)
	require.NoError(t, err)

	slot, err := eng.GetSlot(slotID)
	require.NoError(t, err)
	require.Equal(t, hostAddr, slot.Host)
	require.Equal(t, int64(50), slot.Price)
	require.Equal(t, models.SlotBooked, slot.Status)
	require.Equal(t, bookingID, slot.BookingID)

	b, err := eng.GetBooking(bookingID)
	require.NoError(t, err)
	require.Equal(t, guestAddr, b.Guest)
	require.Equal(t, int64(50), b.Amount)
	require.Equal(t, models.BookingBooked, b.Status)

	req, err := eng.GetRequest(id)
	require.NoError(t, err)
	require.Equal(t, models.RequestAccepted, req.Status)
	require.Equal(t, slotID, req.SlotID)
	require.Equal(t, bookingID, req.BookingID)
	require.Equal(t, hostAddr, req.Host)

	// Funded from the existing escrow: no second pull.
	require.Equal(t, heldBefore, eng.Ledger().TotalHeld)
	require.Equal(t, int64(0), vault.BalanceOf(guestAddr))

	_, ok := sink.lastOfType(models.EventRequestAccepted)
	require.True(t, ok)
}

func TestAcceptRequestUsesHostBasePrice(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	fund(vault, guestAddr, 200)
	require.NoError(t, eng.SetHostBasePrice(hostAddr, 120))
	now := clock.Now()

	id, err := eng.CreateRequest(guestAddr, hostAddr, now.Add(time.Hour), now.Add(5*time.Hour), 60, 150, now.Add(time.Hour))
	require.NoError(t, err)

	slotID, bookingID, err := eng.AcceptRequest(hostAddr, id, now.Add(2*time.Hour), 10, 30, 120)
	require.NoError(t, err)

	slot, err := eng.GetSlot(slotID)
	require.NoError(t, err)
	require.Equal(t, int64(120), slot.Price)

	// The booking keeps the escrowed request amount, not the slot price.
	b, err := eng.GetBooking(bookingID)
	require.NoError(t, err)
	require.Equal(t, int64(150), b.Amount)
}

func TestAcceptRequestGuards(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	fund(vault, guestAddr, 100)
	now := clock.Now()

	id, err := eng.CreateRequest(guestAddr, hostAddr, now.Add(time.Hour), now.Add(5*time.Hour), 60, 50, now.Add(2*time.Hour))
	require.NoError(t, err)

	// Guest cannot accept their own request.
	_, _, err = eng.AcceptRequest(guestAddr, id, now.Add(2*time.Hour), 10, 30, 120)
	require.ErrorIs(t, err, ErrAuthorization)

	// Targeted request is reserved for its host.
	_, _, err = eng.AcceptRequest(strangerAddr, id, now.Add(2*time.Hour), 10, 30, 120)
	require.ErrorIs(t, err, ErrAuthorization)

	// Start time must sit inside the window.
	_, _, err = eng.AcceptRequest(hostAddr, id, now.Add(6*time.Hour), 10, 30, 120)
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = eng.AcceptRequest(hostAddr, id, now.Add(30*time.Minute), 10, 30, 120)
	require.ErrorIs(t, err, ErrValidation)

	// Expired requests cannot be accepted, but can still be cancelled.
	clock.Advance(2 * time.Hour)
	_, _, err = eng.AcceptRequest(hostAddr, id, clock.Now().Add(time.Hour), 10, 30, 120)
	require.ErrorIs(t, err, ErrTiming)
	require.NoError(t, eng.CancelRequest(guestAddr, id))
}
