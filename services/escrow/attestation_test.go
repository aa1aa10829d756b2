package escrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookvault/models"
	"bookvault/services/token"
)

// bookStandardSlot books the standard test slot (starts in 1h, 60 min long,
// grace 10, minOverlap 30) and returns its ids.
func bookStandardSlot(t *testing.T, eng *Engine, vault *token.MemVault, clock *fakeClock) (uint64, uint64) {
	t.Helper()
	slotID := makeSlot(t, eng, clock)
	fund(vault, guestAddr, 100)
	bookingID, err := eng.Book(guestAddr, slotID)
	require.NoError(t, err)
	return slotID, bookingID
}

func TestAttestCompletedWindow(t *testing.T) {
	eng, vault, clock, sink := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)
	start := clock.Now().Add(time.Hour)

	// Before start+minOverlap (start+30m) is too early.
	clock.Set(start.Add(29 * time.Minute))
	err := eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, "0xmetrics")
	require.ErrorIs(t, err, ErrTiming)

	// After end+2h (start+3h) is too late.
	saved := clock.Now()
	clock.Set(start.Add(3*time.Hour + time.Minute))
	err = eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, "0xmetrics")
	require.ErrorIs(t, err, ErrTiming)
	clock.Set(saved)

	// Inside the window it sticks.
	clock.Set(start.Add(45 * time.Minute))
	require.NoError(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, "0xmetrics"))

	b, err := eng.GetBooking(bookingID)
	require.NoError(t, err)
	require.Equal(t, models.BookingAttested, b.Status)
	require.Equal(t, models.OutcomeCompleted, b.OracleOutcome)
	require.Equal(t, "0xmetrics", b.MetricsHash)
	require.Equal(t, clock.Now(), b.AttestedAt)
	require.Equal(t, clock.Now().Add(24*time.Hour), b.FinalizableAt)

	ev, ok := sink.lastOfType(models.EventAttested)
	require.True(t, ok)
	require.Equal(t, models.OutcomeCompleted, ev.Data["outcome"])
	require.Equal(t, "0xmetrics", ev.Data["metricsHash"])

	// Attested is not Booked: a second attestation bounces.
	err = eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, "0xmetrics")
	require.ErrorIs(t, err, ErrState)
}

func TestAttestNoShowWindow(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)
	start := clock.Now().Add(time.Hour)

	// Before start+grace (start+10m) is too early.
	clock.Set(start.Add(9 * time.Minute))
	err := eng.Attest(oracleAddr, bookingID, models.OutcomeNoShowHost, "")
	require.ErrorIs(t, err, ErrTiming)

	// After start+grace+duration (start+70m) is too late.
	saved := clock.Now()
	clock.Set(start.Add(71 * time.Minute))
	err = eng.Attest(oracleAddr, bookingID, models.OutcomeNoShowGuest, "")
	require.ErrorIs(t, err, ErrTiming)
	clock.Set(saved)

	clock.Set(start.Add(30 * time.Minute))
	require.NoError(t, eng.Attest(oracleAddr, bookingID, models.OutcomeNoShowHost, ""))
}

func TestAttestAuthorizationAndOutcome(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)
	clock.Advance(time.Hour + 45*time.Minute)

	err := eng.Attest(guestAddr, bookingID, models.OutcomeCompleted, "")
	require.ErrorIs(t, err, ErrAuthorization)

	// Cancellation outcomes are not attestable.
	err = eng.Attest(oracleAddr, bookingID, models.OutcomeCancelledByHost, "")
	require.ErrorIs(t, err, ErrValidation)
	err = eng.Attest(oracleAddr, bookingID, models.OutcomeCancelledByGuest, "")
	require.ErrorIs(t, err, ErrValidation)

	err = eng.Attest(oracleAddr, 999, models.OutcomeCompleted, "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestClaimIfUnattestedRefundsGuest(t *testing.T) {
	eng, vault, clock, sink := newTestEngine(t)
	slotID, bookingID := bookStandardSlot(t, eng, vault, clock)
	end := clock.Now().Add(2 * time.Hour) // start+duration

	// Too early: buffer is 48h past the session end.
	clock.Set(end.Add(47 * time.Hour))
	require.ErrorIs(t, eng.ClaimIfUnattested(guestAddr, bookingID), ErrTiming)

	clock.Set(end.Add(48 * time.Hour))
	require.ErrorIs(t, eng.ClaimIfUnattested(strangerAddr, bookingID), ErrAuthorization)
	require.NoError(t, eng.ClaimIfUnattested(guestAddr, bookingID))

	require.Equal(t, int64(100), eng.Owed(guestAddr))
	b, err := eng.GetBooking(bookingID)
	require.NoError(t, err)
	require.Equal(t, models.BookingFinalized, b.Status)
	slot, err := eng.GetSlot(slotID)
	require.NoError(t, err)
	require.Equal(t, models.SlotCancelled, slot.Status)

	ev, ok := sink.lastOfType(models.EventFinalized)
	require.True(t, ok)
	require.Equal(t, int64(100), ev.Data["guestRefund"])
	require.Equal(t, int64(0), ev.Data["hostPaid"])

	// Second claim hits a state error, and the oracle is locked out too.
	require.ErrorIs(t, eng.ClaimIfUnattested(hostAddr, bookingID), ErrState)
	require.ErrorIs(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, ""), ErrState)
}

func TestClaimIfUnattestedHostMayAlsoClaim(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)
	clock.Advance(2*time.Hour + 48*time.Hour)

	require.NoError(t, eng.ClaimIfUnattested(hostAddr, bookingID))
	// Even when the host triggers it, the refund goes to the guest.
	require.Equal(t, int64(100), eng.Owed(guestAddr))
	require.Equal(t, int64(0), eng.Owed(hostAddr))
}

func TestClaimBlockedOnceAttested(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)
	clock.Advance(time.Hour + 45*time.Minute)
	require.NoError(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, ""))

	clock.Advance(100 * time.Hour)
	require.ErrorIs(t, eng.ClaimIfUnattested(guestAddr, bookingID), ErrState)
}
