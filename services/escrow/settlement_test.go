package escrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookvault/models"
)

func TestHappyPathSettlement(t *testing.T) {
	eng, vault, clock, sink := newTestEngine(t)

	// Host publishes a slot at price 100; guest books it.
	slotID, bookingID := bookStandardSlot(t, eng, vault, clock)
	require.Equal(t, int64(100), eng.Ledger().TotalHeld)

	// Oracle attests Completed mid-session.
	clock.Advance(time.Hour + 45*time.Minute)
	require.NoError(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, "0xmetrics"))

	// Finalize is blocked until the challenge window passes.
	require.ErrorIs(t, eng.Finalize(bookingID), ErrTiming)
	clock.Advance(24 * time.Hour)
	require.NoError(t, eng.Finalize(bookingID))

	// 3% fee on 100: host 97, treasury 3.
	require.Equal(t, int64(97), eng.Owed(hostAddr))
	require.Equal(t, int64(3), eng.Owed(treasuryAddr))
	require.Equal(t, int64(0), eng.Owed(guestAddr))

	b, err := eng.GetBooking(bookingID)
	require.NoError(t, err)
	require.Equal(t, models.BookingFinalized, b.Status)
	slot, err := eng.GetSlot(slotID)
	require.NoError(t, err)
	require.Equal(t, models.SlotSettled, slot.Status)

	ev, ok := sink.lastOfType(models.EventFinalized)
	require.True(t, ok)
	require.Equal(t, int64(97), ev.Data["hostPaid"])
	require.Equal(t, int64(3), ev.Data["feePaid"])
	require.Equal(t, int64(0), ev.Data["guestRefund"])

	// Guest has nothing to withdraw.
	_, err = eng.Withdraw(guestAddr, "")
	require.ErrorIs(t, err, ErrNothingOwed)

	// Host withdrawal pays out and shrinks the tracked obligations.
	paid, err := eng.Withdraw(hostAddr, "")
	require.NoError(t, err)
	require.Equal(t, int64(97), paid)
	require.Equal(t, int64(97), vault.BalanceOf(hostAddr))
	require.Equal(t, int64(3), eng.Ledger().TotalHeld)
	requireLedgerInvariant(t, eng)

	// Finalize is not repeatable.
	require.ErrorIs(t, eng.Finalize(bookingID), ErrState)
}

func TestSettlementSplitsConserveAmount(t *testing.T) {
	outcomes := []models.SessionOutcome{
		models.OutcomeCompleted,
		models.OutcomeNoShowGuest,
		models.OutcomeNoShowHost,
	}
	for _, outcome := range outcomes {
		t.Run(string(outcome), func(t *testing.T) {
			eng, vault, clock, _ := newTestEngine(t)
			_, bookingID := bookStandardSlot(t, eng, vault, clock)

			// No-shows attest inside the grace window, completion mid-session.
			if outcome == models.OutcomeCompleted {
				clock.Advance(time.Hour + 45*time.Minute)
			} else {
				clock.Advance(time.Hour + 20*time.Minute)
			}
			require.NoError(t, eng.Attest(oracleAddr, bookingID, outcome, ""))
			clock.Advance(24 * time.Hour)
			require.NoError(t, eng.Finalize(bookingID))

			total := eng.Owed(hostAddr) + eng.Owed(guestAddr) + eng.Owed(treasuryAddr)
			require.Equal(t, int64(100), total)

			switch outcome {
			case models.OutcomeCompleted, models.OutcomeNoShowGuest:
				require.Equal(t, int64(97), eng.Owed(hostAddr))
				require.Equal(t, int64(3), eng.Owed(treasuryAddr))
			case models.OutcomeNoShowHost:
				require.Equal(t, int64(100), eng.Owed(guestAddr))
			}
		})
	}
}

func TestFeeTruncatesTowardZero(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	// Price 33 with feeBps 300: fee = 33*300/10000 = 0 after truncation,
	// so the host receives the full amount.
	slotID, err := eng.CreateSlot(hostAddr, clock.Now().Add(time.Hour), 60, 33, 10, 30, 120)
	require.NoError(t, err)
	fund(vault, guestAddr, 33)
	bookingID, err := eng.Book(guestAddr, slotID)
	require.NoError(t, err)

	clock.Advance(time.Hour + 45*time.Minute)
	require.NoError(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, ""))
	clock.Advance(24 * time.Hour)
	require.NoError(t, eng.Finalize(bookingID))

	require.Equal(t, int64(33), eng.Owed(hostAddr))
	require.Equal(t, int64(0), eng.Owed(treasuryAddr))
}

func TestTerminalBookingRejectsEverything(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)
	clock.Advance(time.Hour + 45*time.Minute)
	require.NoError(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, ""))
	clock.Advance(24 * time.Hour)
	require.NoError(t, eng.Finalize(bookingID))

	owedHost := eng.Owed(hostAddr)
	owedTreasury := eng.Owed(treasuryAddr)

	require.ErrorIs(t, eng.Finalize(bookingID), ErrState)
	require.ErrorIs(t, eng.Attest(oracleAddr, bookingID, models.OutcomeCompleted, ""), ErrState)
	fund(vault, guestAddr, 10)
	require.ErrorIs(t, eng.Challenge(guestAddr, bookingID), ErrState)
	require.ErrorIs(t, eng.CancelBookingAsGuest(guestAddr, bookingID), ErrState)
	require.ErrorIs(t, eng.CancelBookingAsHost(hostAddr, bookingID), ErrState)
	require.ErrorIs(t, eng.ClaimIfUnattested(guestAddr, bookingID), ErrState)

	// Nothing double-credited.
	require.Equal(t, owedHost, eng.Owed(hostAddr))
	require.Equal(t, owedTreasury, eng.Owed(treasuryAddr))
}

func TestFinalizeRequiresAttestation(t *testing.T) {
	eng, vault, clock, _ := newTestEngine(t)
	_, bookingID := bookStandardSlot(t, eng, vault, clock)

	require.ErrorIs(t, eng.Finalize(bookingID), ErrState)
	require.ErrorIs(t, eng.Finalize(999), ErrValidation)
}
