package escrow

import (
	"go.uber.org/zap"
)

// Withdraw pays the caller's entire owed balance out to the given address.
// The balance is zeroed and totalHeld decremented before the external
// transfer is made; a failed transfer rolls both back.
func (e *Engine) Withdraw(caller, to string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	amount := e.owed[caller]
	if amount == 0 {
		return 0, ErrNothingOwed
	}
	if to == "" {
		to = caller
	}

	delete(e.owed, caller)
	e.totalHeld -= amount

	if err := e.vault.Transfer(to, amount); err != nil {
		e.owed[caller] = amount
		e.totalHeld += amount
		return 0, financialErrf("payout of %d to %s failed: %v", amount, to, err)
	}

	e.logger.Info("balance withdrawn",
		zap.String("caller", caller),
		zap.String("to", to),
		zap.Int64("amount", amount))
	return amount, nil
}

// SweepExcess sends any tokens sitting in custody beyond the tracked
// obligations to the treasury. Unsolicited transfers are the only way such
// an excess can arise, so sweeping never touches tracked funds. Callable by
// anyone; returns the amount swept.
func (e *Engine) SweepExcess() (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	custodied := e.vault.BalanceOf(e.custody)
	excess := custodied - e.totalHeld
	if excess <= 0 {
		return 0, nil
	}
	if err := e.vault.Transfer(e.treasury, excess); err != nil {
		return 0, financialErrf("sweep of %d to treasury failed: %v", excess, err)
	}

	e.logger.Info("excess swept", zap.Int64("amount", excess))
	return excess, nil
}
