package models

// LedgerView is a read-only snapshot of the pull ledger's global counters.
// Custodied is the token balance actually held by the vault address; it must
// never fall below TotalHeld.
type LedgerView struct {
	TotalHeld int64 `json:"totalHeld"`
	Custodied int64 `json:"custodied"`
}

// PullBalance is the withdrawable amount owed to one address.
type PullBalance struct {
	Address string `json:"address"`
	Owed    int64  `json:"owed"`
}
