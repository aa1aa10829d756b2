package token

// Vault is the pluggable token-transfer capability the escrow engine settles
// through. Implementations are bound to a custody address: TransferFrom pulls
// funds into custody, Transfer pays out of it. Every value movement in or out
// of the engine goes through this interface and nothing else.
type Vault interface {
	TransferFrom(from, to string, amount int64) error
	Transfer(to string, amount int64) error
	BalanceOf(address string) int64
}
