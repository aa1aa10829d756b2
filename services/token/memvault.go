package token

import (
	"fmt"
	"sync"
)

// MemVault is an in-memory Vault with ERC20-style balances and allowances.
// It backs local development mode and the engine test suite; a chain-backed
// adapter satisfies the same interface in production.
type MemVault struct {
	mu         sync.Mutex
	custody    string
	balances   map[string]int64
	allowances map[string]int64 // owner -> amount approved for custody pulls
}

// NewMemVault creates an empty vault custodied by the given address.
func NewMemVault(custody string) *MemVault {
	return &MemVault{
		custody:    custody,
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
	}
}

// Mint credits tokens out of thin air. Test/dev helper.
func (v *MemVault) Mint(addr string, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.balances[addr] += amount
}

// Approve lets the custody address pull up to amount from owner.
func (v *MemVault) Approve(owner string, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.allowances[owner] = amount
}

func (v *MemVault) TransferFrom(from, to string, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if amount <= 0 {
		return fmt.Errorf("transferFrom: non-positive amount %d", amount)
	}
	if v.allowances[from] < amount {
		return fmt.Errorf("transferFrom: allowance of %s is %d, need %d", from, v.allowances[from], amount)
	}
	if v.balances[from] < amount {
		return fmt.Errorf("transferFrom: balance of %s is %d, need %d", from, v.balances[from], amount)
	}
	v.allowances[from] -= amount
	v.balances[from] -= amount
	v.balances[to] += amount
	return nil
}

func (v *MemVault) Transfer(to string, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if amount <= 0 {
		return fmt.Errorf("transfer: non-positive amount %d", amount)
	}
	if v.balances[v.custody] < amount {
		return fmt.Errorf("transfer: custody balance is %d, need %d", v.balances[v.custody], amount)
	}
	v.balances[v.custody] -= amount
	v.balances[to] += amount
	return nil
}

func (v *MemVault) BalanceOf(address string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[address]
}
