// Package token models the fungible stake asset the markets settle in.
// The on-chain asset itself is an external collaborator; Ledger is the
// in-process implementation used for wiring and tests.
package token

import (
	"context"
	"fmt"
	"sync"

	"arenabet/models"
)

// AssetClient is the asset-transfer collaborator contract. Transfer moves
// funds out of the market's own account; TransferFrom pulls pre-authorized
// funds from a bettor.
type AssetClient interface {
	BalanceOf(ctx context.Context, addr string) (uint64, error)
	Allowance(ctx context.Context, owner, spender string) (uint64, error)
	TransferFrom(ctx context.Context, from, to string, amount uint64) error
	Transfer(ctx context.Context, to string, amount uint64) error
}

// Ledger is an in-memory asset ledger bound to a market account.
type Ledger struct {
	mu         sync.Mutex
	account    string // the market account Transfer debits
	balances   map[string]uint64
	allowances map[string]map[string]uint64 // owner -> spender -> amount
}

// NewLedger creates a ledger whose Transfer debits the given market
// account.
func NewLedger(marketAccount string) *Ledger {
	return &Ledger{
		account:    marketAccount,
		balances:   make(map[string]uint64),
		allowances: make(map[string]map[string]uint64),
	}
}

// Mint credits an address. Test and bootstrap helper.
func (l *Ledger) Mint(addr string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] += amount
}

// Approve sets an allowance. Test and bootstrap helper.
func (l *Ledger) Approve(owner, spender string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[string]uint64)
	}
	l.allowances[owner][spender] = amount
}

func (l *Ledger) BalanceOf(ctx context.Context, addr string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr], nil
}

func (l *Ledger) Allowance(ctx context.Context, owner, spender string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[owner][spender], nil
}

func (l *Ledger) TransferFrom(ctx context.Context, from, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	allowance := l.allowances[from][l.account]
	if allowance < amount {
		return fmt.Errorf("allowance %d below %d: %w", allowance, amount, models.ErrInsufficientFunds)
	}
	if l.balances[from] < amount {
		return fmt.Errorf("balance %d below %d: %w", l.balances[from], amount, models.ErrInsufficientFunds)
	}
	l.allowances[from][l.account] = allowance - amount
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *Ledger) Transfer(ctx context.Context, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[l.account] < amount {
		return fmt.Errorf("market balance %d below %d: %w", l.balances[l.account], amount, models.ErrInsufficientFunds)
	}
	l.balances[l.account] -= amount
	l.balances[to] += amount
	return nil
}

// Registry resolves asset references to clients. Pools carry an asset
// reference string; the registry owns the mapping.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]AssetClient
}

// NewRegistry creates an empty asset registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]AssetClient)}
}

// Register binds an asset reference to a client.
func (r *Registry) Register(ref string, client AssetClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[ref] = client
}

// Asset resolves an asset reference.
func (r *Registry) Asset(ref string) (AssetClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[ref]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", ref, models.ErrNotFound)
	}
	return client, nil
}
