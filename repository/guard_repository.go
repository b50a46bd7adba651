package repository

import (
	"context"
	"fmt"

	"arenabet/store"
)

// GuardRepository persists the process-wide pause and reentrancy flags,
// role grants and the authorized-settler allow-list.
type GuardRepository struct {
	s store.Store
}

// NewGuardRepository creates a guard repository.
func NewGuardRepository(s store.Store) *GuardRepository {
	return &GuardRepository{s: s}
}

// Paused reads the pause flag.
func (r *GuardRepository) Paused(ctx context.Context) (bool, error) {
	return store.GetFlag(ctx, r.s, store.KeyPaused)
}

// SetPaused writes the pause flag.
func (r *GuardRepository) SetPaused(ctx context.Context, v bool) error {
	return store.SetFlag(ctx, r.s, store.KeyPaused, v)
}

// Locked reads the reentrancy flag.
func (r *GuardRepository) Locked(ctx context.Context) (bool, error) {
	return store.GetFlag(ctx, r.s, store.KeyLocked)
}

// SetLocked writes the reentrancy flag.
func (r *GuardRepository) SetLocked(ctx context.Context, v bool) error {
	return store.SetFlag(ctx, r.s, store.KeyLocked, v)
}

// HasRole reports whether addr holds the named role.
func (r *GuardRepository) HasRole(ctx context.Context, role, addr string) (bool, error) {
	return store.GetFlag(ctx, r.s, store.RoleKey(role, addr))
}

// SetRole grants or revokes a role.
func (r *GuardRepository) SetRole(ctx context.Context, role, addr string, granted bool) error {
	key := store.RoleKey(role, addr)
	if !granted {
		return r.s.Delete(ctx, key)
	}
	if err := store.SetFlag(ctx, r.s, key, true); err != nil {
		return fmt.Errorf("failed to grant role %s to %s: %w", role, addr, err)
	}
	return nil
}

// IsAuthorizedSettler reports whether addr is on the settler allow-list.
func (r *GuardRepository) IsAuthorizedSettler(ctx context.Context, addr string) (bool, error) {
	return store.GetFlag(ctx, r.s, store.AuthSettlerKey(addr))
}

// SetAuthorizedSettler adds or removes addr from the settler allow-list.
func (r *GuardRepository) SetAuthorizedSettler(ctx context.Context, addr string, authorized bool) error {
	key := store.AuthSettlerKey(addr)
	if !authorized {
		return r.s.Delete(ctx, key)
	}
	if err := store.SetFlag(ctx, r.s, key, true); err != nil {
		return fmt.Errorf("failed to authorize settler %s: %w", addr, err)
	}
	return nil
}
