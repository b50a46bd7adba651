package repository

import (
	"context"
	"errors"
	"fmt"

	"arenabet/models"
	"arenabet/store"
)

const (
	poolRecordVersion byte = 1
	betRecordVersion  byte = 1
)

// PoolRepository persists single pools and their bets in the entity
// store, keeping a creation-ordered pool index for bounded sweeps.
type PoolRepository struct {
	s store.Store
}

// NewPoolRepository creates a pool repository.
func NewPoolRepository(s store.Store) *PoolRepository {
	return &PoolRepository{s: s}
}

// Exists reports whether a pool id is taken.
func (r *PoolRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.s.Has(ctx, store.SinglePoolKey(id))
}

// GetByID retrieves a pool, returning models.ErrNotFound if missing.
func (r *PoolRepository) GetByID(ctx context.Context, id string) (*models.SinglePool, error) {
	raw, err := r.s.Get(ctx, store.SinglePoolKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("pool %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool %s: %w", id, err)
	}
	return decodePool(raw)
}

// Save persists a pool record.
func (r *PoolRepository) Save(ctx context.Context, p *models.SinglePool) error {
	if err := r.s.Set(ctx, store.SinglePoolKey(p.ID), encodePool(p)); err != nil {
		return fmt.Errorf("failed to save pool %s: %w", p.ID, err)
	}
	return nil
}

// Create persists a new pool, bumps the pool counter and writes the
// creation-order index entry.
func (r *PoolRepository) Create(ctx context.Context, p *models.SinglePool) error {
	if err := r.Save(ctx, p); err != nil {
		return err
	}
	n, err := store.IncrementCounter(ctx, r.s, store.KeySinglePoolCount)
	if err != nil {
		return fmt.Errorf("failed to bump pool count: %w", err)
	}
	if err := r.s.Set(ctx, store.SinglePoolIndexKey(n), []byte(p.ID)); err != nil {
		return fmt.Errorf("failed to index pool %s: %w", p.ID, err)
	}
	return nil
}

// Count returns the number of created pools.
func (r *PoolRepository) Count(ctx context.Context) (uint64, error) {
	return store.GetCounter(ctx, r.s, store.KeySinglePoolCount)
}

// IDAt returns the pool id at a creation ordinal (1-based).
func (r *PoolRepository) IDAt(ctx context.Context, n uint64) (string, error) {
	raw, err := r.s.Get(ctx, store.SinglePoolIndexKey(n))
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("pool index %d: %w", n, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read pool index %d: %w", n, err)
	}
	return string(raw), nil
}

// HasBet reports whether a bettor already has a bet on a pool.
func (r *PoolRepository) HasBet(ctx context.Context, poolID, bettor string) (bool, error) {
	return r.s.Has(ctx, store.SingleBetKey(poolID, bettor))
}

// GetBet retrieves a bet, returning models.ErrNotFound if missing.
func (r *PoolRepository) GetBet(ctx context.Context, poolID, bettor string) (*models.SingleBet, error) {
	raw, err := r.s.Get(ctx, store.SingleBetKey(poolID, bettor))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("bet %s/%s: %w", poolID, bettor, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s/%s: %w", poolID, bettor, err)
	}
	return decodeBet(raw)
}

// SaveBet persists a bet record.
func (r *PoolRepository) SaveBet(ctx context.Context, b *models.SingleBet) error {
	if err := r.s.Set(ctx, store.SingleBetKey(b.PoolID, b.Bettor), encodeBet(b)); err != nil {
		return fmt.Errorf("failed to save bet %s/%s: %w", b.PoolID, b.Bettor, err)
	}
	return nil
}

// WinStreak reads a bettor's consecutive-win counter.
func (r *PoolRepository) WinStreak(ctx context.Context, bettor string) (uint64, error) {
	return store.GetCounter(ctx, r.s, store.WinStreakKey(bettor))
}

// SetWinStreak overwrites a bettor's consecutive-win counter.
func (r *PoolRepository) SetWinStreak(ctx context.Context, bettor string, streak uint64) error {
	return store.SetCounter(ctx, r.s, store.WinStreakKey(bettor), streak)
}

// AccrueTreasury adds the house-edge share to the treasury counter.
func (r *PoolRepository) AccrueTreasury(ctx context.Context, amount uint64) error {
	v, err := store.GetCounter(ctx, r.s, store.KeyTreasury)
	if err != nil {
		return err
	}
	return store.SetCounter(ctx, r.s, store.KeyTreasury, v+amount)
}

// Treasury reads the accrued house-edge counter.
func (r *PoolRepository) Treasury(ctx context.Context) (uint64, error) {
	return store.GetCounter(ctx, r.s, store.KeyTreasury)
}

func encodePool(p *models.SinglePool) []byte {
	w := newRecordWriter(poolRecordVersion)
	w.str(p.ID)
	w.str(p.BattleID)
	w.str(p.Asset)
	w.timestamp(p.CloseTime)
	w.u64(p.TotalPool)
	w.u64(p.BetsA)
	w.u64(p.BetsB)
	w.u64(p.OddsA)
	w.u64(p.OddsB)
	w.u64(p.HouseEdgeBps)
	w.flag(p.Closed)
	w.flag(p.Settled)
	w.u8(uint8(p.Winner))
	w.u64(p.MinBet)
	w.u64(p.MaxBet)
	w.u64(p.Cap)
	w.timestamp(p.CreatedAt)
	return w.bytes()
}

func decodePool(raw []byte) (*models.SinglePool, error) {
	r := newRecordReader(raw, poolRecordVersion)
	p := &models.SinglePool{}
	p.ID = r.str()
	p.BattleID = r.str()
	p.Asset = r.str()
	p.CloseTime = r.timestamp()
	p.TotalPool = r.u64()
	p.BetsA = r.u64()
	p.BetsB = r.u64()
	p.OddsA = r.u64()
	p.OddsB = r.u64()
	p.HouseEdgeBps = r.u64()
	p.Closed = r.flag()
	p.Settled = r.flag()
	p.Winner = models.Outcome(r.u8())
	p.MinBet = r.u64()
	p.MaxBet = r.u64()
	p.Cap = r.u64()
	p.CreatedAt = r.timestamp()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode pool: %w", err)
	}
	return p, nil
}

func encodeBet(b *models.SingleBet) []byte {
	w := newRecordWriter(betRecordVersion)
	w.str(b.Bettor)
	w.str(b.PoolID)
	w.u64(b.Amount)
	w.u8(uint8(b.Outcome))
	w.flag(b.Claimed)
	w.timestamp(b.PlacedAt)
	return w.bytes()
}

func decodeBet(raw []byte) (*models.SingleBet, error) {
	r := newRecordReader(raw, betRecordVersion)
	b := &models.SingleBet{}
	b.Bettor = r.str()
	b.PoolID = r.str()
	b.Amount = r.u64()
	b.Outcome = models.Outcome(r.u8())
	b.Claimed = r.flag()
	b.PlacedAt = r.timestamp()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode bet: %w", err)
	}
	return b, nil
}
