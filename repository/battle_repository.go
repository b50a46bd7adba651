package repository

import (
	"context"
	"errors"
	"fmt"

	"arenabet/models"
	"arenabet/store"
)

const battleRecordVersion byte = 1

// BattleRepository persists battles in the entity store, keeping a
// creation-ordered index so bounded sweeps can scan.
type BattleRepository struct {
	s store.Store
}

// NewBattleRepository creates a battle repository.
func NewBattleRepository(s store.Store) *BattleRepository {
	return &BattleRepository{s: s}
}

// Exists reports whether a battle id is taken.
func (r *BattleRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.s.Has(ctx, store.BattleKey(id))
}

// GetByID retrieves a battle, returning models.ErrNotFound if missing.
func (r *BattleRepository) GetByID(ctx context.Context, id string) (*models.Battle, error) {
	raw, err := r.s.Get(ctx, store.BattleKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("battle %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battle %s: %w", id, err)
	}
	return decodeBattle(raw)
}

// Save persists a battle record.
func (r *BattleRepository) Save(ctx context.Context, b *models.Battle) error {
	if err := r.s.Set(ctx, store.BattleKey(b.ID), encodeBattle(b)); err != nil {
		return fmt.Errorf("failed to save battle %s: %w", b.ID, err)
	}
	return nil
}

// Create persists a new battle, bumps the battle counter and writes the
// creation-order index entry.
func (r *BattleRepository) Create(ctx context.Context, b *models.Battle) error {
	if err := r.Save(ctx, b); err != nil {
		return err
	}
	n, err := store.IncrementCounter(ctx, r.s, store.KeyBattleCount)
	if err != nil {
		return fmt.Errorf("failed to bump battle count: %w", err)
	}
	if err := r.s.Set(ctx, store.BattleIndexKey(n), []byte(b.ID)); err != nil {
		return fmt.Errorf("failed to index battle %s: %w", b.ID, err)
	}
	return nil
}

// Count returns the number of created battles.
func (r *BattleRepository) Count(ctx context.Context) (uint64, error) {
	return store.GetCounter(ctx, r.s, store.KeyBattleCount)
}

// IDAt returns the battle id at a creation ordinal (1-based).
func (r *BattleRepository) IDAt(ctx context.Context, n uint64) (string, error) {
	raw, err := r.s.Get(ctx, store.BattleIndexKey(n))
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("battle index %d: %w", n, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read battle index %d: %w", n, err)
	}
	return string(raw), nil
}

// IncrementFinished bumps the finished-battle counter.
func (r *BattleRepository) IncrementFinished(ctx context.Context) error {
	_, err := store.IncrementCounter(ctx, r.s, store.KeyBattleFinishedCount)
	return err
}

// FinishedCount returns the number of finalized battles.
func (r *BattleRepository) FinishedCount(ctx context.Context) (uint64, error) {
	return store.GetCounter(ctx, r.s, store.KeyBattleFinishedCount)
}

func encodeBattle(b *models.Battle) []byte {
	w := newRecordWriter(battleRecordVersion)
	w.str(b.ID)
	w.str(b.Char1)
	w.str(b.Char2)
	w.str(b.Owner1)
	w.str(b.Owner2)
	w.timestamp(b.StartAt)
	w.timestamp(b.CreatedAt)
	w.u64(b.Turn)
	w.u8(uint8(b.TurnOf))
	w.flag(b.Finished)
	w.u8(uint8(b.Winner))
	w.u64(b.HP1)
	w.u64(b.HP2)
	w.flag(b.Wildcard.Active)
	w.u8(uint8(b.Wildcard.Type))
	w.timestamp(b.Wildcard.Deadline)
	w.u8(uint8(b.Wildcard.Decision1))
	w.u8(uint8(b.Wildcard.Decision2))
	w.u64(b.Wildcards)
	w.u8(uint8(b.Status1))
	w.u8(uint8(b.Status2))
	w.u8(b.Duration1)
	w.u8(b.Duration2)
	w.u32(b.Combo1)
	w.u32(b.Combo2)
	for _, cd := range b.Cooldowns1 {
		w.u8(cd)
	}
	for _, cd := range b.Cooldowns2 {
		w.u8(cd)
	}
	w.flag(b.Finalized)
	return w.bytes()
}

func decodeBattle(raw []byte) (*models.Battle, error) {
	r := newRecordReader(raw, battleRecordVersion)
	b := &models.Battle{}
	b.ID = r.str()
	b.Char1 = r.str()
	b.Char2 = r.str()
	b.Owner1 = r.str()
	b.Owner2 = r.str()
	b.StartAt = r.timestamp()
	b.CreatedAt = r.timestamp()
	b.Turn = r.u64()
	b.TurnOf = models.Side(r.u8())
	b.Finished = r.flag()
	b.Winner = models.Side(r.u8())
	b.HP1 = r.u64()
	b.HP2 = r.u64()
	b.Wildcard.Active = r.flag()
	b.Wildcard.Type = models.WildcardType(r.u8())
	b.Wildcard.Deadline = r.timestamp()
	b.Wildcard.Decision1 = models.WildcardDecision(r.u8())
	b.Wildcard.Decision2 = models.WildcardDecision(r.u8())
	b.Wildcards = r.u64()
	b.Status1 = models.StatusEffect(r.u8())
	b.Status2 = models.StatusEffect(r.u8())
	b.Duration1 = r.u8()
	b.Duration2 = r.u8()
	b.Combo1 = r.u32()
	b.Combo2 = r.u32()
	for i := range b.Cooldowns1 {
		b.Cooldowns1[i] = r.u8()
	}
	for i := range b.Cooldowns2 {
		b.Cooldowns2[i] = r.u8()
	}
	b.Finalized = r.flag()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode battle: %w", err)
	}
	return b, nil
}
