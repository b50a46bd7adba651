package repository

import (
	"context"
	"errors"
	"fmt"

	"arenabet/models"
	"arenabet/store"
)

const (
	multipoolRecordVersion byte = 1
	betslipRecordVersion   byte = 1
)

// ParlayRepository persists multipools and betslips in the entity store.
type ParlayRepository struct {
	s store.Store
}

// NewParlayRepository creates a parlay repository.
func NewParlayRepository(s store.Store) *ParlayRepository {
	return &ParlayRepository{s: s}
}

// Exists reports whether a multipool id is taken.
func (r *ParlayRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.s.Has(ctx, store.MultipoolKey(id))
}

// GetByID retrieves a multipool, returning models.ErrNotFound if missing.
func (r *ParlayRepository) GetByID(ctx context.Context, id string) (*models.Multipool, error) {
	raw, err := r.s.Get(ctx, store.MultipoolKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("multipool %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get multipool %s: %w", id, err)
	}
	return decodeMultipool(raw)
}

// Save persists a multipool record.
func (r *ParlayRepository) Save(ctx context.Context, m *models.Multipool) error {
	if err := r.s.Set(ctx, store.MultipoolKey(m.ID), encodeMultipool(m)); err != nil {
		return fmt.Errorf("failed to save multipool %s: %w", m.ID, err)
	}
	return nil
}

// Create persists a new multipool and bumps the multipool counter.
func (r *ParlayRepository) Create(ctx context.Context, m *models.Multipool) error {
	if err := r.Save(ctx, m); err != nil {
		return err
	}
	if _, err := store.IncrementCounter(ctx, r.s, store.KeyMultipoolCount); err != nil {
		return fmt.Errorf("failed to bump multipool count: %w", err)
	}
	return nil
}

// BetslipExists reports whether a betslip id is taken.
func (r *ParlayRepository) BetslipExists(ctx context.Context, id string) (bool, error) {
	return r.s.Has(ctx, store.BetslipKey(id))
}

// GetBetslip retrieves a betslip, returning models.ErrNotFound if missing.
func (r *ParlayRepository) GetBetslip(ctx context.Context, id string) (*models.Betslip, error) {
	raw, err := r.s.Get(ctx, store.BetslipKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("betslip %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get betslip %s: %w", id, err)
	}
	return decodeBetslip(raw)
}

// SaveBetslip persists a betslip record.
func (r *ParlayRepository) SaveBetslip(ctx context.Context, s *models.Betslip) error {
	if err := r.s.Set(ctx, store.BetslipKey(s.ID), encodeBetslip(s)); err != nil {
		return fmt.Errorf("failed to save betslip %s: %w", s.ID, err)
	}
	return nil
}

func encodeMultipool(m *models.Multipool) []byte {
	w := newRecordWriter(multipoolRecordVersion)
	w.str(m.ID)
	w.str(m.Asset)
	w.u64(m.TotalPool)
	w.u64(m.TotalWeight)
	w.u64(m.WinningWeight)
	w.flag(m.Finalized)
	w.u64(m.HouseEdgeBps)
	w.timestamp(m.CreatedAt)
	return w.bytes()
}

func decodeMultipool(raw []byte) (*models.Multipool, error) {
	r := newRecordReader(raw, multipoolRecordVersion)
	m := &models.Multipool{}
	m.ID = r.str()
	m.Asset = r.str()
	m.TotalPool = r.u64()
	m.TotalWeight = r.u64()
	m.WinningWeight = r.u64()
	m.Finalized = r.flag()
	m.HouseEdgeBps = r.u64()
	m.CreatedAt = r.timestamp()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode multipool: %w", err)
	}
	return m, nil
}

func encodeBetslip(s *models.Betslip) []byte {
	w := newRecordWriter(betslipRecordVersion)
	w.str(s.ID)
	w.str(s.Bettor)
	w.str(s.MultipoolID)
	w.u64(s.Amount)
	w.u32(uint32(len(s.Selections)))
	for _, sel := range s.Selections {
		w.str(sel.PoolID)
		w.u8(uint8(sel.Outcome))
		w.u64(sel.Odds)
	}
	w.u64(s.CombinedOdds)
	w.u64(s.Weight)
	w.flag(s.Winner)
	w.flag(s.Accounted)
	w.flag(s.Claimed)
	w.timestamp(s.PlacedAt)
	return w.bytes()
}

func decodeBetslip(raw []byte) (*models.Betslip, error) {
	r := newRecordReader(raw, betslipRecordVersion)
	s := &models.Betslip{}
	s.ID = r.str()
	s.Bettor = r.str()
	s.MultipoolID = r.str()
	s.Amount = r.u64()
	n := r.u32()
	for i := uint32(0); i < n; i++ {
		var sel models.Selection
		sel.PoolID = r.str()
		sel.Outcome = models.Outcome(r.u8())
		sel.Odds = r.u64()
		s.Selections = append(s.Selections, sel)
	}
	s.CombinedOdds = r.u64()
	s.Weight = r.u64()
	s.Winner = r.flag()
	s.Accounted = r.flag()
	s.Claimed = r.flag()
	s.PlacedAt = r.timestamp()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode betslip: %w", err)
	}
	return s, nil
}
