package repository

import (
	"context"
	"errors"
	"fmt"

	"arenabet/models"
	"arenabet/store"
)

const characterRecordVersion byte = 1

// CharacterRepository persists characters in the entity store.
type CharacterRepository struct {
	s store.Store
}

// NewCharacterRepository creates a character repository.
func NewCharacterRepository(s store.Store) *CharacterRepository {
	return &CharacterRepository{s: s}
}

// Exists reports whether a character id is taken.
func (r *CharacterRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.s.Has(ctx, store.CharacterKey(id))
}

// GetByID retrieves a character, returning models.ErrNotFound if missing.
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*models.Character, error) {
	raw, err := r.s.Get(ctx, store.CharacterKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("character %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character %s: %w", id, err)
	}
	return decodeCharacter(raw)
}

// Save persists a character record.
func (r *CharacterRepository) Save(ctx context.Context, c *models.Character) error {
	if err := r.s.Set(ctx, store.CharacterKey(c.ID), encodeCharacter(c)); err != nil {
		return fmt.Errorf("failed to save character %s: %w", c.ID, err)
	}
	return nil
}

// Create persists a new character and bumps the character counter.
func (r *CharacterRepository) Create(ctx context.Context, c *models.Character) error {
	if err := r.Save(ctx, c); err != nil {
		return err
	}
	if _, err := store.IncrementCounter(ctx, r.s, store.KeyCharacterCount); err != nil {
		return fmt.Errorf("failed to bump character count: %w", err)
	}
	return nil
}

// Count returns the number of created characters.
func (r *CharacterRepository) Count(ctx context.Context) (uint64, error) {
	return store.GetCounter(ctx, r.s, store.KeyCharacterCount)
}

func encodeCharacter(c *models.Character) []byte {
	w := newRecordWriter(characterRecordVersion)
	w.str(c.ID)
	w.str(c.Owner)
	w.str(c.Name)
	w.u8(uint8(c.Class))
	w.u32(c.Level)
	w.u64(c.XP)
	w.u64(c.MaxHP)
	w.u64(c.CurrentHP)
	w.u64(c.DamageMin)
	w.u64(c.DamageMax)
	w.u64(c.CritPct)
	w.u64(c.DodgePct)
	w.u64(c.Defense)
	w.u64(c.Wins)
	w.u64(c.Losses)
	w.u64(c.Rating)
	w.str(c.WeaponID)
	w.str(c.ArmorID)
	w.str(c.AccessoryID)
	for _, slot := range c.SkillSlots {
		w.u8(uint8(slot))
	}
	w.u64(uint64(c.LearnedSkills))
	w.u8(c.Energy)
	w.timestamp(c.CreatedAt)
	return w.bytes()
}

func decodeCharacter(raw []byte) (*models.Character, error) {
	r := newRecordReader(raw, characterRecordVersion)
	c := &models.Character{}
	c.ID = r.str()
	c.Owner = r.str()
	c.Name = r.str()
	c.Class = models.Class(r.u8())
	c.Level = r.u32()
	c.XP = r.u64()
	c.MaxHP = r.u64()
	c.CurrentHP = r.u64()
	c.DamageMin = r.u64()
	c.DamageMax = r.u64()
	c.CritPct = r.u64()
	c.DodgePct = r.u64()
	c.Defense = r.u64()
	c.Wins = r.u64()
	c.Losses = r.u64()
	c.Rating = r.u64()
	c.WeaponID = r.str()
	c.ArmorID = r.str()
	c.AccessoryID = r.str()
	for i := range c.SkillSlots {
		c.SkillSlots[i] = models.SkillID(r.u8())
	}
	c.LearnedSkills = models.SkillSet(r.u64())
	c.Energy = r.u8()
	c.CreatedAt = r.timestamp()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode character: %w", err)
	}
	return c, nil
}
