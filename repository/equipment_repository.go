package repository

import (
	"context"
	"errors"
	"fmt"

	"arenabet/models"
	"arenabet/store"
)

const equipmentRecordVersion byte = 1

// EquipmentRepository persists equipment items in the entity store.
type EquipmentRepository struct {
	s store.Store
}

// NewEquipmentRepository creates an equipment repository.
func NewEquipmentRepository(s store.Store) *EquipmentRepository {
	return &EquipmentRepository{s: s}
}

// Exists reports whether an equipment id is taken.
func (r *EquipmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.s.Has(ctx, store.EquipmentKey(id))
}

// GetByID retrieves an item, returning models.ErrNotFound if missing.
func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	raw, err := r.s.Get(ctx, store.EquipmentKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("equipment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment %s: %w", id, err)
	}
	return decodeEquipment(raw)
}

// Save persists an equipment record.
func (r *EquipmentRepository) Save(ctx context.Context, e *models.Equipment) error {
	if err := r.s.Set(ctx, store.EquipmentKey(e.ID), encodeEquipment(e)); err != nil {
		return fmt.Errorf("failed to save equipment %s: %w", e.ID, err)
	}
	return nil
}

func encodeEquipment(e *models.Equipment) []byte {
	w := newRecordWriter(equipmentRecordVersion)
	w.str(e.ID)
	w.str(e.Owner)
	w.u8(uint8(e.Type))
	w.u8(uint8(e.Rarity))
	w.u32(e.Durability)
	w.u32(e.MaxDurability)
	w.timestamp(e.CreatedAt)
	return w.bytes()
}

func decodeEquipment(raw []byte) (*models.Equipment, error) {
	r := newRecordReader(raw, equipmentRecordVersion)
	e := &models.Equipment{}
	e.ID = r.str()
	e.Owner = r.str()
	e.Type = models.EquipmentType(r.u8())
	e.Rarity = models.Rarity(r.u8())
	e.Durability = r.u32()
	e.MaxDurability = r.u32()
	e.CreatedAt = r.timestamp()
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("failed to decode equipment: %w", err)
	}
	return e, nil
}
