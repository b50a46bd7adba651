package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arenabet/models"
	"arenabet/store"
)

func TestCharacterRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCharacterRepository(store.NewMemoryStore())

	created := time.Unix(1_700_000_000, 0).UTC()
	c := models.NewCharacter("c1", "alice", "Brak", models.ClassWarrior, created)
	c.Level = 4
	c.XP = 120
	c.Wins = 7
	c.Losses = 2
	c.WeaponID = "e9"
	c.SkillSlots = [3]models.SkillID{models.SkillPowerStrike, 0, models.SkillHeal}
	c.LearnedSkills = models.SkillSet(0).Add(models.SkillPowerStrike).Add(models.SkillHeal)
	c.Energy = 55

	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCharacterRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewCharacterRepository(store.NewMemoryStore())

	_, err := repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCharacterRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewCharacterRepository(store.NewMemoryStore())

	c := models.NewCharacter("c1", "alice", "Brak", models.ClassMage, time.Unix(1_700_000_000, 0).UTC())
	require.NoError(t, repo.Create(ctx, c))

	c.CurrentHP = 12
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), got.CurrentHP)

	// Save must not bump the creation counter
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestEquipmentRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewEquipmentRepository(store.NewMemoryStore())

	e := models.NewEquipment("e1", "bob", models.EquipmentArmor, models.RarityEpic, time.Unix(1_700_000_000, 0).UTC())
	e.Durability = 37
	require.NoError(t, repo.Save(ctx, e))

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, e, got)

	exists, err := repo.Exists(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDecodeCharacter_Malformed(t *testing.T) {
	_, err := decodeCharacter([]byte{0xff, 0x01})
	assert.Error(t, err)

	_, err = decodeCharacter(nil)
	assert.Error(t, err)
}
