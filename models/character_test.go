package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCharacter_ClassTable(t *testing.T) {
	now := time.Now()
	c := NewCharacter("c1", "alice", "Brak", ClassWarrior, now)

	assert.Equal(t, uint64(120), c.MaxHP)
	assert.Equal(t, uint64(120), c.CurrentHP)
	assert.Equal(t, uint64(8), c.DamageMin)
	assert.Equal(t, uint64(15), c.DamageMax)
	assert.Equal(t, uint64(15), c.CritPct)
	assert.Equal(t, uint64(0), c.DodgePct)
	assert.Equal(t, uint64(5), c.Defense)
	assert.Equal(t, uint32(1), c.Level)
	assert.Equal(t, EnergyMax, c.Energy)
}

func TestClassByName(t *testing.T) {
	c, ok := ClassByName("rogue")
	assert.True(t, ok)
	assert.Equal(t, ClassRogue, c)

	_, ok = ClassByName("necromancer")
	assert.False(t, ok)
}

func TestCharacter_GrantXP_AutoLevels(t *testing.T) {
	c := NewCharacter("c1", "alice", "Brak", ClassWarrior, time.Now())

	gained := c.GrantXP(150)
	assert.Equal(t, uint32(0), gained)
	assert.Equal(t, uint64(150), c.XP)

	// 150 + 100 crosses level 1's 200 threshold with 50 left over
	gained = c.GrantXP(100)
	assert.Equal(t, uint32(1), gained)
	assert.Equal(t, uint32(2), c.Level)
	assert.Equal(t, uint64(50), c.XP)
	assert.Equal(t, uint64(130), c.MaxHP)

	// Enough for levels 2 and 3 in one grant
	gained = c.GrantXP(950)
	assert.Equal(t, uint32(2), gained)
	assert.Equal(t, uint32(4), c.Level)
	assert.Equal(t, uint64(150), c.MaxHP)
}

func TestCharacter_ApplyUpgrade(t *testing.T) {
	c := NewCharacter("c1", "alice", "Brak", ClassWarrior, time.Now())

	assert.False(t, c.ApplyUpgrade(UpgradeHP), "no xp banked yet")

	c.XP = 250
	assert.True(t, c.ApplyUpgrade(UpgradeHP))
	assert.Equal(t, uint64(130), c.MaxHP)
	assert.Equal(t, uint64(150), c.XP)

	assert.True(t, c.ApplyUpgrade(UpgradeDamage))
	assert.Equal(t, uint64(10), c.DamageMin)
	assert.Equal(t, uint64(18), c.DamageMax)

	assert.False(t, c.ApplyUpgrade(UpgradeCrit), "only 50 xp left")
}

func TestCharacter_ApplyUpgrade_Caps(t *testing.T) {
	c := NewCharacter("c1", "alice", "Sly", ClassRogue, time.Now())
	c.XP = 10_000

	for i := 0; i < 20; i++ {
		c.ApplyUpgrade(UpgradeCrit)
		c.ApplyUpgrade(UpgradeDodge)
	}
	assert.Equal(t, CritCapPct, c.CritPct)
	assert.Equal(t, DodgeCapPct, c.DodgePct)
}

func TestCharacter_LevelDamageBonus(t *testing.T) {
	c := NewCharacter("c1", "alice", "Brak", ClassWarrior, time.Now())
	assert.Equal(t, uint64(0), c.LevelDamageBonus())

	c.Level = 5
	assert.Equal(t, uint64(8), c.LevelDamageBonus())
}

func TestCharacter_Record(t *testing.T) {
	c := NewCharacter("c1", "alice", "Brak", ClassWarrior, time.Now())

	c.RecordWin()
	assert.Equal(t, uint64(1), c.Wins)
	assert.Equal(t, RatingInitial+RatingDelta, c.Rating)

	c.RecordLoss()
	assert.Equal(t, uint64(1), c.Losses)
	assert.Equal(t, RatingInitial, c.Rating)

	// Rating floors at zero
	c.Rating = RatingDelta / 2
	c.RecordLoss()
	assert.Equal(t, uint64(0), c.Rating)
}

func TestCharacter_Energy(t *testing.T) {
	c := NewCharacter("c1", "alice", "Brak", ClassWarrior, time.Now())

	assert.True(t, c.SpendEnergy(60))
	assert.Equal(t, uint8(40), c.Energy)
	assert.False(t, c.SpendEnergy(50))

	c.RegenEnergy(200)
	assert.Equal(t, EnergyMax, c.Energy)
}

func TestEquipment_Bonus(t *testing.T) {
	now := time.Now()

	weapon := NewEquipment("e1", "alice", EquipmentWeapon, RarityLegendary, now)
	assert.Equal(t, StatBonus{DamageMin: 7, DamageMax: 10}, weapon.Bonus())
	assert.Equal(t, uint32(200), weapon.Durability)

	armor := NewEquipment("e2", "alice", EquipmentArmor, RarityCommon, now)
	assert.Equal(t, StatBonus{DodgePct: 1}, armor.Bonus())

	accessory := NewEquipment("e3", "alice", EquipmentAccessory, RarityEpic, now)
	assert.Equal(t, StatBonus{CritPct: 5}, accessory.Bonus())
}
