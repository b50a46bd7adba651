package models

import (
	"time"
)

// Class is a character class. Base stats are a pure function of class,
// assigned once at creation and never reassigned.
type Class uint8

const (
	ClassWarrior Class = iota
	ClassMage
	ClassRogue
	ClassPaladin
	ClassBerserker

	classCount = 5
)

// Valid reports whether the class is one of the five defined classes.
func (c Class) Valid() bool {
	return c < classCount
}

func (c Class) String() string {
	switch c {
	case ClassWarrior:
		return "warrior"
	case ClassMage:
		return "mage"
	case ClassRogue:
		return "rogue"
	case ClassPaladin:
		return "paladin"
	case ClassBerserker:
		return "berserker"
	}
	return "unknown"
}

// ClassByName parses a class from its lowercase name.
func ClassByName(name string) (Class, bool) {
	for c := Class(0); c < classCount; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// BaseStats is the per-class creation stat table.
type BaseStats struct {
	MaxHP     uint64
	DamageMin uint64
	DamageMax uint64
	CritPct   uint64
	DodgePct  uint64
	Defense   uint64
	// WildcardThresholdPct is the per-turn chance, in percent, that a
	// wildcard event triggers on this class's turn.
	WildcardThresholdPct uint64
}

var classTable = [classCount]BaseStats{
	ClassWarrior:   {MaxHP: 120, DamageMin: 8, DamageMax: 15, CritPct: 15, DodgePct: 0, Defense: 5, WildcardThresholdPct: 8},
	ClassMage:      {MaxHP: 90, DamageMin: 12, DamageMax: 20, CritPct: 20, DodgePct: 5, Defense: 2, WildcardThresholdPct: 12},
	ClassRogue:     {MaxHP: 100, DamageMin: 10, DamageMax: 16, CritPct: 25, DodgePct: 20, Defense: 3, WildcardThresholdPct: 10},
	ClassPaladin:   {MaxHP: 140, DamageMin: 6, DamageMax: 12, CritPct: 10, DodgePct: 5, Defense: 8, WildcardThresholdPct: 6},
	ClassBerserker: {MaxHP: 110, DamageMin: 12, DamageMax: 22, CritPct: 20, DodgePct: 10, Defense: 2, WildcardThresholdPct: 14},
}

// ClassBaseStats returns the creation stat table entry for a class.
func ClassBaseStats(c Class) BaseStats {
	return classTable[c]
}

// Stat caps and upgrade economics.
const (
	CritCapPct      uint64 = 50
	DodgeCapPct     uint64 = 40
	UpgradeCostXP   uint64 = 100
	LevelXPFactor   uint64 = 200 // next level at xp >= level*200
	LevelMaxHPBonus uint64 = 10
	RatingInitial   uint64 = 1000
	RatingDelta     uint64 = 25
)

// UpgradeStat selects which stat an xp upgrade improves.
type UpgradeStat uint8

const (
	UpgradeHP UpgradeStat = iota
	UpgradeDamage
	UpgradeCrit
	UpgradeDodge
)

// Character is a playable fighter owned by an address. Mutated by battle
// turns, upgrades, xp grants and equip calls; never deleted.
type Character struct {
	ID            string
	Owner         string
	Name          string
	Class         Class
	Level         uint32
	XP            uint64
	MaxHP         uint64
	CurrentHP     uint64
	DamageMin     uint64
	DamageMax     uint64
	CritPct       uint64
	DodgePct      uint64
	Defense       uint64
	Wins          uint64
	Losses        uint64
	Rating        uint64
	WeaponID      string
	ArmorID       string
	AccessoryID   string
	SkillSlots    [3]SkillID
	LearnedSkills SkillSet
	Energy        uint8
	CreatedAt     time.Time
}

// NewCharacter creates a character with the class base-stat table applied.
func NewCharacter(id, owner, name string, class Class, now time.Time) *Character {
	base := ClassBaseStats(class)
	return &Character{
		ID:        id,
		Owner:     owner,
		Name:      name,
		Class:     class,
		Level:     1,
		MaxHP:     base.MaxHP,
		CurrentHP: base.MaxHP,
		DamageMin: base.DamageMin,
		DamageMax: base.DamageMax,
		CritPct:   base.CritPct,
		DodgePct:  base.DodgePct,
		Defense:   base.Defense,
		Rating:    RatingInitial,
		Energy:    EnergyMax,
		CreatedAt: now,
	}
}

// ApplyDamage reduces current HP, flooring at zero.
func (c *Character) ApplyDamage(amount uint64) {
	if amount >= c.CurrentHP {
		c.CurrentHP = 0
		return
	}
	c.CurrentHP -= amount
}

// Heal restores current HP, capped at max HP.
func (c *Character) Heal(amount uint64) {
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
}

// FullHeal restores current HP to max.
func (c *Character) FullHeal() {
	c.CurrentHP = c.MaxHP
}

// RegenEnergy adds energy, capped at EnergyMax.
func (c *Character) RegenEnergy(amount uint8) {
	if int(c.Energy)+int(amount) >= int(EnergyMax) {
		c.Energy = EnergyMax
		return
	}
	c.Energy += amount
}

// SpendEnergy deducts an energy cost if affordable.
func (c *Character) SpendEnergy(cost uint8) bool {
	if c.Energy < cost {
		return false
	}
	c.Energy -= cost
	return true
}

// ApplyUpgrade spends UpgradeCostXP and bumps one stat. Returns false if
// the character cannot afford the upgrade.
func (c *Character) ApplyUpgrade(stat UpgradeStat) bool {
	if c.XP < UpgradeCostXP {
		return false
	}
	c.XP -= UpgradeCostXP
	switch stat {
	case UpgradeHP:
		c.MaxHP += 10
		c.CurrentHP += 10
	case UpgradeDamage:
		c.DamageMin += 2
		c.DamageMax += 3
	case UpgradeCrit:
		c.CritPct += 5
		if c.CritPct > CritCapPct {
			c.CritPct = CritCapPct
		}
	case UpgradeDodge:
		c.DodgePct += 5
		if c.DodgePct > DodgeCapPct {
			c.DodgePct = DodgeCapPct
		}
	}
	return true
}

// GrantXP adds xp and auto-levels while the threshold is met, rolling the
// remainder forward. Returns the number of levels gained.
func (c *Character) GrantXP(amount uint64) uint32 {
	c.XP += amount
	var gained uint32
	for c.XP >= uint64(c.Level)*LevelXPFactor {
		c.XP -= uint64(c.Level) * LevelXPFactor
		c.Level++
		c.MaxHP += LevelMaxHPBonus
		c.CurrentHP += LevelMaxHPBonus
		gained++
	}
	return gained
}

// LevelDamageBonus is the flat per-level damage bonus applied on every hit.
func (c *Character) LevelDamageBonus() uint64 {
	return uint64(c.Level-1) * 2
}

// RecordWin and RecordLoss update the match record and rating.
func (c *Character) RecordWin() {
	c.Wins++
	c.Rating += RatingDelta
}

func (c *Character) RecordLoss() {
	c.Losses++
	if c.Rating < RatingDelta {
		c.Rating = 0
		return
	}
	c.Rating -= RatingDelta
}

// EquipmentIDs returns the three slot references in slot order.
func (c *Character) EquipmentIDs() [3]string {
	return [3]string{c.WeaponID, c.ArmorID, c.AccessoryID}
}
