package models

import "time"

// EquipmentType selects which character slot an item occupies.
type EquipmentType uint8

const (
	EquipmentWeapon EquipmentType = iota
	EquipmentArmor
	EquipmentAccessory

	equipmentTypeCount = 3
)

func (t EquipmentType) Valid() bool {
	return t < equipmentTypeCount
}

func (t EquipmentType) String() string {
	switch t {
	case EquipmentWeapon:
		return "weapon"
	case EquipmentArmor:
		return "armor"
	case EquipmentAccessory:
		return "accessory"
	}
	return "unknown"
}

// Rarity is the equipment rarity tier. Stat bonuses are a pure function of
// rarity and type at mint time.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary

	rarityCount = 4
)

func (r Rarity) Valid() bool {
	return r < rarityCount
}

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	}
	return "unknown"
}

// StatBonus is an additive stat contribution from one equipped item.
type StatBonus struct {
	DamageMin uint64
	DamageMax uint64
	CritPct   uint64
	DodgePct  uint64
}

// Add accumulates another bonus into this one.
func (b *StatBonus) Add(o StatBonus) {
	b.DamageMin += o.DamageMin
	b.DamageMax += o.DamageMax
	b.CritPct += o.CritPct
	b.DodgePct += o.DodgePct
}

// rarityTable holds the fixed per-rarity magnitudes. The equipment type
// selects which stat the magnitude lands on: weapons add damage, armor
// adds dodge, accessories add crit.
var rarityTable = [rarityCount]struct {
	damageMin, damageMax, crit, dodge uint64
}{
	RarityCommon:    {damageMin: 1, damageMax: 1, crit: 1, dodge: 1},
	RarityRare:      {damageMin: 2, damageMax: 3, crit: 3, dodge: 2},
	RarityEpic:      {damageMin: 4, damageMax: 6, crit: 5, dodge: 4},
	RarityLegendary: {damageMin: 7, damageMax: 10, crit: 8, dodge: 6},
}

// Equipment is an admin-minted, owner-transferable item referenced by
// character slots. Equip and unequip never delete the item itself.
type Equipment struct {
	ID            string
	Owner         string
	Type          EquipmentType
	Rarity        Rarity
	Durability    uint32
	MaxDurability uint32
	CreatedAt     time.Time
}

// NewEquipment mints an item with durability fixed by rarity.
func NewEquipment(id, owner string, typ EquipmentType, rarity Rarity, now time.Time) *Equipment {
	durability := uint32(50) * uint32(rarity+1)
	return &Equipment{
		ID:            id,
		Owner:         owner,
		Type:          typ,
		Rarity:        rarity,
		Durability:    durability,
		MaxDurability: durability,
		CreatedAt:     now,
	}
}

// Bonus returns the item's additive stat contribution.
func (e *Equipment) Bonus() StatBonus {
	row := rarityTable[e.Rarity]
	switch e.Type {
	case EquipmentWeapon:
		return StatBonus{DamageMin: row.damageMin, DamageMax: row.damageMax}
	case EquipmentArmor:
		return StatBonus{DodgePct: row.dodge}
	case EquipmentAccessory:
		return StatBonus{CritPct: row.crit}
	}
	return StatBonus{}
}
