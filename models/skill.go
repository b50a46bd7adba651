package models

// SkillID identifies a skill in the fixed catalog. Zero means no skill.
type SkillID uint8

const (
	SkillNone        SkillID = 0
	SkillPowerStrike SkillID = 1
	SkillHeal        SkillID = 2
	SkillPoisonBlade SkillID = 3
	SkillStunBash    SkillID = 4
	SkillFlameSlash  SkillID = 5
	SkillFocusStrike SkillID = 6
	SkillRampage     SkillID = 7
	SkillWarCry      SkillID = 8
	SkillIronWall    SkillID = 9

	skillMax SkillID = 9
)

// SkillEffect describes what a skill does when it resolves on a turn.
// Exactly one of the effect fields is meaningful per skill; the catalog is
// fixed and never read from storage.
type SkillEffect struct {
	// DamageMultPct scales outgoing damage this turn, in percent.
	// 100 means unchanged.
	DamageMultPct uint64
	// HealPct heals the attacker by this percent of max HP.
	HealPct uint64
	// Applies is a status effect applied when the skill resolves.
	Applies StatusEffect
	// AppliesToSelf directs Applies at the attacker instead of the defender.
	AppliesToSelf bool
	// ApplyDuration is the duration, in turns, for Applies.
	ApplyDuration uint8
	// ForceCrit guarantees the crit roll this turn.
	ForceCrit bool
	// ResetCombo clears the attacker's own combo counter when the skill
	// resolves (Rampage trades the streak for raw damage).
	ResetCombo bool
}

// Skill is one entry of the fixed skill catalog.
type Skill struct {
	ID         SkillID
	Name       string
	EnergyCost uint8
	Cooldown   uint8
	MinLevel   uint32
	Effect     SkillEffect
}

var skillCatalog = map[SkillID]Skill{
	SkillPowerStrike: {ID: SkillPowerStrike, Name: "Power Strike", EnergyCost: 25, Cooldown: 2, MinLevel: 1,
		Effect: SkillEffect{DamageMultPct: 150}},
	SkillHeal: {ID: SkillHeal, Name: "Heal", EnergyCost: 40, Cooldown: 4, MinLevel: 2,
		Effect: SkillEffect{DamageMultPct: 100, HealPct: 30}},
	SkillPoisonBlade: {ID: SkillPoisonBlade, Name: "Poison Blade", EnergyCost: 30, Cooldown: 3, MinLevel: 3,
		Effect: SkillEffect{DamageMultPct: 100, Applies: StatusPoison, ApplyDuration: 3}},
	SkillStunBash: {ID: SkillStunBash, Name: "Stun Bash", EnergyCost: 50, Cooldown: 5, MinLevel: 4,
		Effect: SkillEffect{DamageMultPct: 100, Applies: StatusStun, ApplyDuration: 1}},
	SkillFlameSlash: {ID: SkillFlameSlash, Name: "Flame Slash", EnergyCost: 35, Cooldown: 3, MinLevel: 3,
		Effect: SkillEffect{DamageMultPct: 120, Applies: StatusBurn, ApplyDuration: 2}},
	SkillFocusStrike: {ID: SkillFocusStrike, Name: "Focus Strike", EnergyCost: 30, Cooldown: 3, MinLevel: 2,
		Effect: SkillEffect{DamageMultPct: 100, ForceCrit: true}},
	SkillRampage: {ID: SkillRampage, Name: "Rampage", EnergyCost: 45, Cooldown: 5, MinLevel: 5,
		Effect: SkillEffect{DamageMultPct: 200, ResetCombo: true}},
	SkillWarCry: {ID: SkillWarCry, Name: "War Cry", EnergyCost: 20, Cooldown: 4, MinLevel: 2,
		Effect: SkillEffect{DamageMultPct: 100, Applies: StatusRage, AppliesToSelf: true, ApplyDuration: 2}},
	SkillIronWall: {ID: SkillIronWall, Name: "Iron Wall", EnergyCost: 20, Cooldown: 4, MinLevel: 2,
		Effect: SkillEffect{DamageMultPct: 100, Applies: StatusShield, AppliesToSelf: true, ApplyDuration: 2}},
}

// SkillByID looks up a skill in the catalog.
func SkillByID(id SkillID) (Skill, bool) {
	s, ok := skillCatalog[id]
	return s, ok
}

// EnergyMax is the energy cap for every character.
const EnergyMax uint8 = 100

// EnergyRegenPerTurn is the flat per-turn energy regeneration for both
// sides of a battle.
const EnergyRegenPerTurn uint8 = 10

// SkillSet is a fixed-size set of learned skill ids, stored as a bitset so
// membership checks are O(1) and the encoded form is a single integer.
type SkillSet uint64

// Has reports whether id is in the set.
func (ss SkillSet) Has(id SkillID) bool {
	if id == SkillNone || id > skillMax {
		return false
	}
	return ss&(1<<uint(id)) != 0
}

// Add returns the set with id added.
func (ss SkillSet) Add(id SkillID) SkillSet {
	if id == SkillNone || id > skillMax {
		return ss
	}
	return ss | (1 << uint(id))
}

// Count returns the number of learned skills.
func (ss SkillSet) Count() int {
	n := 0
	for id := SkillID(1); id <= skillMax; id++ {
		if ss.Has(id) {
			n++
		}
	}
	return n
}
