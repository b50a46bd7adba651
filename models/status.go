package models

import "strings"

// StatusEffect is a bitmask of active combat conditions on one side of a
// battle. A side carries at most one duration counter, shared by every
// active flag, matching how the battle record stores it.
type StatusEffect uint8

const (
	StatusNone   StatusEffect = 0
	StatusPoison StatusEffect = 1 << 0 // 5% of max HP per turn
	StatusBurn   StatusEffect = 1 << 1 // 8% of max HP per turn
	StatusStun   StatusEffect = 1 << 2 // skip the damage phase
	StatusRage   StatusEffect = 1 << 3 // +50% outgoing damage
	StatusShield StatusEffect = 1 << 4 // -30% incoming damage
)

// Has reports whether the given flag is set.
func (s StatusEffect) Has(flag StatusEffect) bool {
	return s&flag != 0
}

// With returns the mask with flag added.
func (s StatusEffect) With(flag StatusEffect) StatusEffect {
	return s | flag
}

// PoisonDamagePct and BurnDamagePct are the per-turn damage-over-time
// fractions, in percent of max HP.
const (
	PoisonDamagePct uint64 = 5
	BurnDamagePct   uint64 = 8
)

func (s StatusEffect) String() string {
	if s == StatusNone {
		return "none"
	}
	var parts []string
	if s.Has(StatusPoison) {
		parts = append(parts, "poison")
	}
	if s.Has(StatusBurn) {
		parts = append(parts, "burn")
	}
	if s.Has(StatusStun) {
		parts = append(parts, "stun")
	}
	if s.Has(StatusRage) {
		parts = append(parts, "rage")
	}
	if s.Has(StatusShield) {
		parts = append(parts, "shield")
	}
	return strings.Join(parts, "|")
}
