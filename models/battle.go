package models

import "time"

// Side identifies one side of a battle. Zero means no side.
type Side uint8

const (
	SideNone Side = 0
	Side1    Side = 1
	Side2    Side = 2
)

// Other returns the opposing side.
func (s Side) Other() Side {
	switch s {
	case Side1:
		return Side2
	case Side2:
		return Side1
	}
	return SideNone
}

// Stance is the declared posture for a turn. It is validated and recorded
// on the turn notification but carries no stat modifier; damage modifiers
// come from statuses and skills.
type Stance uint8

const (
	StanceBalanced Stance = iota
	StanceAggressive
	StanceDefensive

	stanceCount = 3
)

func (s Stance) Valid() bool {
	return s < stanceCount
}

// WildcardType selects the fixed effect a wildcard resolves to when both
// sides accept. Any decline resolves to no effect.
type WildcardType uint8

const (
	WildcardNone WildcardType = iota
	// WildcardTruce heals both sides by 10% of max HP.
	WildcardTruce
	// WildcardBloodPact damages both sides by 10% of max HP, flooring at 1.
	WildcardBloodPact
	// WildcardSurge grants both sides 30 energy.
	WildcardSurge

	wildcardTypeCount = 4
)

// WildcardDecision is one side's pending answer to an active wildcard.
type WildcardDecision uint8

const (
	DecisionNone WildcardDecision = iota
	DecisionAccept
	DecisionDecline
)

// Wildcard is the sub-state of an in-flight wildcard event. It is either
// fully absent (Active false, both decisions none) or fully resolved
// before another wildcard can trigger.
type Wildcard struct {
	Active    bool
	Type      WildcardType
	Deadline  time.Time
	Decision1 WildcardDecision
	Decision2 WildcardDecision
}

// BothDecided reports whether both sides have answered.
func (w *Wildcard) BothDecided() bool {
	return w.Decision1 != DecisionNone && w.Decision2 != DecisionNone
}

// BothAccepted reports whether both sides accepted.
func (w *Wildcard) BothAccepted() bool {
	return w.Decision1 == DecisionAccept && w.Decision2 == DecisionAccept
}

// Reset clears the sub-state back to fully absent.
func (w *Wildcard) Reset() {
	*w = Wildcard{}
}

// ComboBonusThreshold is the streak length at which the combo damage bonus
// applies, and ComboBonusPct its magnitude in percent.
const (
	ComboBonusThreshold uint32 = 3
	ComboBonusPct       uint64 = 20
)

// Battle is a scripted turn-based fight between two characters. Mutated
// once per accepted turn call or wildcard decision; terminal once finished.
type Battle struct {
	ID        string
	Char1     string
	Char2     string
	Owner1    string
	Owner2    string
	StartAt   time.Time
	CreatedAt time.Time

	Turn     uint64
	TurnOf   Side
	Finished bool
	Winner   Side

	HP1 uint64
	HP2 uint64

	Wildcard Wildcard
	// Wildcards counts wildcards triggered across the battle. It feeds the
	// turn seed, so a turn retried after a wildcard resolves rolls fresh.
	Wildcards uint64

	Status1   StatusEffect
	Status2   StatusEffect
	Duration1 uint8
	Duration2 uint8

	Combo1 uint32
	Combo2 uint32

	Cooldowns1 [3]uint8
	Cooldowns2 [3]uint8

	Finalized bool
}

// NewBattle creates a battle between two existing characters, opening on
// side 1's turn with both sides at their characters' current HP.
func NewBattle(id string, c1, c2 *Character, startAt, now time.Time) *Battle {
	return &Battle{
		ID:        id,
		Char1:     c1.ID,
		Char2:     c2.ID,
		Owner1:    c1.Owner,
		Owner2:    c2.Owner,
		StartAt:   startAt,
		CreatedAt: now,
		Turn:      1,
		TurnOf:    Side1,
		HP1:       c1.CurrentHP,
		HP2:       c2.CurrentHP,
	}
}

// SideOf returns which side the character id fights on.
func (b *Battle) SideOf(characterID string) Side {
	switch characterID {
	case b.Char1:
		return Side1
	case b.Char2:
		return Side2
	}
	return SideNone
}

// OwnerOf returns the owner address for a side.
func (b *Battle) OwnerOf(side Side) string {
	if side == Side1 {
		return b.Owner1
	}
	return b.Owner2
}

// HP returns the current HP for a side.
func (b *Battle) HP(side Side) uint64 {
	if side == Side1 {
		return b.HP1
	}
	return b.HP2
}

// SetHP overwrites the current HP for a side.
func (b *Battle) SetHP(side Side, hp uint64) {
	if side == Side1 {
		b.HP1 = hp
		return
	}
	b.HP2 = hp
}

// Damage reduces a side's HP, flooring at zero.
func (b *Battle) Damage(side Side, amount uint64) {
	hp := b.HP(side)
	if amount >= hp {
		b.SetHP(side, 0)
		return
	}
	b.SetHP(side, hp-amount)
}

// Status returns the status mask and remaining duration for a side.
func (b *Battle) Status(side Side) (StatusEffect, uint8) {
	if side == Side1 {
		return b.Status1, b.Duration1
	}
	return b.Status2, b.Duration2
}

// ApplyStatus adds a status flag to a side, extending the shared duration
// counter if the new effect outlasts the current one.
func (b *Battle) ApplyStatus(side Side, effect StatusEffect, duration uint8) {
	if side == Side1 {
		b.Status1 = b.Status1.With(effect)
		if duration > b.Duration1 {
			b.Duration1 = duration
		}
		return
	}
	b.Status2 = b.Status2.With(effect)
	if duration > b.Duration2 {
		b.Duration2 = duration
	}
}

// TickStatus decrements a side's status duration, clearing the mask at
// zero.
func (b *Battle) TickStatus(side Side) {
	if side == Side1 {
		if b.Duration1 > 0 {
			b.Duration1--
		}
		if b.Duration1 == 0 {
			b.Status1 = StatusNone
		}
		return
	}
	if b.Duration2 > 0 {
		b.Duration2--
	}
	if b.Duration2 == 0 {
		b.Status2 = StatusNone
	}
}

// TickCooldowns decrements every skill-slot cooldown on both sides,
// flooring at zero.
func (b *Battle) TickCooldowns() {
	for i := range b.Cooldowns1 {
		if b.Cooldowns1[i] > 0 {
			b.Cooldowns1[i]--
		}
		if b.Cooldowns2[i] > 0 {
			b.Cooldowns2[i]--
		}
	}
}

// Cooldowns returns a pointer to a side's slot cooldowns.
func (b *Battle) Cooldowns(side Side) *[3]uint8 {
	if side == Side1 {
		return &b.Cooldowns1
	}
	return &b.Cooldowns2
}

// Combo returns a side's combo counter.
func (b *Battle) Combo(side Side) uint32 {
	if side == Side1 {
		return b.Combo1
	}
	return b.Combo2
}

// SetCombo overwrites a side's combo counter.
func (b *Battle) SetCombo(side Side, v uint32) {
	if side == Side1 {
		b.Combo1 = v
		return
	}
	b.Combo2 = v
}

// AdvanceTurn bumps the turn counter and flips whose turn it is.
func (b *Battle) AdvanceTurn() {
	b.Turn++
	b.TurnOf = b.TurnOf.Other()
}

// Finish marks the battle finished with the given winner. Idempotent
// guards live at the service layer; this only records terminal state.
func (b *Battle) Finish(winner Side) {
	b.Finished = true
	b.Winner = winner
}

// CheckFinished inspects both HP totals and finishes the battle if either
// side has dropped to zero. Side 1 is checked first so a simultaneous
// knockout awards side 2, matching the damage-before-DOT resolution order.
func (b *Battle) CheckFinished() bool {
	if b.Finished {
		return true
	}
	if b.HP1 == 0 {
		b.Finish(Side2)
		return true
	}
	if b.HP2 == 0 {
		b.Finish(Side1)
		return true
	}
	return false
}
