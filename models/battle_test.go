package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBattle(t *testing.T) *Battle {
	t.Helper()
	now := time.Now()
	c1 := NewCharacter("c1", "alice", "Brak", ClassWarrior, now)
	c2 := NewCharacter("c2", "bob", "Mira", ClassMage, now)
	return NewBattle("b1", c1, c2, now, now)
}

func TestNewBattle(t *testing.T) {
	b := newTestBattle(t)

	assert.Equal(t, uint64(120), b.HP1)
	assert.Equal(t, uint64(90), b.HP2)
	assert.Equal(t, Side1, b.TurnOf)
	assert.Equal(t, uint64(1), b.Turn)
	assert.False(t, b.Finished)
}

func TestBattle_SideOf(t *testing.T) {
	b := newTestBattle(t)

	assert.Equal(t, Side1, b.SideOf("c1"))
	assert.Equal(t, Side2, b.SideOf("c2"))
	assert.Equal(t, SideNone, b.SideOf("c3"))
}

func TestBattle_Damage_FloorsAtZero(t *testing.T) {
	b := newTestBattle(t)

	b.Damage(Side2, 50)
	assert.Equal(t, uint64(40), b.HP2)

	b.Damage(Side2, 1000)
	assert.Equal(t, uint64(0), b.HP2)
}

func TestBattle_ApplyStatus_MergesAndExtends(t *testing.T) {
	b := newTestBattle(t)

	b.ApplyStatus(Side2, StatusPoison, 3)
	b.ApplyStatus(Side2, StatusBurn, 2)

	status, duration := b.Status(Side2)
	assert.True(t, status.Has(StatusPoison))
	assert.True(t, status.Has(StatusBurn))
	assert.Equal(t, uint8(3), duration, "shorter effect must not shrink the counter")
}

func TestBattle_TickStatus_ClearsAtZero(t *testing.T) {
	b := newTestBattle(t)
	b.ApplyStatus(Side1, StatusStun, 1)

	b.TickStatus(Side1)
	status, duration := b.Status(Side1)
	assert.Equal(t, StatusNone, status)
	assert.Equal(t, uint8(0), duration)
}

func TestBattle_TickCooldowns(t *testing.T) {
	b := newTestBattle(t)
	b.Cooldowns1[0] = 2
	b.Cooldowns2[1] = 1

	b.TickCooldowns()
	assert.Equal(t, uint8(1), b.Cooldowns1[0])
	assert.Equal(t, uint8(0), b.Cooldowns2[1])

	b.TickCooldowns()
	assert.Equal(t, uint8(0), b.Cooldowns1[0])
}

func TestBattle_AdvanceTurn(t *testing.T) {
	b := newTestBattle(t)

	b.AdvanceTurn()
	assert.Equal(t, Side2, b.TurnOf)
	assert.Equal(t, uint64(2), b.Turn)

	b.AdvanceTurn()
	assert.Equal(t, Side1, b.TurnOf)
}

func TestBattle_CheckFinished(t *testing.T) {
	b := newTestBattle(t)
	assert.False(t, b.CheckFinished())

	b.HP2 = 0
	assert.True(t, b.CheckFinished())
	assert.Equal(t, Side1, b.Winner)
}

func TestBattle_CheckFinished_SimultaneousKO(t *testing.T) {
	b := newTestBattle(t)
	b.HP1 = 0
	b.HP2 = 0

	assert.True(t, b.CheckFinished())
	assert.Equal(t, Side2, b.Winner)
}

func TestWildcard_Decisions(t *testing.T) {
	w := Wildcard{Active: true, Type: WildcardTruce}
	assert.False(t, w.BothDecided())

	w.Decision1 = DecisionAccept
	assert.False(t, w.BothDecided())

	w.Decision2 = DecisionDecline
	assert.True(t, w.BothDecided())
	assert.False(t, w.BothAccepted())

	w.Decision2 = DecisionAccept
	assert.True(t, w.BothAccepted())

	w.Reset()
	assert.False(t, w.Active)
	assert.Equal(t, DecisionNone, w.Decision1)
}

func TestSkillCatalog(t *testing.T) {
	skill, ok := SkillByID(SkillPowerStrike)
	assert.True(t, ok)
	assert.Equal(t, uint64(150), skill.Effect.DamageMultPct)

	_, ok = SkillByID(0)
	assert.False(t, ok)

	heal, _ := SkillByID(SkillHeal)
	assert.NotZero(t, heal.Effect.HealPct)

	stun, _ := SkillByID(SkillStunBash)
	assert.Equal(t, StatusStun, stun.Effect.Applies)
	assert.False(t, stun.Effect.AppliesToSelf)

	wall, _ := SkillByID(SkillIronWall)
	assert.Equal(t, StatusShield, wall.Effect.Applies)
	assert.True(t, wall.Effect.AppliesToSelf)
}

func TestSkillSet(t *testing.T) {
	var set SkillSet
	assert.False(t, set.Has(SkillHeal))

	set = set.Add(SkillHeal)
	assert.True(t, set.Has(SkillHeal))
	assert.False(t, set.Has(SkillRampage))
}
