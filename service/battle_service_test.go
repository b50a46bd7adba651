package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arenabet/models"
)

func TestCreateBattleValidations(t *testing.T) {
	f := newFixture(t)
	_, err := f.characters.CreateCharacter(f.ctx, "alice", "c1", models.ClassWarrior, "Brak")
	require.NoError(t, err)
	_, err = f.characters.CreateCharacter(f.ctx, "bob", "c2", models.ClassWarrior, "Grom")
	require.NoError(t, err)

	_, err = f.battleSvc.CreateBattle(f.ctx, "alice", "b1", "c1", "c1", f.now)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = f.battleSvc.CreateBattle(f.ctx, "bob", "b1", "c1", "c2", f.now)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = f.battleSvc.CreateBattle(f.ctx, "alice", "b1", "c1", "c2", f.now)
	require.NoError(t, err)

	_, err = f.battleSvc.CreateBattle(f.ctx, "alice", "b1", "c1", "c2", f.now)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

// fixedSource(99) rolls 99 everywhere: no wildcard, no crit, no dodge,
// and a damage roll of 99%8=3 above the warrior minimum.
func TestTurnResolvesDamage(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)
	f.battleSvc.rand = fixedSource(99)

	res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{
		BattleID:    "b1",
		CharacterID: "c1",
		Stance:      models.StanceAggressive,
	})
	require.NoError(t, err)

	// 8 + 3 roll - 5 defense.
	assert.Equal(t, uint64(6), res.Damage)
	assert.False(t, res.Crit)
	assert.False(t, res.Dodged)
	assert.False(t, res.Finished)
	assert.Equal(t, uint64(120), res.Battle.HP1)
	assert.Equal(t, uint64(114), res.Battle.HP2)
	assert.Equal(t, models.Side2, res.Battle.TurnOf)
	assert.Equal(t, uint64(2), res.Battle.Turn)
	assert.Equal(t, uint32(1), res.Battle.Combo1)

	// HP mirrors back onto the character record.
	c2, err := f.characters.GetCharacter(f.ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, uint64(114), c2.CurrentHP)
}

func TestTurnDeterministicReplay(t *testing.T) {
	run := func(t *testing.T) *models.Battle {
		f := newFixture(t)
		f.newWarriors(t)
		for i := 0; i < 4; i++ {
			caller, char := "alice", "c1"
			if i%2 == 1 {
				caller, char = "bob", "c2"
			}
			res, err := f.battleSvc.Turn(f.ctx, caller, TurnInput{
				BattleID:    "b1",
				CharacterID: char,
				Stance:      models.StanceBalanced,
			})
			require.NoError(t, err)
			if res.WildcardTriggered {
				require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, caller, "b1", char, false))
				other, otherChar := "bob", "c2"
				if caller == "bob" {
					other, otherChar = "alice", "c1"
				}
				require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, other, "b1", otherChar, false))
			}
		}
		battle, err := f.battleSvc.GetBattle(f.ctx, "b1")
		require.NoError(t, err)
		return battle
	}

	first := run(t)
	second := run(t)
	assert.Equal(t, first, second)
}

func TestTurnValidations(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)
	f.battleSvc.rand = fixedSource(99)

	// Not bob's turn.
	_, err := f.battleSvc.Turn(f.ctx, "bob", TurnInput{BattleID: "b1", CharacterID: "c2", Stance: models.StanceBalanced})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	// Caller does not own the acting character.
	_, err = f.battleSvc.Turn(f.ctx, "bob", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// Character not in the battle.
	_, err = f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c9", Stance: models.StanceBalanced})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	// Garbage stance.
	_, err = f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.Stance(9)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestTurnBeforeStart(t *testing.T) {
	f := newFixture(t)
	_, err := f.characters.CreateCharacter(f.ctx, "alice", "c1", models.ClassWarrior, "Brak")
	require.NoError(t, err)
	_, err = f.characters.CreateCharacter(f.ctx, "bob", "c2", models.ClassWarrior, "Grom")
	require.NoError(t, err)
	_, err = f.battleSvc.CreateBattle(f.ctx, "alice", "b1", "c1", "c2", f.now.Add(time.Hour))
	require.NoError(t, err)
	f.battleSvc.rand = fixedSource(99)

	_, err = f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	f.advance(time.Hour)
	_, err = f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	assert.NoError(t, err)
}

func TestTurnSkillPowerStrike(t *testing.T) {
	f := newFixture(t)
	_, err := f.characters.CreateCharacter(f.ctx, "alice", "c1", models.ClassWarrior, "Brak")
	require.NoError(t, err)
	require.NoError(t, f.characters.LearnSkill(f.ctx, "alice", "c1", models.SkillPowerStrike))
	require.NoError(t, f.characters.SetSkillSlot(f.ctx, "alice", "c1", 0, models.SkillPowerStrike))
	_, err = f.characters.CreateCharacter(f.ctx, "bob", "c2", models.ClassWarrior, "Grom")
	require.NoError(t, err)
	_, err = f.battleSvc.CreateBattle(f.ctx, "alice", "b1", "c1", "c2", f.now)
	require.NoError(t, err)
	f.battleSvc.rand = fixedSource(99)

	res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{
		BattleID:    "b1",
		CharacterID: "c1",
		Stance:      models.StanceAggressive,
		UseSpecial:  true,
		SkillSlot:   0,
	})
	require.NoError(t, err)

	// (8 + 3) * 150% = 16, minus 5 defense.
	assert.Equal(t, uint64(11), res.Damage)
	assert.Equal(t, uint64(109), res.Battle.HP2)
	// Cooldown 2 was set, then ticked once at end of turn.
	assert.Equal(t, uint8(1), res.Battle.Cooldowns1[0])

	// Energy: 100 - 25 cost + 10 regen, capped at 100.
	c1, err := f.characters.GetCharacter(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, uint8(85), c1.Energy)
}

func TestTurnSkillFailureAbortsTurn(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)
	f.battleSvc.rand = fixedSource(99)

	// Empty slot.
	_, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{
		BattleID:    "b1",
		CharacterID: "c1",
		Stance:      models.StanceBalanced,
		UseSpecial:  true,
		SkillSlot:   0,
	})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	// Nothing moved: failed skill use consumes no turn.
	battle, err := f.battleSvc.GetBattle(f.ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), battle.Turn)
	assert.Equal(t, models.Side1, battle.TurnOf)
	assert.Equal(t, uint64(120), battle.HP2)
}

func TestTurnStunSkipsDamagePhase(t *testing.T) {
	f := newFixture(t)
	battle := f.newWarriors(t)
	f.battleSvc.rand = fixedSource(99)

	battle.ApplyStatus(models.Side1, models.StatusStun, 2)
	require.NoError(t, f.battles.Save(f.ctx, battle))

	res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{
		BattleID:    "b1",
		CharacterID: "c1",
		Stance:      models.StanceBalanced,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), res.Damage)
	assert.Equal(t, uint64(120), res.Battle.HP1)
	assert.Equal(t, uint64(120), res.Battle.HP2)
	// The turn still passes and the stun ticks down.
	assert.Equal(t, models.Side2, res.Battle.TurnOf)
	assert.Equal(t, uint64(2), res.Battle.Turn)
	assert.Equal(t, uint8(1), res.Battle.Duration1)
	assert.True(t, res.Battle.Status1.Has(models.StatusStun))
}

func TestTurnKnockoutAndFinalize(t *testing.T) {
	f := newFixture(t)
	battle := f.newWarriors(t)
	f.battleSvc.rand = fixedSource(99)

	battle.HP2 = 5
	require.NoError(t, f.battles.Save(f.ctx, battle))

	res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{
		BattleID:    "b1",
		CharacterID: "c1",
		Stance:      models.StanceAggressive,
	})
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Equal(t, models.Side1, res.Battle.Winner)
	assert.Equal(t, uint64(0), res.Battle.HP2)

	// No more turns on a finished battle.
	_, err = f.battleSvc.Turn(f.ctx, "bob", TurnInput{BattleID: "b1", CharacterID: "c2", Stance: models.StanceBalanced})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	require.NoError(t, f.battleSvc.Finalize(f.ctx, "b1"))

	c1, err := f.characters.GetCharacter(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c1.Wins)
	assert.Equal(t, uint64(1025), c1.Rating)
	assert.Equal(t, c1.MaxHP, c1.CurrentHP)

	c2, err := f.characters.GetCharacter(f.ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c2.Losses)
	assert.Equal(t, uint64(975), c2.Rating)
	assert.Equal(t, c2.MaxHP, c2.CurrentHP)

	err = f.battleSvc.Finalize(f.ctx, "b1")
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestFinalizeRequiresFinished(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)

	err := f.battleSvc.Finalize(f.ctx, "b1")
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

// fixedSource(0) rolls under every wildcard threshold, and picks
// type 1+0%3 = truce.
func TestWildcardTriggerAndTruce(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)

	// First turn lands normally so the truce has something to heal.
	f.battleSvc.rand = fixedSource(99)
	_, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	require.NoError(t, err)

	f.battleSvc.rand = fixedSource(0)
	res, err := f.battleSvc.Turn(f.ctx, "bob", TurnInput{BattleID: "b1", CharacterID: "c2", Stance: models.StanceBalanced})
	require.NoError(t, err)
	assert.True(t, res.WildcardTriggered)
	assert.True(t, res.Battle.Wildcard.Active)
	assert.Equal(t, models.WildcardTruce, res.Battle.Wildcard.Type)
	// The wildcard consumes the call without resolving the turn.
	assert.Equal(t, uint64(2), res.Battle.Turn)
	assert.Equal(t, models.Side2, res.Battle.TurnOf)

	// Turns are rejected while the decision is pending.
	_, err = f.battleSvc.Turn(f.ctx, "bob", TurnInput{BattleID: "b1", CharacterID: "c2", Stance: models.StanceBalanced})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "alice", "b1", "c1", true))
	require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "bob", "b1", "c2", true))

	battle, err := f.battleSvc.GetBattle(f.ctx, "b1")
	require.NoError(t, err)
	assert.False(t, battle.Wildcard.Active)
	// Side 2 took 6 damage, healed 10% of 120 back to full.
	assert.Equal(t, uint64(120), battle.HP2)
	assert.Equal(t, uint64(120), battle.HP1)
}

func TestWildcardDeclineHasNoEffect(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)
	f.battleSvc.rand = fixedSource(0)

	_, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	require.NoError(t, err)

	require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "alice", "b1", "c1", true))

	// Double-decide on the same side is rejected.
	err = f.battleSvc.DecideWildcard(f.ctx, "alice", "b1", "c1", false)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "bob", "b1", "c2", false))

	battle, err := f.battleSvc.GetBattle(f.ctx, "b1")
	require.NoError(t, err)
	assert.False(t, battle.Wildcard.Active)
	assert.Equal(t, uint64(120), battle.HP1)
	assert.Equal(t, uint64(120), battle.HP2)
}

// fixedSource(1) triggers a wildcard with type 1+1%3 = blood pact.
func TestWildcardBloodPactFloorsAtOne(t *testing.T) {
	f := newFixture(t)
	battle := f.newWarriors(t)

	battle.HP1 = 5
	require.NoError(t, f.battles.Save(f.ctx, battle))

	f.battleSvc.rand = fixedSource(1)
	res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	require.NoError(t, err)
	require.True(t, res.WildcardTriggered)
	require.Equal(t, models.WildcardBloodPact, res.Battle.Wildcard.Type)

	require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "alice", "b1", "c1", true))
	require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "bob", "b1", "c2", true))

	battle, err = f.battleSvc.GetBattle(f.ctx, "b1")
	require.NoError(t, err)
	// 10% of 120 bled from both, but never to zero.
	assert.Equal(t, uint64(1), battle.HP1)
	assert.Equal(t, uint64(108), battle.HP2)
	assert.False(t, battle.Finished)
}

func TestWildcardDeadline(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)
	f.battleSvc.rand = fixedSource(0)

	_, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	require.NoError(t, err)

	f.advance(2 * time.Minute)
	err = f.battleSvc.DecideWildcard(f.ctx, "alice", "b1", "c1", true)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

// Turn seeds fold in the battle's wildcard counter, so a turn retried
// after a declined wildcard rolls fresh instead of re-deriving the seed
// that triggered it.
func TestTurnRetryAfterWildcardRollsFresh(t *testing.T) {
	f := newFixture(t)

	// Scan under the production mixer for a battle whose opening turn
	// triggers a wildcard. Fresh characters per candidate keep every
	// opening turn at full HP.
	var battleID, char1, char2 string
	for i := 0; i < 200 && battleID == ""; i++ {
		c1 := fmt.Sprintf("wc%d-1", i)
		c2 := fmt.Sprintf("wc%d-2", i)
		_, err := f.characters.CreateCharacter(f.ctx, "alice", c1, models.ClassWarrior, "Brak")
		require.NoError(t, err)
		_, err = f.characters.CreateCharacter(f.ctx, "bob", c2, models.ClassWarrior, "Grom")
		require.NoError(t, err)

		id := fmt.Sprintf("wc-%d", i)
		_, err = f.battleSvc.CreateBattle(f.ctx, "alice", id, c1, c2, f.now)
		require.NoError(t, err)

		res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: id, CharacterID: c1, Stance: models.StanceBalanced})
		require.NoError(t, err)
		if res.WildcardTriggered {
			battleID, char1, char2 = id, c1, c2
		}
	}
	require.NotEmpty(t, battleID, "no opening turn triggered a wildcard")

	// Decline and retry until the turn lands. Each declined wildcard must
	// move the seed along, so the 8%-per-draw trigger cannot repeat for
	// sixteen straight retries.
	retriggers := 0
	for ; retriggers < 16; retriggers++ {
		require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "alice", battleID, char1, false))
		require.NoError(t, f.battleSvc.DecideWildcard(f.ctx, "bob", battleID, char2, false))

		res, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: battleID, CharacterID: char1, Stance: models.StanceBalanced})
		require.NoError(t, err)
		if !res.WildcardTriggered {
			break
		}
	}

	battle, err := f.battleSvc.GetBattle(f.ctx, battleID)
	require.NoError(t, err)
	assert.False(t, battle.Wildcard.Active)
	assert.Equal(t, uint64(2), battle.Turn)
	assert.Equal(t, models.Side2, battle.TurnOf)
	assert.Equal(t, uint64(retriggers+1), battle.Wildcards)
}

func TestExpireWildcards(t *testing.T) {
	f := newFixture(t)
	f.newWarriors(t)
	f.battleSvc.rand = fixedSource(0)

	_, err := f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	require.NoError(t, err)

	// Nothing overdue yet.
	resolved, err := f.battleSvc.ExpireWildcards(f.ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)

	f.advance(2 * time.Minute)
	resolved, err = f.battleSvc.ExpireWildcards(f.ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	// Silence counts as a decline: no effect, battle playable again.
	battle, err := f.battleSvc.GetBattle(f.ctx, "b1")
	require.NoError(t, err)
	assert.False(t, battle.Wildcard.Active)
	assert.Equal(t, uint64(120), battle.HP1)

	f.battleSvc.rand = fixedSource(99)
	_, err = f.battleSvc.Turn(f.ctx, "alice", TurnInput{BattleID: "b1", CharacterID: "c1", Stance: models.StanceBalanced})
	assert.NoError(t, err)
}
