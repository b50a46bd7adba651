package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"arenabet/events"
	"arenabet/models"
	"arenabet/rng"
)

// TurnInput is one turn call: who acts, their declared stance, and an
// optional skill selection from the acting side's equipped slots.
type TurnInput struct {
	BattleID    string
	CharacterID string
	Stance      models.Stance
	UseSpecial  bool
	SkillSlot   int
}

// TurnResult reports what one resolved turn did.
type TurnResult struct {
	Battle            *models.Battle
	WildcardTriggered bool
	Damage            uint64
	Crit              bool
	Dodged            bool
	Finished          bool
}

// BattleService runs the turn-resolution state machine.
type BattleService struct {
	battles    BattleRepository
	characters CharacterRepository
	equipment  EquipmentRepository
	guard      *GuardService
	publisher  EventPublisher
	rand       rng.Source
	// wildcardWindow is how long both sides have to answer a wildcard.
	wildcardWindow time.Duration
	now            func() time.Time
}

// NewBattleService creates a battle service.
func NewBattleService(
	battles BattleRepository,
	characters CharacterRepository,
	equipment EquipmentRepository,
	guard *GuardService,
	publisher EventPublisher,
	rand rng.Source,
	wildcardWindow time.Duration,
) *BattleService {
	return &BattleService{
		battles:        battles,
		characters:     characters,
		equipment:      equipment,
		guard:          guard,
		publisher:      publisher,
		rand:           rand,
		wildcardWindow: wildcardWindow,
		now:            time.Now,
	}
}

// CreateBattle creates a battle between two existing characters. The
// caller must own side 1's character.
func (s *BattleService) CreateBattle(ctx context.Context, caller, id, char1ID, char2ID string, startAt time.Time) (*models.Battle, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if id == "" {
		return nil, fmt.Errorf("battle id is required: %w", models.ErrInvalidArgument)
	}
	if char1ID == char2ID {
		return nil, fmt.Errorf("a character cannot fight itself: %w", models.ErrInvalidArgument)
	}
	exists, err := s.battles.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check battle id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("battle %s: %w", id, models.ErrAlreadyExists)
	}

	c1, err := s.characters.GetByID(ctx, char1ID)
	if err != nil {
		return nil, err
	}
	c2, err := s.characters.GetByID(ctx, char2ID)
	if err != nil {
		return nil, err
	}
	if c1.Owner != caller {
		return nil, fmt.Errorf("caller does not own character %s: %w", char1ID, models.ErrUnauthorized)
	}

	battle := models.NewBattle(id, c1, c2, startAt, s.now())
	if err := s.battles.Create(ctx, battle); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.BattleCreatedEvent{
		BattleID: id,
		Char1:    char1ID,
		Char2:    char2ID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish battle created event")
	}
	return battle, nil
}

// Turn resolves one battle turn, or flips the battle into the
// wildcard-pending sub-state and returns without resolving damage.
func (s *BattleService) Turn(ctx context.Context, caller string, in TurnInput) (*TurnResult, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	battle, err := s.battles.GetByID(ctx, in.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Finished {
		return nil, fmt.Errorf("battle %s is finished: %w", in.BattleID, models.ErrInvalidState)
	}
	if battle.Wildcard.Active {
		return nil, fmt.Errorf("battle %s has a pending wildcard: %w", in.BattleID, models.ErrInvalidState)
	}
	now := s.now()
	if now.Before(battle.StartAt) {
		return nil, fmt.Errorf("battle %s has not started: %w", in.BattleID, models.ErrInvalidState)
	}
	if !in.Stance.Valid() {
		return nil, fmt.Errorf("stance %d: %w", in.Stance, models.ErrInvalidArgument)
	}

	side := battle.SideOf(in.CharacterID)
	if side == models.SideNone {
		return nil, fmt.Errorf("character %s is not in battle %s: %w", in.CharacterID, in.BattleID, models.ErrInvalidArgument)
	}
	if battle.OwnerOf(side) != caller {
		return nil, fmt.Errorf("caller does not own character %s: %w", in.CharacterID, models.ErrUnauthorized)
	}
	if battle.TurnOf != side {
		return nil, fmt.Errorf("not side %d's turn in battle %s: %w", side, in.BattleID, models.ErrInvalidState)
	}

	attacker, err := s.characters.GetByID(ctx, in.CharacterID)
	if err != nil {
		return nil, err
	}
	defenderID := battle.Char1
	if side == models.Side1 {
		defenderID = battle.Char2
	}
	defender, err := s.characters.GetByID(ctx, defenderID)
	if err != nil {
		return nil, err
	}

	// Seeds derive only from committed battle state so replays with the
	// same inputs resolve identically.
	seed := rng.TurnSeed(battle.ID, battle.CreatedAt, battle.Turn, battle.Wildcards)

	// Wildcard roll: consume this call without resolving damage. The
	// trigger bumps the wildcard counter so retrying the turn after the
	// wildcard resolves derives a fresh seed.
	if rng.Pct(s.rand.Roll(seed)) < models.ClassBaseStats(attacker.Class).WildcardThresholdPct {
		wcType := models.WildcardType(1 + rng.Range(s.rand.Roll(seed+1), 2))
		battle.Wildcards++
		battle.Wildcard = models.Wildcard{
			Active:   true,
			Type:     wcType,
			Deadline: now.Add(s.wildcardWindow),
		}
		if err := s.battles.Save(ctx, battle); err != nil {
			return nil, err
		}
		if err := s.publisher.Publish(events.WildcardTriggeredEvent{
			BattleID: battle.ID,
			Wildcard: wcType,
		}); err != nil {
			log.WithError(err).Error("Failed to publish wildcard triggered event")
		}
		return &TurnResult{Battle: battle, WildcardTriggered: true}, nil
	}

	atkBonus, err := s.equipBonus(ctx, attacker)
	if err != nil {
		return nil, err
	}
	defBonus, err := s.equipBonus(ctx, defender)
	if err != nil {
		return nil, err
	}

	// Skill resolution.
	damageMultPct := uint64(100)
	forceCrit := false
	if in.UseSpecial {
		if err := s.resolveSkill(battle, attacker, side, in.SkillSlot, &damageMultPct, &forceCrit); err != nil {
			return nil, err
		}
	}

	// Energy regeneration for both sides.
	attacker.RegenEnergy(models.EnergyRegenPerTurn)
	defender.RegenEnergy(models.EnergyRegenPerTurn)

	atkStatus, _ := battle.Status(side)
	if atkStatus.Has(models.StatusStun) {
		// Stunned: no damage phase. The stun ticks down and the turn
		// still passes to the other side.
		battle.TickStatus(side)
		battle.AdvanceTurn()
		if err := s.persistTurn(ctx, battle, attacker, defender); err != nil {
			return nil, err
		}
		s.publishTurn(battle, side, in.Stance, 0, false, false)
		return &TurnResult{Battle: battle}, nil
	}

	// Damage resolution.
	damage, crit, dodged := s.resolveDamage(battle, attacker, defender, side, atkBonus, defBonus, seed, damageMultPct, forceCrit)

	defSide := side.Other()
	battle.Damage(defSide, damage)

	// Combo bookkeeping: a landed hit extends the attacker's streak and
	// breaks the defender's; a miss breaks the attacker's.
	if !dodged && damage > 0 {
		battle.SetCombo(side, battle.Combo(side)+1)
		battle.SetCombo(defSide, 0)
	} else {
		battle.SetCombo(side, 0)
	}

	// Damage over time on both sides.
	s.applyDOT(battle, models.Side1, attacker, defender)
	s.applyDOT(battle, models.Side2, attacker, defender)

	battle.TickStatus(models.Side1)
	battle.TickStatus(models.Side2)
	battle.TickCooldowns()

	battle.AdvanceTurn()

	finished := battle.CheckFinished()
	if err := s.persistTurn(ctx, battle, attacker, defender); err != nil {
		return nil, err
	}

	s.publishTurn(battle, side, in.Stance, damage, crit, dodged)
	if finished {
		if err := s.publisher.Publish(events.BattleFinishedEvent{
			BattleID: battle.ID,
			Winner:   battle.Winner,
		}); err != nil {
			log.WithError(err).Error("Failed to publish battle finished event")
		}
	}

	return &TurnResult{
		Battle:   battle,
		Damage:   damage,
		Crit:     crit,
		Dodged:   dodged,
		Finished: finished,
	}, nil
}

// equipBonus accumulates the stat bonuses of everything the character
// has equipped.
func (s *BattleService) equipBonus(ctx context.Context, c *models.Character) (models.StatBonus, error) {
	var total models.StatBonus
	for _, itemID := range []string{c.WeaponID, c.ArmorID, c.AccessoryID} {
		if itemID == "" {
			continue
		}
		item, err := s.equipment.GetByID(ctx, itemID)
		if err != nil {
			return models.StatBonus{}, fmt.Errorf("failed to load equipment %s: %w", itemID, err)
		}
		total.Add(item.Bonus())
	}
	return total, nil
}

// resolveSkill validates and applies the selected skill's fixed effect.
// An explicit skill request that cannot be satisfied aborts the turn.
func (s *BattleService) resolveSkill(battle *models.Battle, attacker *models.Character, side models.Side, slot int, damageMultPct *uint64, forceCrit *bool) error {
	if slot < 0 || slot >= len(attacker.SkillSlots) {
		return fmt.Errorf("skill slot %d: %w", slot, models.ErrInvalidArgument)
	}
	skillID := attacker.SkillSlots[slot]
	skill, ok := models.SkillByID(skillID)
	if !ok {
		return fmt.Errorf("skill slot %d is empty: %w", slot, models.ErrInvalidArgument)
	}
	cooldowns := battle.Cooldowns(side)
	if cooldowns[slot] > 0 {
		return fmt.Errorf("skill %s on cooldown for %d turns: %w", skill.Name, cooldowns[slot], models.ErrInvalidState)
	}
	if !attacker.SpendEnergy(skill.EnergyCost) {
		return fmt.Errorf("skill %s needs %d energy, have %d: %w",
			skill.Name, skill.EnergyCost, attacker.Energy, models.ErrInvalidState)
	}

	effect := skill.Effect
	if effect.DamageMultPct > 0 {
		*damageMultPct = effect.DamageMultPct
	}
	if effect.HealPct > 0 {
		heal := models.MulDiv(attacker.MaxHP, effect.HealPct, 100)
		hp := battle.HP(side) + heal
		if hp > attacker.MaxHP {
			hp = attacker.MaxHP
		}
		battle.SetHP(side, hp)
	}
	if effect.Applies != models.StatusNone {
		target := side.Other()
		if effect.AppliesToSelf {
			target = side
		}
		battle.ApplyStatus(target, effect.Applies, effect.ApplyDuration)
	}
	if effect.ForceCrit {
		*forceCrit = true
	}
	if effect.ResetCombo {
		battle.SetCombo(side, 0)
	}
	cooldowns[slot] = skill.Cooldown
	return nil
}

// resolveDamage runs the fixed modifier pipeline: base roll, rage, skill
// multiplier, crit, combo, dodge, defense, shield.
func (s *BattleService) resolveDamage(battle *models.Battle, attacker, defender *models.Character, side models.Side, atkBonus, defBonus models.StatBonus, seed uint64, damageMultPct uint64, forceCrit bool) (damage uint64, crit, dodged bool) {
	dmgMin := attacker.DamageMin + atkBonus.DamageMin
	dmgMax := attacker.DamageMax + atkBonus.DamageMax
	if dmgMax < dmgMin {
		dmgMax = dmgMin
	}

	damage = dmgMin + rng.Range(s.rand.Roll(seed+2), dmgMax-dmgMin) + attacker.LevelDamageBonus()

	atkStatus, _ := battle.Status(side)
	if atkStatus.Has(models.StatusRage) {
		damage += damage / 2
	}
	damage = models.MulDiv(damage, damageMultPct, 100)

	critPct := attacker.CritPct + atkBonus.CritPct
	if critPct > models.CritCapPct {
		critPct = models.CritCapPct
	}
	if forceCrit || rng.Pct(s.rand.Roll(seed+3)) < critPct {
		crit = true
		damage *= 2
	}

	if battle.Combo(side) >= models.ComboBonusThreshold {
		damage += models.MulDiv(damage, models.ComboBonusPct, 100)
	}

	dodgePct := defender.DodgePct + defBonus.DodgePct
	if dodgePct > models.DodgeCapPct {
		dodgePct = models.DodgeCapPct
	}
	if rng.Pct(s.rand.Roll(seed+4)) < dodgePct {
		return 0, crit, true
	}

	defense := defender.Defense
	if damage <= defense {
		damage = 0
	} else {
		damage -= defense
	}

	defStatus, _ := battle.Status(side.Other())
	if defStatus.Has(models.StatusShield) {
		damage -= models.MulDiv(damage, 30, 100)
	}
	return damage, crit, false
}

// applyDOT applies poison and burn ticks to one side.
func (s *BattleService) applyDOT(battle *models.Battle, side models.Side, attacker, defender *models.Character) {
	status, _ := battle.Status(side)
	if status == models.StatusNone {
		return
	}
	character := attacker
	if battle.SideOf(character.ID) != side {
		character = defender
	}
	if status.Has(models.StatusPoison) {
		battle.Damage(side, models.MulDiv(character.MaxHP, models.PoisonDamagePct, 100))
	}
	if status.Has(models.StatusBurn) {
		battle.Damage(side, models.MulDiv(character.MaxHP, models.BurnDamagePct, 100))
	}
}

// persistTurn mirrors battle HP back onto the characters and saves all
// three records.
func (s *BattleService) persistTurn(ctx context.Context, battle *models.Battle, attacker, defender *models.Character) error {
	for _, c := range []*models.Character{attacker, defender} {
		c.CurrentHP = battle.HP(battle.SideOf(c.ID))
		if err := s.characters.Save(ctx, c); err != nil {
			return err
		}
	}
	return s.battles.Save(ctx, battle)
}

func (s *BattleService) publishTurn(battle *models.Battle, side models.Side, stance models.Stance, damage uint64, crit, dodged bool) {
	if err := s.publisher.Publish(events.TurnResolvedEvent{
		BattleID: battle.ID,
		Turn:     battle.Turn,
		Attacker: side,
		Stance:   stance,
		Damage:   damage,
		Crit:     crit,
		Dodged:   dodged,
	}); err != nil {
		log.WithError(err).Error("Failed to publish turn resolved event")
	}
}

// DecideWildcard records one side's accept/decline. Once both sides have
// decided the fixed effect resolves and the sub-state resets.
func (s *BattleService) DecideWildcard(ctx context.Context, caller, battleID, characterID string, accept bool) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	battle, err := s.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}
	if !battle.Wildcard.Active {
		return fmt.Errorf("battle %s has no pending wildcard: %w", battleID, models.ErrInvalidState)
	}
	if s.now().After(battle.Wildcard.Deadline) {
		return fmt.Errorf("wildcard decision window closed for battle %s: %w", battleID, models.ErrInvalidState)
	}

	side := battle.SideOf(characterID)
	if side == models.SideNone {
		return fmt.Errorf("character %s is not in battle %s: %w", characterID, battleID, models.ErrInvalidArgument)
	}
	if battle.OwnerOf(side) != caller {
		return fmt.Errorf("caller does not own character %s: %w", characterID, models.ErrUnauthorized)
	}

	decision := models.DecisionDecline
	if accept {
		decision = models.DecisionAccept
	}
	if side == models.Side1 {
		if battle.Wildcard.Decision1 != models.DecisionNone {
			return fmt.Errorf("side 1 already decided: %w", models.ErrInvalidState)
		}
		battle.Wildcard.Decision1 = decision
	} else {
		if battle.Wildcard.Decision2 != models.DecisionNone {
			return fmt.Errorf("side 2 already decided: %w", models.ErrInvalidState)
		}
		battle.Wildcard.Decision2 = decision
	}

	if battle.Wildcard.BothDecided() {
		if err := s.resolveWildcard(ctx, battle); err != nil {
			return err
		}
	}
	return s.battles.Save(ctx, battle)
}

// resolveWildcard applies the fixed effect (only when both sides
// accepted) and resets the sub-state.
func (s *BattleService) resolveWildcard(ctx context.Context, battle *models.Battle) error {
	accepted := battle.Wildcard.BothAccepted()
	wcType := battle.Wildcard.Type
	battle.Wildcard.Reset()

	if accepted {
		c1, err := s.characters.GetByID(ctx, battle.Char1)
		if err != nil {
			return err
		}
		c2, err := s.characters.GetByID(ctx, battle.Char2)
		if err != nil {
			return err
		}

		switch wcType {
		case models.WildcardTruce:
			s.wildcardHeal(battle, models.Side1, c1)
			s.wildcardHeal(battle, models.Side2, c2)
		case models.WildcardBloodPact:
			s.wildcardBleed(battle, models.Side1, c1)
			s.wildcardBleed(battle, models.Side2, c2)
		case models.WildcardSurge:
			c1.RegenEnergy(30)
			c2.RegenEnergy(30)
		}

		if err := s.persistTurn(ctx, battle, c1, c2); err != nil {
			return err
		}
	}

	if err := s.publisher.Publish(events.WildcardResolvedEvent{
		BattleID: battle.ID,
		Accepted: accepted,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wildcard resolved event")
	}
	return nil
}

func (s *BattleService) wildcardHeal(battle *models.Battle, side models.Side, c *models.Character) {
	hp := battle.HP(side) + models.MulDiv(c.MaxHP, 10, 100)
	if hp > c.MaxHP {
		hp = c.MaxHP
	}
	battle.SetHP(side, hp)
}

// wildcardBleed damages a side by 10% of max HP but never below 1, so a
// wildcard alone cannot finish a battle.
func (s *BattleService) wildcardBleed(battle *models.Battle, side models.Side, c *models.Character) {
	bleed := models.MulDiv(c.MaxHP, 10, 100)
	hp := battle.HP(side)
	if hp <= bleed+1 {
		battle.SetHP(side, 1)
		return
	}
	battle.SetHP(side, hp-bleed)
}

// Finalize settles a finished battle: win/loss records, full heals, the
// finished-battle counter, and the authoritative settlement signal.
// Guarded so it runs exactly once per battle.
func (s *BattleService) Finalize(ctx context.Context, battleID string) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	battle, err := s.battles.GetByID(ctx, battleID)
	if err != nil {
		return err
	}
	if !battle.Finished || battle.Winner == models.SideNone {
		return fmt.Errorf("battle %s is not finished: %w", battleID, models.ErrInvalidState)
	}
	if battle.Finalized {
		return fmt.Errorf("battle %s already finalized: %w", battleID, models.ErrInvalidState)
	}

	c1, err := s.characters.GetByID(ctx, battle.Char1)
	if err != nil {
		return err
	}
	c2, err := s.characters.GetByID(ctx, battle.Char2)
	if err != nil {
		return err
	}

	winner, loser := c1, c2
	if battle.Winner == models.Side2 {
		winner, loser = c2, c1
	}
	winner.RecordWin()
	loser.RecordLoss()
	c1.FullHeal()
	c2.FullHeal()

	battle.Finalized = true
	if err := s.characters.Save(ctx, c1); err != nil {
		return err
	}
	if err := s.characters.Save(ctx, c2); err != nil {
		return err
	}
	if err := s.battles.Save(ctx, battle); err != nil {
		return err
	}
	if err := s.battles.IncrementFinished(ctx); err != nil {
		return err
	}

	if err := s.publisher.Publish(events.BattleFinalizedEvent{
		BattleID: battleID,
		Winner:   battle.Winner,
	}); err != nil {
		log.WithError(err).Error("Failed to publish battle finalized event")
	}
	return nil
}

// ExpireWildcards resolves up to limit overdue wildcard decisions,
// treating missing decisions as declines. Safe to call repeatedly from
// the external scheduler.
func (s *BattleService) ExpireWildcards(ctx context.Context, limit int) (int, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return 0, err
	}
	defer s.guard.Exit(ctx)

	count, err := s.battles.Count(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	resolved := 0
	for n := uint64(1); n <= count && resolved < limit; n++ {
		id, err := s.battles.IDAt(ctx, n)
		if err != nil {
			return resolved, err
		}
		battle, err := s.battles.GetByID(ctx, id)
		if err != nil {
			return resolved, err
		}
		if !battle.Wildcard.Active || !now.After(battle.Wildcard.Deadline) {
			continue
		}

		if battle.Wildcard.Decision1 == models.DecisionNone {
			battle.Wildcard.Decision1 = models.DecisionDecline
		}
		if battle.Wildcard.Decision2 == models.DecisionNone {
			battle.Wildcard.Decision2 = models.DecisionDecline
		}
		if err := s.resolveWildcard(ctx, battle); err != nil {
			return resolved, err
		}
		if err := s.battles.Save(ctx, battle); err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}

// GetBattle retrieves a battle by id.
func (s *BattleService) GetBattle(ctx context.Context, id string) (*models.Battle, error) {
	battle, err := s.battles.GetByID(ctx, id)
	if err != nil && errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return battle, err
}
