package events

import (
	"fmt"

	"arenabet/models"
)

// EventType represents different types of notifications in the system.
type EventType string

const (
	EventTypeCharacterCreated     EventType = "character_created"
	EventTypeCharacterUpgraded    EventType = "character_upgraded"
	EventTypeCharacterLeveledUp   EventType = "character_leveled_up"
	EventTypeEquipmentMinted      EventType = "equipment_minted"
	EventTypeEquipmentTransferred EventType = "equipment_transferred"
	EventTypeEquipmentEquipped    EventType = "equipment_equipped"
	EventTypeBattleCreated        EventType = "battle_created"
	EventTypeTurnResolved         EventType = "turn_resolved"
	EventTypeWildcardTriggered    EventType = "wildcard_triggered"
	EventTypeWildcardResolved     EventType = "wildcard_resolved"
	EventTypeBattleFinished       EventType = "battle_finished"
	EventTypeBattleFinalized      EventType = "battle_finalized"
	EventTypeSinglePoolCreated    EventType = "single_pool_created"
	EventTypeSingleBetPlaced      EventType = "single_bet_placed"
	EventTypeSinglePoolClosed     EventType = "single_pool_closed"
	EventTypeSinglePoolSettled    EventType = "single_pool_settled"
	EventTypeSingleBetClaimed     EventType = "single_bet_claimed"
	EventTypeMultipoolCreated     EventType = "multipool_created"
	EventTypeMultibetPlaced       EventType = "multibet_placed"
	EventTypeBetslipAccounted     EventType = "betslip_accounted"
	EventTypeMultipoolFinalized   EventType = "multipool_finalized"
	EventTypeBetslipClaimed       EventType = "betslip_claimed"
	EventTypePauseChanged         EventType = "pause_changed"
)

// Event is the base interface for all notifications. Tag renders the
// operation tag plus affected entity ids in the wire form external
// settlers and bots key on.
type Event interface {
	Type() EventType
	Tag() string
}

// CharacterCreatedEvent signals a new character.
type CharacterCreatedEvent struct {
	CharacterID string
	Owner       string
	Class       models.Class
}

func (e CharacterCreatedEvent) Type() EventType { return EventTypeCharacterCreated }
func (e CharacterCreatedEvent) Tag() string {
	return fmt.Sprintf("CharacterCreated:%s", e.CharacterID)
}

// CharacterUpgradedEvent signals an xp upgrade applied to one stat.
type CharacterUpgradedEvent struct {
	CharacterID string
	Stat        models.UpgradeStat
}

func (e CharacterUpgradedEvent) Type() EventType { return EventTypeCharacterUpgraded }
func (e CharacterUpgradedEvent) Tag() string {
	return fmt.Sprintf("CharacterUpgraded:%s", e.CharacterID)
}

// CharacterLeveledUpEvent signals one or more automatic level gains.
type CharacterLeveledUpEvent struct {
	CharacterID string
	NewLevel    uint32
}

func (e CharacterLeveledUpEvent) Type() EventType { return EventTypeCharacterLeveledUp }
func (e CharacterLeveledUpEvent) Tag() string {
	return fmt.Sprintf("CharacterLeveledUp:%s:level=%d", e.CharacterID, e.NewLevel)
}

// EquipmentMintedEvent signals an admin mint.
type EquipmentMintedEvent struct {
	EquipmentID string
	Owner       string
	Rarity      models.Rarity
}

func (e EquipmentMintedEvent) Type() EventType { return EventTypeEquipmentMinted }
func (e EquipmentMintedEvent) Tag() string {
	return fmt.Sprintf("EquipmentMinted:%s", e.EquipmentID)
}

// EquipmentTransferredEvent signals an ownership change.
type EquipmentTransferredEvent struct {
	EquipmentID string
	From        string
	To          string
}

func (e EquipmentTransferredEvent) Type() EventType { return EventTypeEquipmentTransferred }
func (e EquipmentTransferredEvent) Tag() string {
	return fmt.Sprintf("EquipmentTransferred:%s", e.EquipmentID)
}

// EquipmentEquippedEvent signals an item assigned into a character slot.
type EquipmentEquippedEvent struct {
	CharacterID string
	EquipmentID string
}

func (e EquipmentEquippedEvent) Type() EventType { return EventTypeEquipmentEquipped }
func (e EquipmentEquippedEvent) Tag() string {
	return fmt.Sprintf("EquipmentEquipped:%s:%s", e.CharacterID, e.EquipmentID)
}

// BattleCreatedEvent signals a new battle.
type BattleCreatedEvent struct {
	BattleID string
	Char1    string
	Char2    string
}

func (e BattleCreatedEvent) Type() EventType { return EventTypeBattleCreated }
func (e BattleCreatedEvent) Tag() string {
	return fmt.Sprintf("BattleCreated:%s", e.BattleID)
}

// TurnResolvedEvent signals one resolved battle turn.
type TurnResolvedEvent struct {
	BattleID string
	Turn     uint64
	Attacker models.Side
	Stance   models.Stance
	Damage   uint64
	Crit     bool
	Dodged   bool
}

func (e TurnResolvedEvent) Type() EventType { return EventTypeTurnResolved }
func (e TurnResolvedEvent) Tag() string {
	return fmt.Sprintf("TurnResolved:%s:turn=%d", e.BattleID, e.Turn)
}

// WildcardTriggeredEvent signals a wildcard flipping the battle into the
// pending-decision sub-state.
type WildcardTriggeredEvent struct {
	BattleID string
	Wildcard models.WildcardType
}

func (e WildcardTriggeredEvent) Type() EventType { return EventTypeWildcardTriggered }
func (e WildcardTriggeredEvent) Tag() string {
	return fmt.Sprintf("WildcardTriggered:%s:type=%d", e.BattleID, e.Wildcard)
}

// WildcardResolvedEvent signals both decisions were collected (or the
// deadline expired) and the wildcard effect resolved.
type WildcardResolvedEvent struct {
	BattleID string
	Accepted bool
}

func (e WildcardResolvedEvent) Type() EventType { return EventTypeWildcardResolved }
func (e WildcardResolvedEvent) Tag() string {
	return fmt.Sprintf("WildcardResolved:%s:accepted=%v", e.BattleID, e.Accepted)
}

// BattleFinishedEvent signals a side's HP hit zero.
type BattleFinishedEvent struct {
	BattleID string
	Winner   models.Side
}

func (e BattleFinishedEvent) Type() EventType { return EventTypeBattleFinished }
func (e BattleFinishedEvent) Tag() string {
	return fmt.Sprintf("BattleFinished:%s:winner=%d", e.BattleID, e.Winner)
}

// BattleFinalizedEvent is the authoritative settlement signal external
// settlers consume.
type BattleFinalizedEvent struct {
	BattleID string
	Winner   models.Side
}

func (e BattleFinalizedEvent) Type() EventType { return EventTypeBattleFinalized }
func (e BattleFinalizedEvent) Tag() string {
	return fmt.Sprintf("BattleFinalized:%s:winner=%d", e.BattleID, e.Winner)
}

// SinglePoolCreatedEvent signals a new parimutuel pool.
type SinglePoolCreatedEvent struct {
	PoolID   string
	BattleID string
}

func (e SinglePoolCreatedEvent) Type() EventType { return EventTypeSinglePoolCreated }
func (e SinglePoolCreatedEvent) Tag() string {
	return fmt.Sprintf("SinglePoolCreated:%s", e.PoolID)
}

// SingleBetPlacedEvent signals a bet pulled into a pool.
type SingleBetPlacedEvent struct {
	PoolID  string
	Bettor  string
	Outcome models.Outcome
	Amount  uint64
}

func (e SingleBetPlacedEvent) Type() EventType { return EventTypeSingleBetPlaced }
func (e SingleBetPlacedEvent) Tag() string {
	return fmt.Sprintf("SingleBetPlaced:%s:%s", e.PoolID, e.Bettor)
}

// SinglePoolClosedEvent signals the odds snapshot.
type SinglePoolClosedEvent struct {
	PoolID string
	OddsA  uint64
	OddsB  uint64
}

func (e SinglePoolClosedEvent) Type() EventType { return EventTypeSinglePoolClosed }
func (e SinglePoolClosedEvent) Tag() string {
	return fmt.Sprintf("SinglePoolClosed:%s", e.PoolID)
}

// SinglePoolSettledEvent signals the winning outcome was recorded.
type SinglePoolSettledEvent struct {
	PoolID string
	Winner models.Outcome
}

func (e SinglePoolSettledEvent) Type() EventType { return EventTypeSinglePoolSettled }
func (e SinglePoolSettledEvent) Tag() string {
	return fmt.Sprintf("SinglePoolSettled:%s:winner=%s", e.PoolID, e.Winner)
}

// SingleBetClaimedEvent signals a claim paid (or zeroed for a loss).
type SingleBetClaimedEvent struct {
	PoolID string
	Bettor string
	Payout uint64
	Bonus  uint64
}

func (e SingleBetClaimedEvent) Type() EventType { return EventTypeSingleBetClaimed }
func (e SingleBetClaimedEvent) Tag() string {
	return fmt.Sprintf("SingleBetClaimed:%s:%s", e.PoolID, e.Bettor)
}

// MultipoolCreatedEvent signals a new parlay pool.
type MultipoolCreatedEvent struct {
	MultipoolID string
}

func (e MultipoolCreatedEvent) Type() EventType { return EventTypeMultipoolCreated }
func (e MultipoolCreatedEvent) Tag() string {
	return fmt.Sprintf("MultipoolCreated:%s", e.MultipoolID)
}

// MultibetPlacedEvent signals a parlay ticket placed.
type MultibetPlacedEvent struct {
	BetslipID    string
	MultipoolID  string
	Bettor       string
	Amount       uint64
	CombinedOdds uint64
}

func (e MultibetPlacedEvent) Type() EventType { return EventTypeMultibetPlaced }
func (e MultibetPlacedEvent) Tag() string {
	return fmt.Sprintf("MultibetPlaced:%s", e.BetslipID)
}

// BetslipAccountedEvent signals a ticket's winner check completed.
type BetslipAccountedEvent struct {
	BetslipID string
	Winner    bool
}

func (e BetslipAccountedEvent) Type() EventType { return EventTypeBetslipAccounted }
func (e BetslipAccountedEvent) Tag() string {
	return fmt.Sprintf("BetslipAccounted:%s:winner=%v", e.BetslipID, e.Winner)
}

// MultipoolFinalizedEvent signals payouts are frozen.
type MultipoolFinalizedEvent struct {
	MultipoolID string
}

func (e MultipoolFinalizedEvent) Type() EventType { return EventTypeMultipoolFinalized }
func (e MultipoolFinalizedEvent) Tag() string {
	return fmt.Sprintf("MultipoolFinalized:%s", e.MultipoolID)
}

// BetslipClaimedEvent signals a parlay claim paid (or zeroed).
type BetslipClaimedEvent struct {
	BetslipID string
	Bettor    string
	Payout    uint64
}

func (e BetslipClaimedEvent) Type() EventType { return EventTypeBetslipClaimed }
func (e BetslipClaimedEvent) Tag() string {
	return fmt.Sprintf("BetslipClaimed:%s", e.BetslipID)
}

// PauseChangedEvent signals the process-wide pause flag flipped.
type PauseChangedEvent struct {
	Paused bool
	By     string
}

func (e PauseChangedEvent) Type() EventType { return EventTypePauseChanged }
func (e PauseChangedEvent) Tag() string {
	return fmt.Sprintf("PauseChanged:paused=%v", e.Paused)
}
