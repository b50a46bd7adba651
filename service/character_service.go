package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"arenabet/events"
	"arenabet/models"
)

// CharacterService is the character and equipment registry.
type CharacterService struct {
	characters CharacterRepository
	equipment  EquipmentRepository
	guard      *GuardService
	publisher  EventPublisher
	now        func() time.Time
}

// NewCharacterService creates the registry service.
func NewCharacterService(
	characters CharacterRepository,
	equipment EquipmentRepository,
	guard *GuardService,
	publisher EventPublisher,
) *CharacterService {
	return &CharacterService{
		characters: characters,
		equipment:  equipment,
		guard:      guard,
		publisher:  publisher,
		now:        time.Now,
	}
}

// CreateCharacter creates a character with the class base-stat table.
// Fails if the id exists or the class is invalid.
func (s *CharacterService) CreateCharacter(ctx context.Context, caller, id string, class models.Class, name string) (*models.Character, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if id == "" || name == "" {
		return nil, fmt.Errorf("id and name are required: %w", models.ErrInvalidArgument)
	}
	if !class.Valid() {
		return nil, fmt.Errorf("class %d: %w", class, models.ErrInvalidArgument)
	}
	exists, err := s.characters.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check character id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("character %s: %w", id, models.ErrAlreadyExists)
	}

	character := models.NewCharacter(id, caller, name, class, s.now())
	if err := s.characters.Create(ctx, character); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.CharacterCreatedEvent{
		CharacterID: id,
		Owner:       caller,
		Class:       class,
	}); err != nil {
		log.WithError(err).Error("Failed to publish character created event")
	}
	return character, nil
}

// Upgrade spends 100 xp on one stat bump. Owner only.
func (s *CharacterService) Upgrade(ctx context.Context, caller, id string, stat models.UpgradeStat) (*models.Character, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if character.Owner != caller {
		return nil, fmt.Errorf("caller does not own character %s: %w", id, models.ErrUnauthorized)
	}
	if stat > models.UpgradeDodge {
		return nil, fmt.Errorf("upgrade stat %d: %w", stat, models.ErrInvalidArgument)
	}
	if !character.ApplyUpgrade(stat) {
		return nil, fmt.Errorf("character %s has %d xp, needs %d: %w",
			id, character.XP, models.UpgradeCostXP, models.ErrInvalidArgument)
	}
	if err := s.characters.Save(ctx, character); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.CharacterUpgradedEvent{CharacterID: id, Stat: stat}); err != nil {
		log.WithError(err).Error("Failed to publish character upgraded event")
	}
	return character, nil
}

// GrantXP grants xp to a character, auto-leveling past each threshold
// with the remainder rolled forward. Admin only.
func (s *CharacterService) GrantXP(ctx context.Context, caller, id string, amount uint64) (*models.Character, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if err := s.guard.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return nil, err
	}
	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	gained := character.GrantXP(amount)
	if err := s.characters.Save(ctx, character); err != nil {
		return nil, err
	}

	if gained > 0 {
		if err := s.publisher.Publish(events.CharacterLeveledUpEvent{
			CharacterID: id,
			NewLevel:    character.Level,
		}); err != nil {
			log.WithError(err).Error("Failed to publish level up event")
		}
	}
	return character, nil
}

// LearnSkill adds a catalog skill to a character's learned set. Owner
// only; the character must meet the skill's level requirement.
func (s *CharacterService) LearnSkill(ctx context.Context, caller, id string, skillID models.SkillID) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if character.Owner != caller {
		return fmt.Errorf("caller does not own character %s: %w", id, models.ErrUnauthorized)
	}
	skill, ok := models.SkillByID(skillID)
	if !ok {
		return fmt.Errorf("skill %d: %w", skillID, models.ErrInvalidArgument)
	}
	if character.LearnedSkills.Has(skillID) {
		return fmt.Errorf("skill %s already learned: %w", skill.Name, models.ErrAlreadyExists)
	}
	if character.Level < skill.MinLevel {
		return fmt.Errorf("skill %s needs level %d: %w", skill.Name, skill.MinLevel, models.ErrInvalidArgument)
	}

	character.LearnedSkills = character.LearnedSkills.Add(skillID)
	return s.characters.Save(ctx, character)
}

// SetSkillSlot assigns a learned skill into one of the three battle
// slots. Owner only.
func (s *CharacterService) SetSkillSlot(ctx context.Context, caller, id string, slot int, skillID models.SkillID) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if character.Owner != caller {
		return fmt.Errorf("caller does not own character %s: %w", id, models.ErrUnauthorized)
	}
	if slot < 0 || slot >= len(character.SkillSlots) {
		return fmt.Errorf("skill slot %d: %w", slot, models.ErrInvalidArgument)
	}
	if skillID != models.SkillNone && !character.LearnedSkills.Has(skillID) {
		return fmt.Errorf("skill %d not learned: %w", skillID, models.ErrInvalidArgument)
	}

	character.SkillSlots[slot] = skillID
	return s.characters.Save(ctx, character)
}

// Equip assigns an item into the slot matching its type by reference.
// The caller must own both the character and the item; any previous item
// in the slot is simply overwritten, never deleted.
func (s *CharacterService) Equip(ctx context.Context, caller, characterID, equipmentID string) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	character, err := s.characters.GetByID(ctx, characterID)
	if err != nil {
		return err
	}
	if character.Owner != caller {
		return fmt.Errorf("caller does not own character %s: %w", characterID, models.ErrUnauthorized)
	}
	item, err := s.equipment.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}
	if item.Owner != caller {
		return fmt.Errorf("caller does not own equipment %s: %w", equipmentID, models.ErrUnauthorized)
	}

	switch item.Type {
	case models.EquipmentWeapon:
		character.WeaponID = equipmentID
	case models.EquipmentArmor:
		character.ArmorID = equipmentID
	case models.EquipmentAccessory:
		character.AccessoryID = equipmentID
	}
	if err := s.characters.Save(ctx, character); err != nil {
		return err
	}

	if err := s.publisher.Publish(events.EquipmentEquippedEvent{
		CharacterID: characterID,
		EquipmentID: equipmentID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish equipped event")
	}
	return nil
}

// MintEquipment mints an item with rarity-fixed bonuses. Admin only.
func (s *CharacterService) MintEquipment(ctx context.Context, caller, id, owner string, typ models.EquipmentType, rarity models.Rarity) (*models.Equipment, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if err := s.guard.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return nil, err
	}
	if !typ.Valid() || !rarity.Valid() {
		return nil, fmt.Errorf("equipment type %d rarity %d: %w", typ, rarity, models.ErrInvalidArgument)
	}
	exists, err := s.equipment.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check equipment id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("equipment %s: %w", id, models.ErrAlreadyExists)
	}

	item := models.NewEquipment(id, owner, typ, rarity, s.now())
	if err := s.equipment.Save(ctx, item); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.EquipmentMintedEvent{
		EquipmentID: id,
		Owner:       owner,
		Rarity:      rarity,
	}); err != nil {
		log.WithError(err).Error("Failed to publish equipment minted event")
	}
	return item, nil
}

// TransferEquipment changes an item's owner. Owner only.
func (s *CharacterService) TransferEquipment(ctx context.Context, caller, id, to string) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	item, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Owner != caller {
		return fmt.Errorf("caller does not own equipment %s: %w", id, models.ErrUnauthorized)
	}
	if to == "" {
		return fmt.Errorf("transfer target is required: %w", models.ErrInvalidArgument)
	}

	from := item.Owner
	item.Owner = to
	if err := s.equipment.Save(ctx, item); err != nil {
		return err
	}

	if err := s.publisher.Publish(events.EquipmentTransferredEvent{
		EquipmentID: id,
		From:        from,
		To:          to,
	}); err != nil {
		log.WithError(err).Error("Failed to publish equipment transferred event")
	}
	return nil
}

// GetCharacter retrieves a character by id.
func (s *CharacterService) GetCharacter(ctx context.Context, id string) (*models.Character, error) {
	return s.characters.GetByID(ctx, id)
}

// GetEquipment retrieves an item by id.
func (s *CharacterService) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	return s.equipment.GetByID(ctx, id)
}
