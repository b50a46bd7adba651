package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"arenabet/models"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "character",
			Description: "Create a fighter",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Fighter name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "class",
					Description: "Fighter class",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Warrior", Value: "warrior"},
						{Name: "Mage", Value: "mage"},
						{Name: "Rogue", Value: "rogue"},
						{Name: "Paladin", Value: "paladin"},
						{Name: "Berserker", Value: "berserker"},
					},
				},
			},
		},
		{
			Name:        "bet",
			Description: "Stake on a battle pool",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pool",
					Description: "Pool ID",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "outcome",
					Description: "Side to back",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "A", Value: "a"},
						{Name: "B", Value: "b"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Stake amount",
					Required:    true,
				},
			},
		},
		{
			Name:        "claim",
			Description: "Claim a settled bet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pool",
					Description: "Pool ID",
					Required:    true,
				},
			},
		},
		{
			Name:        "claimslip",
			Description: "Claim a finalized parlay ticket",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "betslip",
					Description: "Betslip ID",
					Required:    true,
				},
			},
		},
		{
			Name:        "odds",
			Description: "Show a pool's snapshotted odds",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pool",
					Description: "Pool ID",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("error creating command %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "character":
		b.handleCharacter(s, i)
	case "bet":
		b.handleBet(s, i)
	case "claim":
		b.handleClaim(s, i)
	case "claimslip":
		b.handleClaimSlip(s, i)
	case "odds":
		b.handleOdds(s, i)
	}
}

// callerAddr maps a Discord user onto a ledger address.
func callerAddr(i *discordgo.InteractionCreate) string {
	return "discord:" + i.Member.User.ID
}

func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		byName[opt.Name] = opt
	}
	return byName
}

func (b *Bot) handleCharacter(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := commandOptions(i)

	name := opts["name"].StringValue()
	class, ok := models.ClassByName(opts["class"].StringValue())
	if !ok {
		b.respondWithError(s, i, "Unknown class.")
		return
	}

	owner := callerAddr(i)
	id := fmt.Sprintf("%s:%s", owner, name)
	character, err := b.characterService.CreateCharacter(ctx, owner, id, class, name)
	if err != nil {
		log.WithError(err).WithField("owner", owner).Error("Failed to create character")
		b.respondWithError(s, i, "Unable to create character. Please try again.")
		return
	}

	b.respond(s, i, fmt.Sprintf("Created **%s** the %s (%d HP). ID: `%s`",
		character.Name, character.Class, character.MaxHP, character.ID))
}

func (b *Bot) handleBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := commandOptions(i)

	poolID := opts["pool"].StringValue()
	amount := opts["amount"].IntValue()
	if amount <= 0 {
		b.respondWithError(s, i, "Amount must be positive.")
		return
	}
	outcome := models.OutcomeA
	if opts["outcome"].StringValue() == "b" {
		outcome = models.OutcomeB
	}

	bettor := callerAddr(i)
	bet, err := b.poolService.PlaceBet(ctx, bettor, poolID, outcome, uint64(amount))
	if err != nil {
		log.WithError(err).WithField("pool", poolID).Error("Failed to place bet")
		b.respondWithError(s, i, "Unable to place bet. Please try again.")
		return
	}

	b.respond(s, i, fmt.Sprintf("Staked **%d** on outcome %s of pool `%s`.",
		bet.Amount, bet.Outcome, poolID))
}

func (b *Bot) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := commandOptions(i)

	poolID := opts["pool"].StringValue()
	bettor := callerAddr(i)
	paid, err := b.poolService.Claim(ctx, bettor, poolID)
	if err != nil {
		log.WithError(err).WithField("pool", poolID).Error("Failed to claim bet")
		b.respondWithError(s, i, "Unable to claim. Please try again.")
		return
	}

	if paid == 0 {
		b.respond(s, i, fmt.Sprintf("Pool `%s`: no payout this time.", poolID))
		return
	}
	b.respond(s, i, fmt.Sprintf("Pool `%s` paid out **%d**.", poolID, paid))
}

func (b *Bot) handleClaimSlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := commandOptions(i)

	betslipID := opts["betslip"].StringValue()
	bettor := callerAddr(i)
	paid, err := b.parlayService.ClaimBetslip(ctx, bettor, betslipID)
	if err != nil {
		log.WithError(err).WithField("betslip", betslipID).Error("Failed to claim betslip")
		b.respondWithError(s, i, "Unable to claim. Please try again.")
		return
	}

	if paid == 0 {
		b.respond(s, i, fmt.Sprintf("Betslip `%s`: no payout this time.", betslipID))
		return
	}
	b.respond(s, i, fmt.Sprintf("Betslip `%s` paid out **%d**.", betslipID, paid))
}

func (b *Bot) handleOdds(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := commandOptions(i)

	poolID := opts["pool"].StringValue()
	pool, err := b.poolService.GetPool(ctx, poolID)
	if err != nil {
		log.WithError(err).WithField("pool", poolID).Error("Failed to load pool")
		b.respondWithError(s, i, "Unable to load pool. Please try again.")
		return
	}

	if !pool.Closed {
		b.respond(s, i, fmt.Sprintf("Pool `%s` is still open. Staked: A %d / B %d.",
			poolID, pool.BetsA, pool.BetsB))
		return
	}
	b.respond(s, i, fmt.Sprintf("Pool `%s` odds: A %s / B %s.",
		poolID, formatOdds(pool.OddsA), formatOdds(pool.OddsB)))
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to respond to interaction")
	}
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to respond to interaction")
	}
}
