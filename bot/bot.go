package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"arenabet/events"
	"arenabet/models"
	"arenabet/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token     string
	ChannelID string
}

// Bot exposes the game and market through slash commands, posts
// settlement notifications to a channel and hosts the background sweep
// workers.
type Bot struct {
	config           Config
	session          *discordgo.Session
	characterService *service.CharacterService
	battleService    *service.BattleService
	poolService      *service.PoolService
	parlayService    *service.ParlayService
	eventBus         *events.Bus
}

// New creates the bot, opens the gateway session, registers the slash
// commands and subscribes the announcement handlers.
func New(config Config, characterService *service.CharacterService, battleService *service.BattleService, poolService *service.PoolService, parlayService *service.ParlayService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages

	bot := &Bot{
		config:           config,
		session:          dg,
		characterService: characterService,
		battleService:    battleService,
		poolService:      poolService,
		parlayService:    parlayService,
		eventBus:         eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.subscribe()

	log.Info("Bot connected, commands and announcement handlers registered")
	return bot, nil
}

func (b *Bot) subscribe() {
	b.eventBus.Subscribe(events.EventTypeBattleFinalized, b.announceBattleFinalized)
	b.eventBus.Subscribe(events.EventTypeSinglePoolClosed, b.announcePoolClosed)
	b.eventBus.Subscribe(events.EventTypeSinglePoolSettled, b.announcePoolSettled)
	b.eventBus.Subscribe(events.EventTypeMultipoolFinalized, b.announceMultipoolFinalized)
	b.eventBus.Subscribe(events.EventTypeWildcardTriggered, b.announceWildcard)
}

func (b *Bot) announceBattleFinalized(ctx context.Context, event events.Event) {
	e, ok := event.(events.BattleFinalizedEvent)
	if !ok {
		return
	}
	b.post(fmt.Sprintf("⚔️ Battle **%s** finalized — side %d takes it.", e.BattleID, e.Winner))
}

func (b *Bot) announcePoolClosed(ctx context.Context, event events.Event) {
	e, ok := event.(events.SinglePoolClosedEvent)
	if !ok {
		return
	}
	b.post(fmt.Sprintf("🔒 Pool **%s** closed. Odds: A %s / B %s.",
		e.PoolID, formatOdds(e.OddsA), formatOdds(e.OddsB)))
}

func (b *Bot) announcePoolSettled(ctx context.Context, event events.Event) {
	e, ok := event.(events.SinglePoolSettledEvent)
	if !ok {
		return
	}
	b.post(fmt.Sprintf("💰 Pool **%s** settled — outcome %s wins. Claims are open.", e.PoolID, e.Winner))
}

func (b *Bot) announceMultipoolFinalized(ctx context.Context, event events.Event) {
	e, ok := event.(events.MultipoolFinalizedEvent)
	if !ok {
		return
	}
	b.post(fmt.Sprintf("🎟️ Parlay pool **%s** finalized. Claims are open.", e.MultipoolID))
}

func (b *Bot) announceWildcard(ctx context.Context, event events.Event) {
	e, ok := event.(events.WildcardTriggeredEvent)
	if !ok {
		return
	}
	b.post(fmt.Sprintf("🃏 Wildcard in battle **%s**: %s. Both sides must decide.", e.BattleID, wildcardName(e.Wildcard)))
}

func (b *Bot) post(content string) {
	if _, err := b.session.ChannelMessageSend(b.config.ChannelID, content); err != nil {
		log.WithError(err).WithField("channel", b.config.ChannelID).Error("Failed to send announcement")
	}
}

// formatOdds renders fixed-point odds as a decimal multiplier.
func formatOdds(odds uint64) string {
	if odds == 0 {
		return "—"
	}
	return fmt.Sprintf("%d.%02dx", odds/models.OddsScale, (odds%models.OddsScale)/(models.OddsScale/100))
}

func wildcardName(t models.WildcardType) string {
	switch t {
	case models.WildcardTruce:
		return "Truce"
	case models.WildcardBloodPact:
		return "Blood Pact"
	case models.WildcardSurge:
		return "Surge"
	}
	return "Unknown"
}

// Close shuts down the Discord session.
func (b *Bot) Close() error {
	return b.session.Close()
}
