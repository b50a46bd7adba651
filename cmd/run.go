package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"arenabet/bot"
	"arenabet/config"
	"arenabet/database"
	"arenabet/events"
	"arenabet/repository"
	"arenabet/rng"
	"arenabet/service"
	"arenabet/store"
	"arenabet/token"
)

// DefaultAssetRef is the stake asset registered at startup.
const DefaultAssetRef = "arena"

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting arenabet...")

	// Load configuration
	cfg := config.Get()

	// Initialize the entity store. A configured database selects the
	// Postgres-backed store; otherwise everything lives in memory.
	var entityStore store.Store
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		entityStore = store.NewPGStore(db)
		log.Println("Database connection established successfully")
	} else {
		log.Println("No DATABASE_URL configured, using in-memory entity store")
		entityStore = store.NewMemoryStore()
	}

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()

	// Initialize repositories
	characterRepo := repository.NewCharacterRepository(entityStore)
	equipmentRepo := repository.NewEquipmentRepository(entityStore)
	battleRepo := repository.NewBattleRepository(entityStore)
	poolRepo := repository.NewPoolRepository(entityStore)
	parlayRepo := repository.NewParlayRepository(entityStore)
	guardRepo := repository.NewGuardRepository(entityStore)

	// Initialize the stake-asset registry
	assets := token.NewRegistry()
	assets.Register(DefaultAssetRef, token.NewLedger(cfg.MarketAddress))

	// Initialize services
	log.Println("Initializing services...")
	guardService := service.NewGuardService(guardRepo, eventBus)
	characterService := service.NewCharacterService(characterRepo, equipmentRepo, guardService, eventBus)
	battleService := service.NewBattleService(
		battleRepo, characterRepo, equipmentRepo, guardService, eventBus,
		rng.SplitMix{}, time.Duration(cfg.WildcardWindow)*time.Second,
	)
	poolService := service.NewPoolService(poolRepo, battleRepo, guardService, eventBus, assets, cfg.MarketAddress)
	parlayService := service.NewParlayService(parlayRepo, poolRepo, guardService, eventBus, assets, cfg.MarketAddress)
	log.Println("Services initialized successfully")

	// Seed the admin allow-list
	if cfg.AdminAddress != "" {
		if err := guardService.Bootstrap(ctx, cfg.AdminAddress); err != nil {
			return fmt.Errorf("failed to bootstrap admin roles: %w", err)
		}
	}

	// Start background sweep workers. These run with or without the
	// Discord surface.
	stopPoolWorker := bot.StartPoolCloseWorker(ctx, poolService, 1*time.Minute, cfg.SweepPoolLimit)
	stopWildcardWorker := bot.StartWildcardExpiryWorker(ctx, battleService, 30*time.Second, cfg.SweepBattleLimit)

	// Initialize Discord bot
	var discordBot *bot.Bot
	if cfg.DiscordToken == "" {
		log.Println("No DISCORD_TOKEN configured, running without the Discord surface")
	} else {
		log.Println("Initializing Discord bot...")
		botConfig := bot.Config{
			Token:     cfg.DiscordToken,
			ChannelID: cfg.DiscordChannelID,
		}
		var err error
		discordBot, err = bot.New(botConfig, characterService, battleService, poolService, parlayService, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Println("Discord bot initialized successfully")
	}

	// Wait for context cancellation
	log.Printf("arenabet is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down...")
	stopPoolWorker()
	stopWildcardWorker()
	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.Printf("Error closing Discord session: %v", err)
		}
	}

	return nil
}
