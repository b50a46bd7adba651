package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"arenabet/events"
	"arenabet/models"
	"arenabet/repository"
	"arenabet/rng"
	"arenabet/store"
	"arenabet/token"
)

const (
	testAdmin   = "admin"
	testSettler = "oracle"
	testMarket  = "market:test"
	testAsset   = "arena"
)

// fixture wires every service onto one in-memory store with a
// controllable clock, mirroring the production wiring.
type fixture struct {
	ctx context.Context
	now time.Time

	store      *store.MemoryStore
	bus        *events.Bus
	ledger     *token.Ledger
	pools      *repository.PoolRepository
	battles    *repository.BattleRepository
	guardRepo  *repository.GuardRepository
	guard      *GuardService
	characters *CharacterService
	battleSvc  *BattleService
	poolSvc    *PoolService
	parlaySvc  *ParlayService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemoryStore()
	bus := events.NewBus()
	characterRepo := repository.NewCharacterRepository(st)
	equipmentRepo := repository.NewEquipmentRepository(st)
	battleRepo := repository.NewBattleRepository(st)
	poolRepo := repository.NewPoolRepository(st)
	parlayRepo := repository.NewParlayRepository(st)
	guardRepo := repository.NewGuardRepository(st)

	ledger := token.NewLedger(testMarket)
	assets := token.NewRegistry()
	assets.Register(testAsset, ledger)

	guard := NewGuardService(guardRepo, bus)
	characterSvc := NewCharacterService(characterRepo, equipmentRepo, guard, bus)
	battleSvc := NewBattleService(battleRepo, characterRepo, equipmentRepo, guard, bus, rng.SplitMix{}, time.Minute)
	poolSvc := NewPoolService(poolRepo, battleRepo, guard, bus, assets, testMarket)
	parlaySvc := NewParlayService(parlayRepo, poolRepo, guard, bus, assets, testMarket)

	f := &fixture{
		ctx:        ctx,
		now:        time.Unix(1_700_000_000, 0).UTC(),
		store:      st,
		bus:        bus,
		ledger:     ledger,
		pools:      poolRepo,
		battles:    battleRepo,
		guardRepo:  guardRepo,
		guard:      guard,
		characters: characterSvc,
		battleSvc:  battleSvc,
		poolSvc:    poolSvc,
		parlaySvc:  parlaySvc,
	}

	clock := func() time.Time { return f.now }
	characterSvc.now = clock
	battleSvc.now = clock
	poolSvc.now = clock
	parlaySvc.now = clock

	require.NoError(t, guard.Bootstrap(ctx, testAdmin))
	require.NoError(t, guard.AuthorizeSettler(ctx, testAdmin, testSettler))

	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) settlerCap(t *testing.T) models.SettlerCapability {
	t.Helper()
	cap, err := f.guard.SettlerCapability(f.ctx, testSettler)
	require.NoError(t, err)
	return cap
}

// newWarriors creates two level-1 warriors on opposite sides and a
// started battle between them.
func (f *fixture) newWarriors(t *testing.T) *models.Battle {
	t.Helper()
	_, err := f.characters.CreateCharacter(f.ctx, "alice", "c1", models.ClassWarrior, "Brak")
	require.NoError(t, err)
	_, err = f.characters.CreateCharacter(f.ctx, "bob", "c2", models.ClassWarrior, "Grom")
	require.NoError(t, err)

	battle, err := f.battleSvc.CreateBattle(f.ctx, "alice", "b1", "c1", "c2", f.now)
	require.NoError(t, err)
	return battle
}

// newSettledPool runs a pool through bet, close and settle so market
// tests can start from a claimable state. Stakes: alice 1000 on A,
// bob 1000 on B; winner A; 500 bps edge.
func (f *fixture) newSettledPool(t *testing.T, id string) *models.SinglePool {
	t.Helper()
	f.newOpenPool(t, id, 500)

	f.ledger.Mint("alice", 1000)
	f.ledger.Approve("alice", testMarket, 1000)
	_, err := f.poolSvc.PlaceBet(f.ctx, "alice", id, models.OutcomeA, 1000)
	require.NoError(t, err)

	f.ledger.Mint("bob", 1000)
	f.ledger.Approve("bob", testMarket, 1000)
	_, err = f.poolSvc.PlaceBet(f.ctx, "bob", id, models.OutcomeB, 1000)
	require.NoError(t, err)

	f.advance(2 * time.Hour)
	require.NoError(t, f.poolSvc.ClosePool(f.ctx, id))
	require.NoError(t, f.poolSvc.Settle(f.ctx, f.settlerCap(t), id, models.OutcomeA))

	pool, err := f.poolSvc.GetPool(f.ctx, id)
	require.NoError(t, err)
	return pool
}

func (f *fixture) newOpenPool(t *testing.T, id string, edgeBps uint64) *models.SinglePool {
	t.Helper()
	if exists, _ := f.battles.Exists(f.ctx, "b1"); !exists {
		f.newWarriors(t)
	}
	pool, err := f.poolSvc.CreatePool(f.ctx, testAdmin, PoolParams{
		ID:           id,
		BattleID:     "b1",
		Asset:        testAsset,
		CloseTime:    f.now.Add(time.Hour),
		HouseEdgeBps: edgeBps,
	})
	require.NoError(t, err)
	return pool
}

// fixedSource always rolls the same value, pinning every probability
// check in a turn.
type fixedSource uint64

func (s fixedSource) Roll(seed uint64) uint64 { return uint64(s) }

func balance(t *testing.T, l *token.Ledger, addr string) uint64 {
	t.Helper()
	v, err := l.BalanceOf(context.Background(), addr)
	require.NoError(t, err)
	return v
}
