package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"arenabet/events"
	"arenabet/models"
)

// PoolService runs the single-battle parimutuel market.
type PoolService struct {
	pools      PoolRepository
	battles    BattleRepository
	guard      *GuardService
	publisher  EventPublisher
	assets     AssetSource
	marketAddr string
	now        func() time.Time
}

// NewPoolService creates a pool service. marketAddr is the account bets
// are pulled into and payouts are paid from.
func NewPoolService(
	pools PoolRepository,
	battles BattleRepository,
	guard *GuardService,
	publisher EventPublisher,
	assets AssetSource,
	marketAddr string,
) *PoolService {
	return &PoolService{
		pools:      pools,
		battles:    battles,
		guard:      guard,
		publisher:  publisher,
		assets:     assets,
		marketAddr: marketAddr,
		now:        time.Now,
	}
}

// PoolParams are the admin-chosen terms of a new pool.
type PoolParams struct {
	ID           string
	BattleID     string
	Asset        string
	CloseTime    time.Time
	HouseEdgeBps uint64
	MinBet       uint64
	MaxBet       uint64
	Cap          uint64
}

// CreatePool opens a parimutuel pool over an existing battle.
func (s *PoolService) CreatePool(ctx context.Context, caller string, params PoolParams) (*models.SinglePool, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if err := s.guard.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, fmt.Errorf("pool id is required: %w", models.ErrInvalidArgument)
	}
	if params.HouseEdgeBps >= models.BasisPoints {
		return nil, fmt.Errorf("house edge %d bps: %w", params.HouseEdgeBps, models.ErrInvalidArgument)
	}
	if params.MaxBet > 0 && params.MinBet > params.MaxBet {
		return nil, fmt.Errorf("min bet %d exceeds max bet %d: %w", params.MinBet, params.MaxBet, models.ErrInvalidArgument)
	}
	if !params.CloseTime.After(s.now()) {
		return nil, fmt.Errorf("close time is in the past: %w", models.ErrInvalidArgument)
	}
	if _, err := s.assets.Asset(params.Asset); err != nil {
		return nil, err
	}

	exists, err := s.pools.Exists(ctx, params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pool id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("pool %s: %w", params.ID, models.ErrAlreadyExists)
	}
	battle, err := s.battles.GetByID(ctx, params.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Finished {
		return nil, fmt.Errorf("battle %s is already finished: %w", params.BattleID, models.ErrInvalidState)
	}

	pool := &models.SinglePool{
		ID:           params.ID,
		BattleID:     params.BattleID,
		Asset:        params.Asset,
		CloseTime:    params.CloseTime,
		HouseEdgeBps: params.HouseEdgeBps,
		MinBet:       params.MinBet,
		MaxBet:       params.MaxBet,
		Cap:          params.Cap,
		CreatedAt:    s.now(),
	}
	if err := s.pools.Create(ctx, pool); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.SinglePoolCreatedEvent{
		PoolID:   pool.ID,
		BattleID: pool.BattleID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish pool created event")
	}
	return pool, nil
}

// PlaceBet pulls an approved stake from the bettor into the pool. One bet
// per bettor per pool.
func (s *PoolService) PlaceBet(ctx context.Context, bettor, poolID string, outcome models.Outcome, amount uint64) (*models.SingleBet, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	pool, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if !pool.AcceptingBets(s.now()) {
		return nil, fmt.Errorf("pool %s is not accepting bets: %w", poolID, models.ErrInvalidState)
	}
	if !outcome.Valid() {
		return nil, fmt.Errorf("outcome %d: %w", outcome, models.ErrInvalidArgument)
	}
	if amount < pool.MinBet {
		return nil, fmt.Errorf("bet %d below pool minimum %d: %w", amount, pool.MinBet, models.ErrInvalidArgument)
	}
	if pool.MaxBet > 0 && amount > pool.MaxBet {
		return nil, fmt.Errorf("bet %d above pool maximum %d: %w", amount, pool.MaxBet, models.ErrInvalidArgument)
	}
	if pool.Cap > 0 && pool.TotalPool+amount > pool.Cap {
		return nil, fmt.Errorf("bet %d would exceed pool cap %d: %w", amount, pool.Cap, models.ErrInvalidState)
	}

	has, err := s.pools.HasBet(ctx, poolID, bettor)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bet: %w", err)
	}
	if has {
		return nil, fmt.Errorf("bettor %s already bet on pool %s: %w", bettor, poolID, models.ErrAlreadyExists)
	}

	asset, err := s.assets.Asset(pool.Asset)
	if err != nil {
		return nil, err
	}
	if err := asset.TransferFrom(ctx, bettor, s.marketAddr, amount); err != nil {
		return nil, fmt.Errorf("failed to pull stake: %w", err)
	}

	bet := &models.SingleBet{
		Bettor:   bettor,
		PoolID:   poolID,
		Amount:   amount,
		Outcome:  outcome,
		PlacedAt: s.now(),
	}
	if err := s.pools.SaveBet(ctx, bet); err != nil {
		return nil, err
	}
	pool.AddStake(outcome, amount)
	if err := s.pools.Save(ctx, pool); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.SingleBetPlacedEvent{
		PoolID:  poolID,
		Bettor:  bettor,
		Outcome: outcome,
		Amount:  amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet placed event")
	}
	return bet, nil
}

// ClosePool snapshots odds for a pool whose close time has passed.
// Anyone may trigger it; it runs exactly once per pool.
func (s *PoolService) ClosePool(ctx context.Context, poolID string) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)
	return s.closePool(ctx, poolID)
}

func (s *PoolService) closePool(ctx context.Context, poolID string) error {
	pool, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return err
	}
	if pool.Closed {
		return fmt.Errorf("pool %s already closed: %w", poolID, models.ErrInvalidState)
	}
	if s.now().Before(pool.CloseTime) {
		return fmt.Errorf("pool %s close time not reached: %w", poolID, models.ErrInvalidState)
	}

	pool.Closed = true
	pool.SnapshotOdds()
	if err := s.pools.Save(ctx, pool); err != nil {
		return err
	}

	if err := s.publisher.Publish(events.SinglePoolClosedEvent{
		PoolID: poolID,
		OddsA:  pool.OddsA,
		OddsB:  pool.OddsB,
	}); err != nil {
		log.WithError(err).Error("Failed to publish pool closed event")
	}
	return nil
}

// Settle records the winning outcome. Requires a settler capability and a
// closed, unsettled pool. The house edge lands in the treasury here; if
// nobody backed the winner the whole pool does.
func (s *PoolService) Settle(ctx context.Context, cap models.SettlerCapability, poolID string, winner models.Outcome) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	if !cap.Valid() {
		return fmt.Errorf("settler capability not issued: %w", models.ErrUnauthorized)
	}
	if !winner.Valid() {
		return fmt.Errorf("winner %d: %w", winner, models.ErrInvalidArgument)
	}

	pool, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return err
	}
	if !pool.Closed {
		return fmt.Errorf("pool %s not closed: %w", poolID, models.ErrInvalidState)
	}
	if pool.Settled {
		return fmt.Errorf("pool %s already settled: %w", poolID, models.ErrInvalidState)
	}

	pool.Settled = true
	pool.Winner = winner

	house := models.EdgeCut(pool.TotalPool, pool.HouseEdgeBps)
	if pool.OutcomeStake(winner) == 0 {
		house = pool.TotalPool
	}
	if house > 0 {
		if err := s.pools.AccrueTreasury(ctx, house); err != nil {
			return err
		}
	}
	if err := s.pools.Save(ctx, pool); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"pool":    poolID,
		"winner":  winner.String(),
		"settler": cap.Addr(),
	}).Info("Pool settled")

	if err := s.publisher.Publish(events.SinglePoolSettledEvent{
		PoolID: poolID,
		Winner: winner,
	}); err != nil {
		log.WithError(err).Error("Failed to publish pool settled event")
	}
	return nil
}

// Claim pays out a settled bet. Single-shot per bet: the claimed flag is
// persisted before any funds move. Losing claims just burn the flag and
// reset the bettor's win streak.
func (s *PoolService) Claim(ctx context.Context, bettor, poolID string) (uint64, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return 0, err
	}
	defer s.guard.Exit(ctx)

	pool, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return 0, err
	}
	if !pool.Settled {
		return 0, fmt.Errorf("pool %s not settled: %w", poolID, models.ErrInvalidState)
	}
	bet, err := s.pools.GetBet(ctx, poolID, bettor)
	if err != nil {
		return 0, err
	}
	if bet.Claimed {
		return 0, fmt.Errorf("bet on pool %s already claimed: %w", poolID, models.ErrInvalidState)
	}

	bet.Claimed = true
	if err := s.pools.SaveBet(ctx, bet); err != nil {
		return 0, err
	}

	if bet.Outcome != pool.Winner {
		if err := s.pools.SetWinStreak(ctx, bettor, 0); err != nil {
			return 0, err
		}
		s.publishClaim(poolID, bettor, 0, 0)
		return 0, nil
	}

	payout, ok := bet.Payout(pool)
	if !ok {
		return 0, fmt.Errorf("pool %s has no winning stake: %w", poolID, models.ErrArithmetic)
	}

	streak, err := s.pools.WinStreak(ctx, bettor)
	if err != nil {
		return 0, err
	}
	streak++
	if err := s.pools.SetWinStreak(ctx, bettor, streak); err != nil {
		return 0, err
	}
	bonus := models.StreakBonus(payout, streak)

	asset, err := s.assets.Asset(pool.Asset)
	if err != nil {
		return 0, err
	}
	if err := asset.Transfer(ctx, bettor, payout+bonus); err != nil {
		return 0, fmt.Errorf("failed to pay claim: %w", err)
	}

	s.publishClaim(poolID, bettor, payout, bonus)
	return payout + bonus, nil
}

func (s *PoolService) publishClaim(poolID, bettor string, payout, bonus uint64) {
	if err := s.publisher.Publish(events.SingleBetClaimedEvent{
		PoolID: poolID,
		Bettor: bettor,
		Payout: payout,
		Bonus:  bonus,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet claimed event")
	}
}

// CloseDuePools closes up to limit pools whose close time has passed.
// Safe to call repeatedly from the external scheduler.
func (s *PoolService) CloseDuePools(ctx context.Context, limit int) (int, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return 0, err
	}
	defer s.guard.Exit(ctx)

	count, err := s.pools.Count(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	closed := 0
	for n := uint64(1); n <= count && closed < limit; n++ {
		id, err := s.pools.IDAt(ctx, n)
		if err != nil {
			return closed, err
		}
		pool, err := s.pools.GetByID(ctx, id)
		if err != nil {
			return closed, err
		}
		if pool.Closed || now.Before(pool.CloseTime) {
			continue
		}
		if err := s.closePool(ctx, id); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}

// GetPool retrieves a pool by id.
func (s *PoolService) GetPool(ctx context.Context, id string) (*models.SinglePool, error) {
	return s.pools.GetByID(ctx, id)
}

// GetBet retrieves one bettor's bet on a pool.
func (s *PoolService) GetBet(ctx context.Context, poolID, bettor string) (*models.SingleBet, error) {
	return s.pools.GetBet(ctx, poolID, bettor)
}
