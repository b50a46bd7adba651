package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"arenabet/events"
	"arenabet/models"
)

// ParlayService runs the cross-pool parlay market.
type ParlayService struct {
	parlays    ParlayRepository
	pools      PoolRepository
	guard      *GuardService
	publisher  EventPublisher
	assets     AssetSource
	marketAddr string
	now        func() time.Time
}

// NewParlayService creates a parlay service.
func NewParlayService(
	parlays ParlayRepository,
	pools PoolRepository,
	guard *GuardService,
	publisher EventPublisher,
	assets AssetSource,
	marketAddr string,
) *ParlayService {
	return &ParlayService{
		parlays:    parlays,
		pools:      pools,
		guard:      guard,
		publisher:  publisher,
		assets:     assets,
		marketAddr: marketAddr,
		now:        time.Now,
	}
}

// CreateMultipool opens a parlay pool against one stake asset.
func (s *ParlayService) CreateMultipool(ctx context.Context, caller, id, asset string, houseEdgeBps uint64) (*models.Multipool, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if err := s.guard.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("multipool id is required: %w", models.ErrInvalidArgument)
	}
	if houseEdgeBps >= models.BasisPoints {
		return nil, fmt.Errorf("house edge %d bps: %w", houseEdgeBps, models.ErrInvalidArgument)
	}
	if _, err := s.assets.Asset(asset); err != nil {
		return nil, err
	}
	exists, err := s.parlays.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check multipool id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("multipool %s: %w", id, models.ErrAlreadyExists)
	}

	pool := &models.Multipool{
		ID:           id,
		Asset:        asset,
		HouseEdgeBps: houseEdgeBps,
		CreatedAt:    s.now(),
	}
	if err := s.parlays.Create(ctx, pool); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.MultipoolCreatedEvent{MultipoolID: id}); err != nil {
		log.WithError(err).Error("Failed to publish multipool created event")
	}
	return pool, nil
}

// Leg is one requested parlay selection.
type Leg struct {
	PoolID  string
	Outcome models.Outcome
}

// PlaceMultibet places a parlay ticket. Every leg must reference a pool
// whose odds are already fixed and nonzero for the chosen outcome; the
// full stake is pulled once.
func (s *ParlayService) PlaceMultibet(ctx context.Context, bettor, betslipID, multipoolID string, amount uint64, legs []Leg) (*models.Betslip, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Exit(ctx)

	if betslipID == "" {
		return nil, fmt.Errorf("betslip id is required: %w", models.ErrInvalidArgument)
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("a parlay needs at least one leg: %w", models.ErrInvalidArgument)
	}
	if amount == 0 {
		return nil, fmt.Errorf("stake must be positive: %w", models.ErrInvalidArgument)
	}

	pool, err := s.parlays.GetByID(ctx, multipoolID)
	if err != nil {
		return nil, err
	}
	if pool.Finalized {
		return nil, fmt.Errorf("multipool %s is finalized: %w", multipoolID, models.ErrInvalidState)
	}
	exists, err := s.parlays.BetslipExists(ctx, betslipID)
	if err != nil {
		return nil, fmt.Errorf("failed to check betslip id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("betslip %s: %w", betslipID, models.ErrAlreadyExists)
	}

	selections := make([]models.Selection, 0, len(legs))
	for _, leg := range legs {
		if !leg.Outcome.Valid() {
			return nil, fmt.Errorf("leg %s outcome %d: %w", leg.PoolID, leg.Outcome, models.ErrInvalidArgument)
		}
		single, err := s.pools.GetByID(ctx, leg.PoolID)
		if err != nil {
			return nil, err
		}
		if !single.Closed {
			return nil, fmt.Errorf("leg pool %s not closed: %w", leg.PoolID, models.ErrInvalidState)
		}
		odds := single.Odds(leg.Outcome)
		if odds == 0 {
			return nil, fmt.Errorf("leg pool %s has zero odds for outcome %s: %w",
				leg.PoolID, leg.Outcome, models.ErrInvalidState)
		}
		selections = append(selections, models.Selection{
			PoolID:  leg.PoolID,
			Outcome: leg.Outcome,
			Odds:    odds,
		})
	}

	combined := models.CombineOdds(selections)
	weight := models.TicketWeight(amount, combined)
	if weight == 0 {
		return nil, fmt.Errorf("ticket weight rounded to zero: %w", models.ErrArithmetic)
	}

	asset, err := s.assets.Asset(pool.Asset)
	if err != nil {
		return nil, err
	}
	if err := asset.TransferFrom(ctx, bettor, s.marketAddr, amount); err != nil {
		return nil, fmt.Errorf("failed to pull stake: %w", err)
	}

	slip := &models.Betslip{
		ID:           betslipID,
		Bettor:       bettor,
		MultipoolID:  multipoolID,
		Amount:       amount,
		Selections:   selections,
		CombinedOdds: combined,
		Weight:       weight,
		PlacedAt:     s.now(),
	}
	if err := s.parlays.SaveBetslip(ctx, slip); err != nil {
		return nil, err
	}
	pool.TotalPool += amount
	pool.TotalWeight += weight
	if err := s.parlays.Save(ctx, pool); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.MultibetPlacedEvent{
		BetslipID:    betslipID,
		MultipoolID:  multipoolID,
		Bettor:       bettor,
		Amount:       amount,
		CombinedOdds: combined,
	}); err != nil {
		log.WithError(err).Error("Failed to publish multibet placed event")
	}
	return slip, nil
}

// CheckWinner accounts a betslip exactly once. Every leg's pool must be
// settled; the ticket wins iff every leg matched, and winning weight is
// accumulated onto the multipool.
func (s *ParlayService) CheckWinner(ctx context.Context, betslipID string) (bool, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return false, err
	}
	defer s.guard.Exit(ctx)

	slip, err := s.parlays.GetBetslip(ctx, betslipID)
	if err != nil {
		return false, err
	}
	if slip.Accounted {
		return false, fmt.Errorf("betslip %s already accounted: %w", betslipID, models.ErrInvalidState)
	}

	winner := true
	for _, sel := range slip.Selections {
		single, err := s.pools.GetByID(ctx, sel.PoolID)
		if err != nil {
			return false, err
		}
		if !single.Settled {
			return false, fmt.Errorf("leg pool %s not settled: %w", sel.PoolID, models.ErrInvalidState)
		}
		if single.Winner != sel.Outcome {
			winner = false
		}
	}

	slip.Accounted = true
	slip.Winner = winner
	if err := s.parlays.SaveBetslip(ctx, slip); err != nil {
		return false, err
	}
	if winner {
		pool, err := s.parlays.GetByID(ctx, slip.MultipoolID)
		if err != nil {
			return false, err
		}
		pool.WinningWeight += slip.Weight
		if err := s.parlays.Save(ctx, pool); err != nil {
			return false, err
		}
	}

	if err := s.publisher.Publish(events.BetslipAccountedEvent{
		BetslipID: betslipID,
		Winner:    winner,
	}); err != nil {
		log.WithError(err).Error("Failed to publish betslip accounted event")
	}
	return winner, nil
}

// FinalizeMultipool freezes payouts. Requires a settler capability and
// runs exactly once per multipool.
func (s *ParlayService) FinalizeMultipool(ctx context.Context, cap models.SettlerCapability, multipoolID string) error {
	if err := s.guard.Enter(ctx); err != nil {
		return err
	}
	defer s.guard.Exit(ctx)

	if !cap.Valid() {
		return fmt.Errorf("settler capability not issued: %w", models.ErrUnauthorized)
	}
	pool, err := s.parlays.GetByID(ctx, multipoolID)
	if err != nil {
		return err
	}
	if pool.Finalized {
		return fmt.Errorf("multipool %s already finalized: %w", multipoolID, models.ErrInvalidState)
	}

	pool.Finalized = true
	if err := s.parlays.Save(ctx, pool); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"multipool": multipoolID,
		"settler":   cap.Addr(),
	}).Info("Multipool finalized")

	if err := s.publisher.Publish(events.MultipoolFinalizedEvent{MultipoolID: multipoolID}); err != nil {
		log.WithError(err).Error("Failed to publish multipool finalized event")
	}
	return nil
}

// ClaimBetslip pays out an accounted ticket after finalization. The
// claimed flag is persisted before any funds move; losing tickets just
// burn the flag.
func (s *ParlayService) ClaimBetslip(ctx context.Context, bettor, betslipID string) (uint64, error) {
	if err := s.guard.Enter(ctx); err != nil {
		return 0, err
	}
	defer s.guard.Exit(ctx)

	slip, err := s.parlays.GetBetslip(ctx, betslipID)
	if err != nil {
		return 0, err
	}
	if slip.Bettor != bettor {
		return 0, fmt.Errorf("betslip %s belongs to another bettor: %w", betslipID, models.ErrUnauthorized)
	}
	if !slip.Accounted {
		return 0, fmt.Errorf("betslip %s not accounted: %w", betslipID, models.ErrInvalidState)
	}
	if slip.Claimed {
		return 0, fmt.Errorf("betslip %s already claimed: %w", betslipID, models.ErrInvalidState)
	}
	pool, err := s.parlays.GetByID(ctx, slip.MultipoolID)
	if err != nil {
		return 0, err
	}
	if !pool.Finalized {
		return 0, fmt.Errorf("multipool %s not finalized: %w", slip.MultipoolID, models.ErrInvalidState)
	}

	slip.Claimed = true
	if err := s.parlays.SaveBetslip(ctx, slip); err != nil {
		return 0, err
	}

	var payout uint64
	if slip.Winner {
		p, ok := slip.Payout(pool)
		if !ok {
			return 0, fmt.Errorf("multipool %s has no winning weight: %w", slip.MultipoolID, models.ErrArithmetic)
		}
		payout = p
		asset, err := s.assets.Asset(pool.Asset)
		if err != nil {
			return 0, err
		}
		if err := asset.Transfer(ctx, bettor, payout); err != nil {
			return 0, fmt.Errorf("failed to pay claim: %w", err)
		}
	}

	if err := s.publisher.Publish(events.BetslipClaimedEvent{
		BetslipID: betslipID,
		Bettor:    bettor,
		Payout:    payout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish betslip claimed event")
	}
	return payout, nil
}

// GetMultipool retrieves a multipool by id.
func (s *ParlayService) GetMultipool(ctx context.Context, id string) (*models.Multipool, error) {
	return s.parlays.GetByID(ctx, id)
}

// GetBetslip retrieves a betslip by id.
func (s *ParlayService) GetBetslip(ctx context.Context, id string) (*models.Betslip, error) {
	return s.parlays.GetBetslip(ctx, id)
}
