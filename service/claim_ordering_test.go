package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"arenabet/events"
	"arenabet/models"
)

// The claimed flag must hit storage before any funds move, so a failed
// transfer can never leave a claimable bet that was already paid.
func TestClaimPersistsFlagBeforeTransfer(t *testing.T) {
	ctx := context.Background()

	guardRepo := new(MockGuardRepository)
	guardRepo.On("Paused", mock.Anything).Return(false, nil)
	guardRepo.On("Locked", mock.Anything).Return(false, nil)
	guardRepo.On("SetLocked", mock.Anything, true).Return(nil)
	guardRepo.On("SetLocked", mock.Anything, false).Return(nil)
	guard := NewGuardService(guardRepo, events.NewBus())

	pool := &models.SinglePool{
		ID:           "p1",
		Asset:        testAsset,
		TotalPool:    2000,
		BetsA:        1000,
		BetsB:        1000,
		OddsA:        1_900_000,
		OddsB:        1_900_000,
		HouseEdgeBps: 500,
		Closed:       true,
		Settled:      true,
		Winner:       models.OutcomeA,
	}
	bet := &models.SingleBet{
		Bettor:  "alice",
		PoolID:  "p1",
		Amount:  1000,
		Outcome: models.OutcomeA,
	}

	pools := new(MockPoolRepository)
	pools.On("GetByID", mock.Anything, "p1").Return(pool, nil)
	pools.On("GetBet", mock.Anything, "p1", "alice").Return(bet, nil)
	pools.On("SaveBet", mock.Anything, mock.MatchedBy(func(b *models.SingleBet) bool {
		return b.Claimed
	})).Return(nil)
	pools.On("WinStreak", mock.Anything, "alice").Return(uint64(0), nil)
	pools.On("SetWinStreak", mock.Anything, "alice", uint64(1)).Return(nil)

	asset := new(MockAssetClient)
	asset.On("Transfer", mock.Anything, "alice", uint64(1900)).
		Return(errors.New("transfer rejected"))
	assets := new(MockAssetSource)
	assets.On("Asset", testAsset).Return(asset, nil)

	svc := NewPoolService(pools, new(MockBattleRepository), guard, events.NewBus(), assets, testMarket)

	_, err := svc.Claim(ctx, "alice", "p1")
	require.Error(t, err)

	// The flag write happened even though the payout did not.
	pools.AssertCalled(t, "SaveBet", mock.Anything, mock.MatchedBy(func(b *models.SingleBet) bool {
		return b.Claimed
	}))
	asset.AssertExpectations(t)
}

// Settlement math never reaches the asset layer when the capability is
// missing; the repositories stay untouched past the read.
func TestSettleRejectsBeforeWrites(t *testing.T) {
	ctx := context.Background()

	guardRepo := new(MockGuardRepository)
	guardRepo.On("Paused", mock.Anything).Return(false, nil)
	guardRepo.On("Locked", mock.Anything).Return(false, nil)
	guardRepo.On("SetLocked", mock.Anything, true).Return(nil)
	guardRepo.On("SetLocked", mock.Anything, false).Return(nil)
	guard := NewGuardService(guardRepo, events.NewBus())

	pools := new(MockPoolRepository)
	svc := NewPoolService(pools, new(MockBattleRepository), guard, events.NewBus(), new(MockAssetSource), testMarket)

	err := svc.Settle(ctx, models.SettlerCapability{}, "p1", models.OutcomeA)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	pools.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	pools.AssertNotCalled(t, "AccrueTreasury", mock.Anything, mock.Anything)
}
