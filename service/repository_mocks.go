package service

import (
	"context"

	"arenabet/events"
	"arenabet/models"
	"arenabet/token"

	"github.com/stretchr/testify/mock"
)

// MockCharacterRepository is a mock implementation of CharacterRepository
type MockCharacterRepository struct {
	mock.Mock
}

func (m *MockCharacterRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCharacterRepository) GetByID(ctx context.Context, id string) (*models.Character, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}

func (m *MockCharacterRepository) Save(ctx context.Context, c *models.Character) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCharacterRepository) Create(ctx context.Context, c *models.Character) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCharacterRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

// MockEquipmentRepository is a mock implementation of EquipmentRepository
type MockEquipmentRepository struct {
	mock.Mock
}

func (m *MockEquipmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEquipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) Save(ctx context.Context, e *models.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockBattleRepository is a mock implementation of BattleRepository
type MockBattleRepository struct {
	mock.Mock
}

func (m *MockBattleRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBattleRepository) GetByID(ctx context.Context, id string) (*models.Battle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Battle), args.Error(1)
}

func (m *MockBattleRepository) Save(ctx context.Context, b *models.Battle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBattleRepository) Create(ctx context.Context, b *models.Battle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBattleRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockBattleRepository) IDAt(ctx context.Context, n uint64) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *MockBattleRepository) IncrementFinished(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPoolRepository is a mock implementation of PoolRepository
type MockPoolRepository struct {
	mock.Mock
}

func (m *MockPoolRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPoolRepository) GetByID(ctx context.Context, id string) (*models.SinglePool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SinglePool), args.Error(1)
}

func (m *MockPoolRepository) Save(ctx context.Context, p *models.SinglePool) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPoolRepository) Create(ctx context.Context, p *models.SinglePool) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPoolRepository) Count(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockPoolRepository) IDAt(ctx context.Context, n uint64) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *MockPoolRepository) HasBet(ctx context.Context, poolID, bettor string) (bool, error) {
	args := m.Called(ctx, poolID, bettor)
	return args.Bool(0), args.Error(1)
}

func (m *MockPoolRepository) GetBet(ctx context.Context, poolID, bettor string) (*models.SingleBet, error) {
	args := m.Called(ctx, poolID, bettor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SingleBet), args.Error(1)
}

func (m *MockPoolRepository) SaveBet(ctx context.Context, b *models.SingleBet) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockPoolRepository) WinStreak(ctx context.Context, bettor string) (uint64, error) {
	args := m.Called(ctx, bettor)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockPoolRepository) SetWinStreak(ctx context.Context, bettor string, streak uint64) error {
	args := m.Called(ctx, bettor, streak)
	return args.Error(0)
}

func (m *MockPoolRepository) AccrueTreasury(ctx context.Context, amount uint64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

// MockParlayRepository is a mock implementation of ParlayRepository
type MockParlayRepository struct {
	mock.Mock
}

func (m *MockParlayRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockParlayRepository) GetByID(ctx context.Context, id string) (*models.Multipool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Multipool), args.Error(1)
}

func (m *MockParlayRepository) Save(ctx context.Context, mp *models.Multipool) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

func (m *MockParlayRepository) Create(ctx context.Context, mp *models.Multipool) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

func (m *MockParlayRepository) BetslipExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockParlayRepository) GetBetslip(ctx context.Context, id string) (*models.Betslip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Betslip), args.Error(1)
}

func (m *MockParlayRepository) SaveBetslip(ctx context.Context, s *models.Betslip) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockGuardRepository is a mock implementation of GuardRepository
type MockGuardRepository struct {
	mock.Mock
}

func (m *MockGuardRepository) Paused(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardRepository) SetPaused(ctx context.Context, v bool) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockGuardRepository) Locked(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardRepository) SetLocked(ctx context.Context, v bool) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockGuardRepository) HasRole(ctx context.Context, role, addr string) (bool, error) {
	args := m.Called(ctx, role, addr)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardRepository) SetRole(ctx context.Context, role, addr string, granted bool) error {
	args := m.Called(ctx, role, addr, granted)
	return args.Error(0)
}

func (m *MockGuardRepository) IsAuthorizedSettler(ctx context.Context, addr string) (bool, error) {
	args := m.Called(ctx, addr)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardRepository) SetAuthorizedSettler(ctx context.Context, addr string, authorized bool) error {
	args := m.Called(ctx, addr, authorized)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockAssetClient is a mock implementation of token.AssetClient
type MockAssetClient struct {
	mock.Mock
}

func (m *MockAssetClient) BalanceOf(ctx context.Context, addr string) (uint64, error) {
	args := m.Called(ctx, addr)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockAssetClient) Allowance(ctx context.Context, owner, spender string) (uint64, error) {
	args := m.Called(ctx, owner, spender)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockAssetClient) TransferFrom(ctx context.Context, from, to string, amount uint64) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockAssetClient) Transfer(ctx context.Context, to string, amount uint64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

// MockAssetSource is a mock implementation of AssetSource
type MockAssetSource struct {
	mock.Mock
}

func (m *MockAssetSource) Asset(ref string) (token.AssetClient, error) {
	args := m.Called(ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(token.AssetClient), args.Error(1)
}
