package service

import (
	"context"

	"arenabet/events"
	"arenabet/models"
	"arenabet/token"
)

// CharacterRepository persists characters.
type CharacterRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Character, error)
	Save(ctx context.Context, c *models.Character) error
	Create(ctx context.Context, c *models.Character) error
	Count(ctx context.Context) (uint64, error)
}

// EquipmentRepository persists equipment items.
type EquipmentRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Equipment, error)
	Save(ctx context.Context, e *models.Equipment) error
}

// BattleRepository persists battles and the finished-battle counter.
type BattleRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Battle, error)
	Save(ctx context.Context, b *models.Battle) error
	Create(ctx context.Context, b *models.Battle) error
	Count(ctx context.Context) (uint64, error)
	IDAt(ctx context.Context, n uint64) (string, error)
	IncrementFinished(ctx context.Context) error
}

// PoolRepository persists single pools, bets, win streaks and the
// treasury counter.
type PoolRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.SinglePool, error)
	Save(ctx context.Context, p *models.SinglePool) error
	Create(ctx context.Context, p *models.SinglePool) error
	Count(ctx context.Context) (uint64, error)
	IDAt(ctx context.Context, n uint64) (string, error)
	HasBet(ctx context.Context, poolID, bettor string) (bool, error)
	GetBet(ctx context.Context, poolID, bettor string) (*models.SingleBet, error)
	SaveBet(ctx context.Context, b *models.SingleBet) error
	WinStreak(ctx context.Context, bettor string) (uint64, error)
	SetWinStreak(ctx context.Context, bettor string, streak uint64) error
	AccrueTreasury(ctx context.Context, amount uint64) error
}

// ParlayRepository persists multipools and betslips.
type ParlayRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Multipool, error)
	Save(ctx context.Context, m *models.Multipool) error
	Create(ctx context.Context, m *models.Multipool) error
	BetslipExists(ctx context.Context, id string) (bool, error)
	GetBetslip(ctx context.Context, id string) (*models.Betslip, error)
	SaveBetslip(ctx context.Context, s *models.Betslip) error
}

// GuardRepository persists the pause/reentrancy flags and allow-lists.
type GuardRepository interface {
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, v bool) error
	Locked(ctx context.Context) (bool, error)
	SetLocked(ctx context.Context, v bool) error
	HasRole(ctx context.Context, role, addr string) (bool, error)
	SetRole(ctx context.Context, role, addr string, granted bool) error
	IsAuthorizedSettler(ctx context.Context, addr string) (bool, error)
	SetAuthorizedSettler(ctx context.Context, addr string, authorized bool) error
}

// EventPublisher publishes notification signals to external consumers.
type EventPublisher interface {
	Publish(event events.Event) error
}

// AssetSource resolves stake-asset references to transfer clients.
type AssetSource interface {
	Asset(ref string) (token.AssetClient, error)
}
