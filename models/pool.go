package models

import "time"

// Outcome identifies a side of a single pool. Zero means no outcome.
type Outcome uint8

const (
	OutcomeNone Outcome = 0
	OutcomeA    Outcome = 1
	OutcomeB    Outcome = 2
)

func (o Outcome) Valid() bool {
	return o == OutcomeA || o == OutcomeB
}

func (o Outcome) String() string {
	switch o {
	case OutcomeA:
		return "A"
	case OutcomeB:
		return "B"
	}
	return "none"
}

// SinglePool is a parimutuel pool over one battle's outcome.
// Lifecycle: Open until CloseTime, then Closed (odds snapshotted exactly
// once), then Settled (winner recorded exactly once by an authorized
// settler).
type SinglePool struct {
	ID           string
	BattleID     string
	Asset        string
	CloseTime    time.Time
	TotalPool    uint64
	BetsA        uint64
	BetsB        uint64
	OddsA        uint64
	OddsB        uint64
	HouseEdgeBps uint64
	Closed       bool
	Settled      bool
	Winner       Outcome
	MinBet       uint64
	MaxBet       uint64
	Cap          uint64 // 0 means uncapped
	CreatedAt    time.Time
}

// AcceptingBets reports whether a bet can still be placed at now.
func (p *SinglePool) AcceptingBets(now time.Time) bool {
	return !p.Closed && !p.Settled && now.Before(p.CloseTime)
}

// OutcomeStake returns the staked total for an outcome.
func (p *SinglePool) OutcomeStake(o Outcome) uint64 {
	if o == OutcomeA {
		return p.BetsA
	}
	return p.BetsB
}

// AddStake accumulates a bet into an outcome and the pool total.
func (p *SinglePool) AddStake(o Outcome, amount uint64) {
	if o == OutcomeA {
		p.BetsA += amount
	} else {
		p.BetsB += amount
	}
	p.TotalPool += amount
}

// PayoutPool returns the pool total net of the house edge.
func (p *SinglePool) PayoutPool() uint64 {
	return p.TotalPool - EdgeCut(p.TotalPool, p.HouseEdgeBps)
}

// SnapshotOdds computes fixed-point odds for both outcomes from the
// current totals. An outcome with zero stake gets zero odds and can never
// be wagered on retroactively. Called exactly once, at close.
func (p *SinglePool) SnapshotOdds() {
	payout := p.PayoutPool()
	if p.BetsA > 0 {
		p.OddsA = MulDiv(payout, OddsScale, p.BetsA)
	}
	if p.BetsB > 0 {
		p.OddsB = MulDiv(payout, OddsScale, p.BetsB)
	}
}

// Odds returns the snapshotted odds for an outcome.
func (p *SinglePool) Odds(o Outcome) uint64 {
	if o == OutcomeA {
		return p.OddsA
	}
	return p.OddsB
}

// SingleBet is one bettor's stake on one pool. At most one bet per
// (pool, bettor) pair; claim is single-shot.
type SingleBet struct {
	Bettor   string
	PoolID   string
	Amount   uint64
	Outcome  Outcome
	Claimed  bool
	PlacedAt time.Time
}

// Payout returns the proportional parimutuel payout for this bet against
// the given pool, assuming the bet won. Floor rounding favors the house.
func (b *SingleBet) Payout(p *SinglePool) (uint64, bool) {
	winningStake := p.OutcomeStake(p.Winner)
	if winningStake == 0 {
		return 0, false
	}
	return MulDiv(p.PayoutPool(), b.Amount, winningStake), true
}

// Win-streak bonus schedule: 5% of payout per prior consecutive win,
// capped at 25%.
const (
	StreakBonusStepPct uint64 = 5
	StreakBonusCapPct  uint64 = 25
)

// StreakBonus returns the bonus owed on a winning payout given the
// bettor's consecutive-win streak including this win.
func StreakBonus(payout, streak uint64) uint64 {
	if streak <= 1 {
		return 0
	}
	pct := StreakBonusStepPct * (streak - 1)
	if pct > StreakBonusCapPct {
		pct = StreakBonusCapPct
	}
	return MulDiv(payout, pct, 100)
}
