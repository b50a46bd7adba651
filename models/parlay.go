package models

import "time"

// Multipool aggregates parlay tickets staked against one asset. Tickets
// share the pool proportionally to their weight once finalized.
type Multipool struct {
	ID            string
	Asset         string
	TotalPool     uint64
	TotalWeight   uint64
	WinningWeight uint64
	Finalized     bool
	HouseEdgeBps  uint64
	CreatedAt     time.Time
}

// PayoutPool returns the pool total net of the house edge.
func (m *Multipool) PayoutPool() uint64 {
	return m.TotalPool - EdgeCut(m.TotalPool, m.HouseEdgeBps)
}

// Selection is one leg of a parlay ticket: a pool, the chosen outcome and
// the odds snapshotted from the already-closed pool at placement time.
type Selection struct {
	PoolID  string
	Outcome Outcome
	Odds    uint64
}

// Betslip is a multi-leg parlay ticket. It can only reference pools whose
// odds were already fixed at placement time; it is accounted exactly once,
// and claim is single-shot and requires the multipool to be finalized.
type Betslip struct {
	ID           string
	Bettor       string
	MultipoolID  string
	Amount       uint64
	Selections   []Selection
	CombinedOdds uint64
	Weight       uint64
	Winner       bool
	Accounted    bool
	Claimed      bool
	PlacedAt     time.Time
}

// CombineOdds folds per-leg odds into a fixed-point product, seeded at
// 1.0x.
func CombineOdds(legs []Selection) uint64 {
	combined := OddsScale
	for _, leg := range legs {
		combined = MulDiv(combined, leg.Odds, OddsScale)
	}
	return combined
}

// TicketWeight returns amount scaled by combined odds.
func TicketWeight(amount, combinedOdds uint64) uint64 {
	return MulDiv(amount, combinedOdds, OddsScale)
}

// Payout returns the weight-proportional payout for a winning ticket.
func (s *Betslip) Payout(m *Multipool) (uint64, bool) {
	if m.WinningWeight == 0 {
		return 0, false
	}
	return MulDiv(m.PayoutPool(), s.Weight, m.WinningWeight), true
}
