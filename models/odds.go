package models

import "math/bits"

// OddsScale is the fixed-point scale for odds values: 1,000,000 raw units
// equal 1.0x. All odds and payout math stays in integer space so settlement
// is bit-for-bit deterministic across platforms.
const OddsScale uint64 = 1_000_000

// MulDiv computes a*b/div with a full 128-bit intermediate product,
// truncating toward zero. Rounding therefore always favors the house.
// Panics if div is zero or the quotient overflows 64 bits; callers guard
// the zero-divisor case and treat it as ErrArithmetic.
func MulDiv(a, b, div uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	quo, _ := bits.Div64(hi, lo, div)
	return quo
}

// BasisPoints is the denominator for house-edge fractions.
const BasisPoints uint64 = 10_000

// EdgeCut returns the house-edge share of total at the given basis points.
func EdgeCut(total uint64, edgeBps uint64) uint64 {
	return MulDiv(total, edgeBps, BasisPoints)
}
