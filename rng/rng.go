// Package rng isolates the randomness used by turn resolution behind a
// seed-in, value-out interface so the mixer can be swapped for a
// verifiable-random-function collaborator without touching the battle
// algorithm.
//
// The mixer is NOT cryptographically secure. Turn seeds derive only from
// committed battle state (battle id, creation time, turn counter, wildcard
// counter), never from the observing wall clock, so a replay with the same
// inputs yields the same outputs.
package rng

import (
	"hash/fnv"
	"time"
)

// Source produces a pseudo-random value from a seed. Implementations must
// be pure: the same seed always yields the same value.
type Source interface {
	Roll(seed uint64) uint64
}

// SplitMix is the default Source, a splitmix64 finalizer.
type SplitMix struct{}

// Roll mixes the seed through the splitmix64 finalizer.
func (SplitMix) Roll(seed uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// TurnSeed derives the base seed for one battle turn from committed state.
// The wildcard counter keeps a turn retried after a wildcard resolves from
// deriving the seed that triggered it.
func TurnSeed(battleID string, createdAt time.Time, turn, wildcards uint64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(battleID))
	return h.Sum64() ^ uint64(createdAt.Unix()) ^ (turn * 0x100000001b3) ^ (wildcards * 0xff51afd7ed558ccd)
}

// Pct maps a rolled value onto 0..99 for percentage checks.
func Pct(v uint64) uint64 {
	return v % 100
}

// Range maps a rolled value onto 0..n inclusive. n+1 must not be zero.
func Range(v, n uint64) uint64 {
	return v % (n + 1)
}
