package store

import "fmt"

// Logical key prefixes. One record per key; the scheme is the bit-exact
// contract between writers and readers, so nothing outside this file
// builds keys by hand.
const (
	KeyCharacterCount      = "character_count"
	KeyBattleCount         = "battle_count"
	KeyBattleFinishedCount = "battle_finished_count"
	KeySinglePoolCount     = "spool_count"
	KeyMultipoolCount      = "mpool_count"
	KeyPaused              = "paused"
	KeyLocked              = "locked"
	KeyTreasury            = "treasury"
)

// CharacterKey returns the record key for a character id.
func CharacterKey(id string) string {
	return "character:" + id
}

// EquipmentKey returns the record key for an equipment id.
func EquipmentKey(id string) string {
	return "equipment:" + id
}

// BattleKey returns the record key for a battle id.
func BattleKey(id string) string {
	return "battle:" + id
}

// BattleIndexKey maps a creation ordinal to a battle id so bounded sweeps
// can scan battles in creation order.
func BattleIndexKey(n uint64) string {
	return fmt.Sprintf("battle_index:%d", n)
}

// SinglePoolKey returns the record key for a single pool id.
func SinglePoolKey(id string) string {
	return "spool:" + id
}

// SinglePoolIndexKey maps a creation ordinal to a pool id.
func SinglePoolIndexKey(n uint64) string {
	return fmt.Sprintf("spool_index:%d", n)
}

// SingleBetKey returns the record key for a bet, unique per (pool, bettor).
func SingleBetKey(poolID, bettor string) string {
	return "sbet:" + poolID + ":" + bettor
}

// MultipoolKey returns the record key for a multipool id.
func MultipoolKey(id string) string {
	return "mpool:" + id
}

// BetslipKey returns the record key for a betslip id.
func BetslipKey(id string) string {
	return "betslip:" + id
}

// RoleKey returns the allow-list key for a role grant.
func RoleKey(role, addr string) string {
	return role + ":" + addr
}

// AuthSettlerKey returns the allow-list key for an authorized settler.
func AuthSettlerKey(addr string) string {
	return "auth_settler:" + addr
}

// WinStreakKey returns the consecutive-win counter key for a bettor.
func WinStreakKey(bettor string) string {
	return "win_streak:" + bettor
}
