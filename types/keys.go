package types

import "encoding/binary"

const (
	// ModuleName defines the module name.
	ModuleName = "zkshuffle"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

// Top-level (non-game-keyed) records.
var (
	// ConfigKey stores the single global Config record.
	ConfigKey = []byte{0x01}
)

// Per-game record prefixes. Each is `prefix || gameId(u64be)`.
var (
	GameInfoKeyPrefix       = []byte{0x10}
	GameStateKeyPrefix      = []byte{0x11}
	ActiveGameOwnerPrefix   = []byte{0x12}
	PendingCallbackPrefix   = []byte{0x13}
)

func gameKey(prefix []byte, gameID uint64) []byte {
	bz := make([]byte, len(prefix)+8)
	copy(bz, prefix)
	binary.BigEndian.PutUint64(bz[len(prefix):], gameID)
	return bz
}

func GameInfoKey(gameID uint64) []byte     { return gameKey(GameInfoKeyPrefix, gameID) }
func GameStateKey(gameID uint64) []byte    { return gameKey(GameStateKeyPrefix, gameID) }
func ActiveGameOwnerKey(gameID uint64) []byte { return gameKey(ActiveGameOwnerPrefix, gameID) }
func PendingCallbackKey(gameID uint64) []byte { return gameKey(PendingCallbackPrefix, gameID) }
