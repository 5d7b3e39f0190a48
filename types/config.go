package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zkshuffle/coordinator/internal/deck"
)

// Config is the single global record: the four verifier addresses (one
// encrypt verifier per deck kind, one shared decrypt verifier) and the
// monotonic next-game-id counter.
type Config struct {
	EncryptVerifier5Card  string
	EncryptVerifier30Card string
	EncryptVerifier52Card string
	DecryptVerifier       string
	NextGameID            uint64
}

// EncryptVerifierFor looks up the encrypt-verifier address for a deck kind,
// the "dynamic dispatch over verifiers" lookup the spec calls for.
func (c Config) EncryptVerifierFor(kind deck.Kind) (string, error) {
	switch kind {
	case deck.Deck5Card:
		return c.EncryptVerifier5Card, nil
	case deck.Deck30Card:
		return c.EncryptVerifier30Card, nil
	case deck.Deck52Card:
		return c.EncryptVerifier52Card, nil
	default:
		return "", fmt.Errorf("config: unknown deck kind %v", kind)
	}
}

// DefaultConfig returns a Config with no verifiers configured and the
// counter seated at its first valid game id. A real deployment must set the
// verifier addresses via governance or genesis before games are playable.
func DefaultConfig() Config {
	return Config{NextGameID: 1}
}

// ValidateConfig checks the four verifier addresses are valid bech32
// addresses (when set) and the counter is non-zero.
func ValidateConfig(c Config) error {
	if c.NextGameID == 0 {
		return fmt.Errorf("next_game_id must be > 0")
	}
	for _, addr := range []string{c.EncryptVerifier5Card, c.EncryptVerifier30Card, c.EncryptVerifier52Card, c.DecryptVerifier} {
		if addr == "" {
			continue
		}
		if _, err := sdk.AccAddressFromBech32(addr); err != nil {
			return fmt.Errorf("invalid verifier address %q: %w", addr, err)
		}
	}
	return nil
}
