package types

import (
	"math/big"

	"github.com/zkshuffle/coordinator/internal/deck"
)

// Phase is the coordinator's Mealy-machine state, ordered as declared. Player
// commands each require one phase; the owner commands Shuffle, DealCardsTo,
// OpenCards, EndGame and Error carry no phase guard, so they can move a game
// back (Open to Deal) or out of GameError. Complete is final, because EndGame
// also removes the owner record.
type Phase int

const (
	PhaseUncreated Phase = iota
	PhaseCreated
	PhaseRegistration
	PhaseShuffle
	PhaseDeal
	PhaseOpen
	PhaseGameError
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseUncreated:
		return "Uncreated"
	case PhaseCreated:
		return "Created"
	case PhaseRegistration:
		return "Registration"
	case PhaseShuffle:
		return "Shuffle"
	case PhaseDeal:
		return "Deal"
	case PhaseOpen:
		return "Open"
	case PhaseGameError:
		return "GameError"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Card is a pair of field elements identifying a point on the curve.
type Card struct {
	X *big.Int
	Y *big.Int
}

// CardDelta carries the two compressed y-coordinates needed to reconstruct
// a card's curve points on first decryption. Each must be <= DELTA_MAX.
type CardDelta struct {
	Delta0 *big.Int
	Delta1 *big.Int
}

// GrothProof is the fixed-shape (2, 2x2, 2) field-element tuple the external
// Groth16 verifiers consume. The coordinator marshals and carries this
// value; it never evaluates the pairing itself.
type GrothProof struct {
	A [2]*big.Int
	B [2][2]*big.Int
	C [2]*big.Int
}

// GameInfo is the immutable-after-creation configuration of a game.
type GameInfo struct {
	GameID          uint64
	DeckKind        deck.Kind
	NumCards        int
	NumPlayers      int
	EncryptVerifier string
}

// GameState is the mutable per-game record.
type GameState struct {
	Phase          Phase
	Opening        int
	CurPlayerIndex int
	AggregatePkX   *big.Int
	AggregatePkY   *big.Int
	Nonce          *big.Int

	PlayerAddr  []string
	SigningAddr []string
	PlayerPkX   []*big.Int
	PlayerPkY   []*big.Int
	PlayerHand  []uint32

	Deck *deck.Deck
}

// NewGameState builds the fresh per-game record a CreateGame command
// produces: phase Created, P-sized zeroed player-hand array (pre-sized at
// creation, unlike the four player-identity arrays which grow as players
// register), and a freshly initialized deck of the configured kind.
func NewGameState(info GameInfo) *GameState {
	return &GameState{
		Phase:          PhaseCreated,
		Opening:        0,
		CurPlayerIndex: 0,
		AggregatePkX:   big.NewInt(0),
		AggregatePkY:   big.NewInt(0),
		Nonce:          big.NewInt(0),
		PlayerAddr:     nil,
		SigningAddr:    nil,
		PlayerPkX:      nil,
		PlayerPkY:      nil,
		PlayerHand:     make([]uint32, info.NumPlayers),
		Deck:           deck.New(info.DeckKind),
	}
}
