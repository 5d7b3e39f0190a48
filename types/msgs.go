package types

import (
	"math/big"

	"github.com/zkshuffle/coordinator/internal/bitmap"
	"github.com/zkshuffle/coordinator/internal/deck"
)

// Command request/response payloads, named and shaped exactly as the
// command surface in §4.5/§6. Every command is a single atomic state
// transition; there is no partial-effect path.

type MsgCreateGame struct {
	Sender     string
	NumPlayers int
	DeckKind   deck.Kind
}

type MsgCreateGameResponse struct {
	GameID uint64
}

type MsgRegister struct {
	Sender   string
	GameID   uint64
	Callback []byte
}

type MsgRegisterResponse struct{}

type MsgPlayerRegister struct {
	Sender    string
	GameID    uint64
	Signer    string
	PublicKeyX *big.Int
	PublicKeyY *big.Int
}

type MsgPlayerRegisterResponse struct {
	PlayerIndex int
}

type MsgShuffle struct {
	Sender   string
	GameID   uint64
	Callback []byte
}

type MsgShuffleResponse struct{}

type MsgPlayerShuffle struct {
	Sender  string
	GameID  uint64
	Proof   GrothProof
	NewDeck deck.Compressed
}

type MsgPlayerShuffleResponse struct {
	PublicInput []*big.Int
}

type MsgDealCardsTo struct {
	Sender    string
	GameID    uint64
	Mask      bitmap.Bitmap
	TargetPID int
	Callback  []byte
}

type MsgDealCardsToResponse struct{}

// PlayerDealCards carries one proof/decrypted-point/delta triple per set bit
// of the deal's cardsToDeal mask, in ascending slot-index order.
type MsgPlayerDealCards struct {
	Sender    string
	GameID    uint64
	Proofs    []GrothProof
	Decrypted []Card
	Deltas    []CardDelta
}

type MsgPlayerDealCardsResponse struct{}

type MsgOpenCards struct {
	Sender   string
	GameID   uint64
	PID      int
	Count    int
	Callback []byte
}

type MsgOpenCardsResponse struct{}

type MsgPlayerOpenCards struct {
	Sender    string
	GameID    uint64
	Mask      bitmap.Bitmap
	Proofs    []GrothProof
	Decrypted []Card
}

type MsgPlayerOpenCardsResponse struct{}

type MsgEndGame struct {
	Sender string
	GameID uint64
}

type MsgEndGameResponse struct{}

type MsgError struct {
	Sender   string
	GameID   uint64
	Callback []byte
}

type MsgErrorResponse struct{}

// Read-only projections, enumerated at the end of §4.5. All are free of
// side effects.

type QueryGameInfoRequest struct{ GameID uint64 }
type QueryGameInfoResponse struct{ Info GameInfo }

type QueryGameStateRequest struct{ GameID uint64 }
type QueryGameStateResponse struct{ State GameState }

type QueryNumCardsRequest struct{ GameID uint64 }
type QueryNumCardsResponse struct{ NumCards int }

type QueryCurPlayerIndexRequest struct{ GameID uint64 }
type QueryCurPlayerIndexResponse struct{ CurPlayerIndex int }

type QueryDecryptRecordRequest struct {
	GameID    uint64
	CardIndex int
}
type QueryDecryptRecordResponse struct{ Record bitmap.Bitmap }

type QueryAggregatedPkRequest struct{ GameID uint64 }
type QueryAggregatedPkResponse struct{ X, Y *big.Int }

type QueryDeckRequest struct{ GameID uint64 }
type QueryDeckResponse struct{ Deck *deck.Deck }

type QueryPlayerIndexRequest struct {
	GameID  uint64
	Address string
}
type QueryPlayerIndexResponse struct {
	PlayerIndex int
	Found       bool
}

type QueryCardValueRequest struct {
	GameID    uint64
	CardIndex int
}
type QueryCardValueResponse struct {
	Value int
	Known bool
}
