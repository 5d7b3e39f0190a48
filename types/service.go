package types

import "context"

// MsgServer is the coordinator's mutating command surface: the union-typed
// command set of spec.md §4.5/§6, one method per command. In a real
// protobuf-described Cosmos module this interface is code-generated from a
// .proto service; the core here has no wire schema of its own (the spec
// treats serialization framing as out of scope), so it is declared by hand.
type MsgServer interface {
	CreateGame(context.Context, *MsgCreateGame) (*MsgCreateGameResponse, error)
	Register(context.Context, *MsgRegister) (*MsgRegisterResponse, error)
	PlayerRegister(context.Context, *MsgPlayerRegister) (*MsgPlayerRegisterResponse, error)
	Shuffle(context.Context, *MsgShuffle) (*MsgShuffleResponse, error)
	PlayerShuffle(context.Context, *MsgPlayerShuffle) (*MsgPlayerShuffleResponse, error)
	DealCardsTo(context.Context, *MsgDealCardsTo) (*MsgDealCardsToResponse, error)
	PlayerDealCards(context.Context, *MsgPlayerDealCards) (*MsgPlayerDealCardsResponse, error)
	OpenCards(context.Context, *MsgOpenCards) (*MsgOpenCardsResponse, error)
	PlayerOpenCards(context.Context, *MsgPlayerOpenCards) (*MsgPlayerOpenCardsResponse, error)
	EndGame(context.Context, *MsgEndGame) (*MsgEndGameResponse, error)
	Error(context.Context, *MsgError) (*MsgErrorResponse, error)
}

// QueryServer is the coordinator's read-only projection surface, enumerated
// at the end of spec.md §4.5. Every method is free of side effects.
type QueryServer interface {
	GameInfo(context.Context, *QueryGameInfoRequest) (*QueryGameInfoResponse, error)
	GameState(context.Context, *QueryGameStateRequest) (*QueryGameStateResponse, error)
	NumCards(context.Context, *QueryNumCardsRequest) (*QueryNumCardsResponse, error)
	CurPlayerIndex(context.Context, *QueryCurPlayerIndexRequest) (*QueryCurPlayerIndexResponse, error)
	DecryptRecord(context.Context, *QueryDecryptRecordRequest) (*QueryDecryptRecordResponse, error)
	AggregatedPk(context.Context, *QueryAggregatedPkRequest) (*QueryAggregatedPkResponse, error)
	Deck(context.Context, *QueryDeckRequest) (*QueryDeckResponse, error)
	PlayerIndex(context.Context, *QueryPlayerIndexRequest) (*QueryPlayerIndexResponse, error)
	CardValue(context.Context, *QueryCardValueRequest) (*QueryCardValueResponse, error)
}
