package keeper

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/internal/memkv"
	"github.com/zkshuffle/coordinator/types"
)

func newTestServers(t *testing.T) (types.MsgServer, types.QueryServer, *Keeper) {
	t.Helper()
	svc := memkv.NewService()
	k := NewKeeper(svc, nil, &RecordingEventSink{})
	return NewMsgServerImpl(k), NewQueryServerImpl(k), &k
}

func TestQueryGameInfoAndNumCards(t *testing.T) {
	ms, qs, _ := newTestServers(t)
	ctx := context.Background()
	owner := testAddr(1)

	createResp, err := ms.CreateGame(ctx, &types.MsgCreateGame{Sender: owner, NumPlayers: 2, DeckKind: deck.Deck5Card})
	require.NoError(t, err)

	info, err := qs.GameInfo(ctx, &types.QueryGameInfoRequest{GameID: createResp.GameID})
	require.NoError(t, err)
	require.Equal(t, deck.Deck5Card, info.Info.DeckKind)
	require.Equal(t, 2, info.Info.NumPlayers)
	require.Equal(t, 5, info.Info.NumCards)

	numCards, err := qs.NumCards(ctx, &types.QueryNumCardsRequest{GameID: createResp.GameID})
	require.NoError(t, err)
	require.Equal(t, 5, numCards.NumCards)
}

func TestQueryGameInfoUnknownGameFails(t *testing.T) {
	_, qs, _ := newTestServers(t)
	ctx := context.Background()
	_, err := qs.GameInfo(ctx, &types.QueryGameInfoRequest{GameID: 4242})
	require.ErrorIs(t, err, types.ErrGameNotFound)
}

func TestQueryPlayerIndexSearchesBothAddressArrays(t *testing.T) {
	ms, qs, _ := newTestServers(t)
	ctx := context.Background()
	owner := testAddr(1)
	p0 := testAddr(2)
	signer0 := testAddr(3)

	createResp, err := ms.CreateGame(ctx, &types.MsgCreateGame{Sender: owner, NumPlayers: 2, DeckKind: deck.Deck5Card})
	require.NoError(t, err)
	gameID := createResp.GameID
	_, err = ms.Register(ctx, &types.MsgRegister{Sender: owner, GameID: gameID})
	require.NoError(t, err)
	_, err = ms.PlayerRegister(ctx, &types.MsgPlayerRegister{
		Sender: p0, GameID: gameID, Signer: signer0,
		PublicKeyX: big.NewInt(0), PublicKeyY: big.NewInt(1),
	})
	require.NoError(t, err)

	byPlayer, err := qs.PlayerIndex(ctx, &types.QueryPlayerIndexRequest{GameID: gameID, Address: p0})
	require.NoError(t, err)
	require.True(t, byPlayer.Found)
	require.Equal(t, 0, byPlayer.PlayerIndex)

	bySigner, err := qs.PlayerIndex(ctx, &types.QueryPlayerIndexRequest{GameID: gameID, Address: signer0})
	require.NoError(t, err)
	require.True(t, bySigner.Found)
	require.Equal(t, 0, bySigner.PlayerIndex)

	unknown, err := qs.PlayerIndex(ctx, &types.QueryPlayerIndexRequest{GameID: gameID, Address: testAddr(9)})
	require.NoError(t, err)
	require.False(t, unknown.Found)
}

// TestQueryCardValueBecomesKnownOnlyAfterFullReveal drives a 1-player deal
// (the minimal P for which a single share fully reveals a slot) and checks
// CardValue transitions from unknown to known across the decrypt.
func TestQueryCardValueBecomesKnownOnlyAfterFullReveal(t *testing.T) {
	ms, qs, _ := newTestServers(t)
	ctx := context.Background()
	owner := testAddr(1)
	p0 := testAddr(2)

	createResp, err := ms.CreateGame(ctx, &types.MsgCreateGame{Sender: owner, NumPlayers: 1, DeckKind: deck.Deck5Card})
	require.NoError(t, err)
	gameID := createResp.GameID

	_, err = ms.Register(ctx, &types.MsgRegister{Sender: owner, GameID: gameID})
	require.NoError(t, err)
	_, err = ms.PlayerRegister(ctx, &types.MsgPlayerRegister{
		Sender: p0, GameID: gameID, Signer: p0,
		PublicKeyX: big.NewInt(0), PublicKeyY: big.NewInt(1),
	})
	require.NoError(t, err)

	before, err := qs.CardValue(ctx, &types.QueryCardValueRequest{GameID: gameID, CardIndex: 0})
	require.NoError(t, err)
	require.False(t, before.Known)

	_, err = ms.Shuffle(ctx, &types.MsgShuffle{Sender: owner, GameID: gameID})
	require.NoError(t, err)
	_, err = ms.PlayerShuffle(ctx, &types.MsgPlayerShuffle{Sender: p0, GameID: gameID, NewDeck: zeroCompressed(deck.Deck5Card)})
	require.NoError(t, err)

	_, err = ms.DealCardsTo(ctx, &types.MsgDealCardsTo{Sender: owner, GameID: gameID, Mask: maskOf(0), TargetPID: 0})
	require.NoError(t, err)

	// With P = 1, curPlayerIndex never moved off 0 for the deal round (the
	// skip-the-recipient rule only applies when P > 1), so the lone player
	// is the turn-holder.
	canonical := deck.InitialX1(5)[0]
	unitDelta := types.CardDelta{Delta0: big.NewInt(1), Delta1: big.NewInt(1)}
	_, err = ms.PlayerDealCards(ctx, &types.MsgPlayerDealCards{
		Sender: p0, GameID: gameID,
		Proofs:    []types.GrothProof{{}},
		Decrypted: []types.Card{{X: canonical, Y: big.NewInt(1)}},
		Deltas:    []types.CardDelta{unitDelta},
	})
	require.NoError(t, err)

	after, err := qs.CardValue(ctx, &types.QueryCardValueRequest{GameID: gameID, CardIndex: 0})
	require.NoError(t, err)
	require.True(t, after.Known)
	require.Equal(t, 0, after.Value)

	record, err := qs.DecryptRecord(ctx, &types.QueryDecryptRecordRequest{GameID: gameID, CardIndex: 0})
	require.NoError(t, err)
	require.True(t, record.Record.Get(0))
}

func TestQueryAggregatedPkAndDeck(t *testing.T) {
	ms, qs, _ := newTestServers(t)
	ctx := context.Background()
	owner := testAddr(1)
	p0 := testAddr(2)

	createResp, err := ms.CreateGame(ctx, &types.MsgCreateGame{Sender: owner, NumPlayers: 1, DeckKind: deck.Deck5Card})
	require.NoError(t, err)
	gameID := createResp.GameID
	_, err = ms.Register(ctx, &types.MsgRegister{Sender: owner, GameID: gameID})
	require.NoError(t, err)
	_, err = ms.PlayerRegister(ctx, &types.MsgPlayerRegister{
		Sender: p0, GameID: gameID, Signer: p0,
		PublicKeyX: big.NewInt(0), PublicKeyY: big.NewInt(1),
	})
	require.NoError(t, err)

	pk, err := qs.AggregatedPk(ctx, &types.QueryAggregatedPkRequest{GameID: gameID})
	require.NoError(t, err)
	require.Equal(t, 0, pk.X.Cmp(big.NewInt(0)))
	require.Equal(t, 0, pk.Y.Cmp(big.NewInt(1)))

	deckResp, err := qs.Deck(ctx, &types.QueryDeckRequest{GameID: gameID})
	require.NoError(t, err)
	require.Equal(t, 5, deckResp.Deck.Size())
}
