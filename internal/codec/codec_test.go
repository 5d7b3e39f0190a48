package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkshuffle/coordinator/internal/bitmap"
	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/types"
)

func TestConfigRoundTrip(t *testing.T) {
	c := types.Config{
		EncryptVerifier5Card:  "cosmos1aaa",
		EncryptVerifier30Card: "cosmos1bbb",
		EncryptVerifier52Card: "cosmos1ccc",
		DecryptVerifier:       "cosmos1ddd",
		NextGameID:            42,
	}
	got, err := DecodeConfig(EncodeConfig(c))
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestGameInfoRoundTrip(t *testing.T) {
	info := types.GameInfo{
		GameID:          7,
		DeckKind:        deck.Deck30Card,
		NumCards:        30,
		NumPlayers:      3,
		EncryptVerifier: "cosmos1verifier",
	}
	got, err := DecodeGameInfo(EncodeGameInfo(info))
	require.NoError(t, err)
	require.Equal(t, info, got)
}

func TestGameStateRoundTripWithDeck(t *testing.T) {
	d := deck.New(deck.Deck5Card)
	d.X0[0] = big.NewInt(123)
	d.Y1[2] = big.NewInt(456)
	d.DecryptRecord[1].Set(0)
	d.CardsToDeal.Set(3)
	d.PlayerToDeal = 1

	s := types.GameState{
		Phase:          types.PhaseDeal,
		Opening:        0,
		CurPlayerIndex: 1,
		AggregatePkX:   big.NewInt(10),
		AggregatePkY:   big.NewInt(20),
		Nonce:          big.NewInt(99),
		PlayerAddr:     []string{"a1", "a2"},
		SigningAddr:    []string{"s1", "s2"},
		PlayerPkX:      []*big.Int{big.NewInt(1), big.NewInt(2)},
		PlayerPkY:      []*big.Int{big.NewInt(3), big.NewInt(4)},
		PlayerHand:     []uint32{2, 0},
		Deck:           d,
	}

	got, err := DecodeGameState(EncodeGameState(s))
	require.NoError(t, err)

	require.Equal(t, s.Phase, got.Phase)
	require.Equal(t, s.CurPlayerIndex, got.CurPlayerIndex)
	require.Equal(t, 0, s.AggregatePkX.Cmp(got.AggregatePkX))
	require.Equal(t, 0, s.Nonce.Cmp(got.Nonce))
	require.Equal(t, s.PlayerAddr, got.PlayerAddr)
	require.Equal(t, s.SigningAddr, got.SigningAddr)
	require.Equal(t, s.PlayerHand, got.PlayerHand)

	require.Equal(t, 0, d.X0[0].Cmp(got.Deck.X0[0]))
	require.Equal(t, 0, d.Y1[2].Cmp(got.Deck.Y1[2]))
	require.True(t, got.Deck.DecryptRecord[1].Get(0))
	require.True(t, got.Deck.CardsToDeal.Get(3))
	require.Equal(t, uint32(1), got.Deck.PlayerToDeal)
	require.True(t, bitmap.Equal(d.Selector0, got.Deck.Selector0))
}

func TestDecodeTruncatedFails(t *testing.T) {
	info := types.GameInfo{GameID: 1, DeckKind: deck.Deck5Card, NumCards: 5, NumPlayers: 2}
	enc := EncodeGameInfo(info)
	_, err := DecodeGameInfo(enc[:len(enc)-2])
	require.ErrorIs(t, err, ErrTruncated)
}
