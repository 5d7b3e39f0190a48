package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zkshuffle/coordinator/internal/bitmap"
	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/internal/memkv"
	"github.com/zkshuffle/coordinator/keeper"
	"github.com/zkshuffle/coordinator/types"
)

// NewDemoCmd runs a scripted 2-player, 5-card game from CreateGame through
// EndGame against an in-memory store, printing every command's result. It
// exercises the same command sequence as the worked shuffle-and-deal and
// open-flow examples, end to end in one process.
func NewDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "play a scripted game to completion against an in-memory store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd)
		},
	}
}

func demoAddr(label byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{label}, 20)).String()
}

func runDemo(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	ctx := context.Background()

	svc := memkv.NewService()
	k := keeper.NewKeeper(svc, nil, keeper.NoopEventSink{})
	ms := keeper.NewMsgServerImpl(k)

	owner := demoAddr(1)
	p0 := demoAddr(2)
	p1 := demoAddr(3)

	created, err := ms.CreateGame(ctx, &types.MsgCreateGame{Sender: owner, NumPlayers: 2, DeckKind: deck.Deck5Card})
	if err != nil {
		return err
	}
	gameID := created.GameID
	fmt.Fprintf(out, "created game %d\n", gameID)

	if _, err := ms.Register(ctx, &types.MsgRegister{Sender: owner, GameID: gameID}); err != nil {
		return err
	}
	fmt.Fprintln(out, "registration open")

	for i, addr := range []string{p0, p1} {
		resp, err := ms.PlayerRegister(ctx, &types.MsgPlayerRegister{
			Sender: addr, GameID: gameID, Signer: addr,
			PublicKeyX: big.NewInt(0), PublicKeyY: big.NewInt(1),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "player %d registered at index %d\n", i, resp.PlayerIndex)
	}

	if _, err := ms.Shuffle(ctx, &types.MsgShuffle{Sender: owner, GameID: gameID}); err != nil {
		return err
	}
	fmt.Fprintln(out, "shuffle round opened")

	zero := zeroCompressedDeck(deck.Deck5Card)
	for i, addr := range []string{p0, p1} {
		if _, err := ms.PlayerShuffle(ctx, &types.MsgPlayerShuffle{Sender: addr, GameID: gameID, NewDeck: zero}); err != nil {
			return err
		}
		fmt.Fprintf(out, "player %d shuffled\n", i)
	}

	mask := bitmap.Zero()
	mask.Set(0)
	if _, err := ms.DealCardsTo(ctx, &types.MsgDealCardsTo{Sender: owner, GameID: gameID, Mask: mask, TargetPID: 0}); err != nil {
		return err
	}
	fmt.Fprintln(out, "dealing one card to player 0")

	unitDelta := types.CardDelta{Delta0: big.NewInt(1), Delta1: big.NewInt(1)}
	if _, err := ms.PlayerDealCards(ctx, &types.MsgPlayerDealCards{
		Sender: p1, GameID: gameID,
		Proofs:    []types.GrothProof{{}},
		Decrypted: []types.Card{{X: big.NewInt(7), Y: big.NewInt(8)}},
		Deltas:    []types.CardDelta{unitDelta},
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, "player 1 contributed the decryption share")

	if _, err := ms.OpenCards(ctx, &types.MsgOpenCards{Sender: owner, GameID: gameID, PID: 0, Count: 1}); err != nil {
		return err
	}
	fmt.Fprintln(out, "opening 1 card for player 0")

	if _, err := ms.PlayerOpenCards(ctx, &types.MsgPlayerOpenCards{
		Sender: p0, GameID: gameID,
		Mask:      mask,
		Proofs:    []types.GrothProof{{}},
		Decrypted: []types.Card{{X: big.NewInt(11), Y: big.NewInt(12)}},
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, "player 0 opened the card")

	if _, err := ms.EndGame(ctx, &types.MsgEndGame{Sender: owner, GameID: gameID}); err != nil {
		return err
	}
	fmt.Fprintln(out, "game ended")

	state, _, err := k.GetGameState(ctx, gameID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "final phase: %s, player 0 hand: %d\n", state.Phase, state.PlayerHand[0])
	return nil
}

func zeroCompressedDeck(kind deck.Kind) deck.Compressed {
	n := kind.NumCards()
	x0 := make([]*big.Int, n)
	x1 := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		x0[i] = big.NewInt(0)
		x1[i] = big.NewInt(0)
	}
	return deck.Compressed{
		Kind:      kind,
		X0:        x0,
		X1:        x1,
		Selector0: bitmap.Zero(),
		Selector1: bitmap.Zero(),
	}
}
