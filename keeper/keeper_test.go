package keeper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/internal/memkv"
	"github.com/zkshuffle/coordinator/types"
)

func TestGetConfigDefaultsWhenUnset(t *testing.T) {
	k := NewKeeper(memkv.NewService(), nil, nil)
	ctx := context.Background()

	cfg, err := k.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultConfig(), cfg)
}

func TestSetGetConfigRoundTrip(t *testing.T) {
	k := NewKeeper(memkv.NewService(), nil, nil)
	ctx := context.Background()

	cfg := types.Config{
		EncryptVerifier5Card:  testAddr(10),
		EncryptVerifier30Card: testAddr(11),
		EncryptVerifier52Card: testAddr(12),
		DecryptVerifier:       testAddr(13),
		NextGameID:            7,
	}
	require.NoError(t, k.SetConfig(ctx, cfg))

	got, err := k.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestGameInfoAndStateRoundTrip(t *testing.T) {
	k := NewKeeper(memkv.NewService(), nil, nil)
	ctx := context.Background()

	info := types.GameInfo{GameID: 3, DeckKind: deck.Deck30Card, NumCards: 30, NumPlayers: 4, EncryptVerifier: testAddr(1)}
	require.NoError(t, k.SetGameInfo(ctx, info))

	got, found, err := k.GetGameInfo(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, info, got)

	_, found, err = k.GetGameInfo(ctx, 999)
	require.NoError(t, err)
	require.False(t, found)

	state := types.NewGameState(info)
	require.NoError(t, k.SetGameState(ctx, 3, state))
	gotState, found, err := k.GetGameState(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, types.PhaseCreated, gotState.Phase)
	require.Len(t, gotState.PlayerHand, 4)
}

func TestOwnerRecordLifecycle(t *testing.T) {
	k := NewKeeper(memkv.NewService(), nil, nil)
	ctx := context.Background()

	_, found, err := k.GetOwner(ctx, 1)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, k.SetOwner(ctx, 1, testAddr(5)))
	owner, found, err := k.GetOwner(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testAddr(5), owner)

	require.NoError(t, k.DeleteOwner(ctx, 1))
	_, found, err = k.GetOwner(ctx, 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestPendingCallbackTakeClearsRecord(t *testing.T) {
	k := NewKeeper(memkv.NewService(), nil, nil)
	ctx := context.Background()

	_, found, err := k.TakePendingCallback(ctx, 1)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, k.SetPendingCallback(ctx, 1, []byte("payload")))
	payload, found, err := k.TakePendingCallback(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("payload"), payload)

	_, found, err = k.TakePendingCallback(ctx, 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestDispatchCallbackIsNoopWithoutStoredPayload(t *testing.T) {
	events := &RecordingEventSink{}
	k := NewKeeper(memkv.NewService(), nil, events)
	ctx := context.Background()

	require.NoError(t, k.dispatchCallback(ctx, 1, testAddr(1)))
	require.Empty(t, events.Events)
}
