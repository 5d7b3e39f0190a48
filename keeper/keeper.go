// Package keeper implements the Coordinator component of spec.md §4.5: the
// command/query surface, phase transitions, authorization, and callback
// dispatch for a zkShuffle-style mental-poker game, rendered as a
// Cosmos-SDK-style module keeper in the idiom of the teacher repo's
// x/poker and x/dealer keepers.
package keeper

import (
	"context"
	"strconv"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"

	"github.com/zkshuffle/coordinator/internal/codec"
	"github.com/zkshuffle/coordinator/types"
)

func uitoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// Keeper holds the coordinator's storage handle and ambient collaborators.
// Unlike the teacher's keeper (which unwraps an sdk.Context on every call
// for both logging and eventing), this keeper takes its logger and event
// sink at construction time: the commands below only ever need a plain
// context.Context to reach the store.
type Keeper struct {
	storeService corestore.KVStoreService
	logger       log.Logger
	events       EventSink
}

// NewKeeper builds a Keeper. A nil logger defaults to a no-op logger; a nil
// EventSink defaults to NoopEventSink.
func NewKeeper(storeService corestore.KVStoreService, logger log.Logger, events EventSink) Keeper {
	if storeService == nil {
		panic("zkshuffle keeper: store service is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if events == nil {
		events = NoopEventSink{}
	}
	return Keeper{
		storeService: storeService,
		logger:       logger.With("module", "x/"+types.ModuleName),
		events:       events,
	}
}

// Logger returns the keeper's module-scoped logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

func (k Keeper) store(ctx context.Context) corestore.KVStore {
	return k.storeService.OpenKVStore(ctx)
}

// ---- Config (global record: verifier addresses + nextGameId) ----

func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	bz, err := k.store(ctx).Get(types.ConfigKey)
	if err != nil {
		return types.Config{}, err
	}
	if bz == nil {
		return types.DefaultConfig(), nil
	}
	return codec.DecodeConfig(bz)
}

func (k Keeper) SetConfig(ctx context.Context, cfg types.Config) error {
	return k.store(ctx).Set(types.ConfigKey, codec.EncodeConfig(cfg))
}

// ---- GameInfo (immutable after creation) ----

func (k Keeper) GetGameInfo(ctx context.Context, gameID uint64) (types.GameInfo, bool, error) {
	bz, err := k.store(ctx).Get(types.GameInfoKey(gameID))
	if err != nil || bz == nil {
		return types.GameInfo{}, false, err
	}
	info, err := codec.DecodeGameInfo(bz)
	return info, err == nil, err
}

func (k Keeper) SetGameInfo(ctx context.Context, info types.GameInfo) error {
	return k.store(ctx).Set(types.GameInfoKey(info.GameID), codec.EncodeGameInfo(info))
}

// ---- GameState (mutated by every write command) ----

func (k Keeper) GetGameState(ctx context.Context, gameID uint64) (*types.GameState, bool, error) {
	bz, err := k.store(ctx).Get(types.GameStateKey(gameID))
	if err != nil || bz == nil {
		return nil, false, err
	}
	state, err := codec.DecodeGameState(bz)
	if err != nil {
		return nil, false, err
	}
	return &state, true, nil
}

func (k Keeper) SetGameState(ctx context.Context, gameID uint64, state *types.GameState) error {
	return k.store(ctx).Set(types.GameStateKey(gameID), codec.EncodeGameState(*state))
}

// ---- active_games: owner address, present iff phase != Complete ----

func (k Keeper) GetOwner(ctx context.Context, gameID uint64) (string, bool, error) {
	bz, err := k.store(ctx).Get(types.ActiveGameOwnerKey(gameID))
	if err != nil || bz == nil {
		return "", false, err
	}
	return string(bz), true, nil
}

func (k Keeper) SetOwner(ctx context.Context, gameID uint64, owner string) error {
	return k.store(ctx).Set(types.ActiveGameOwnerKey(gameID), []byte(owner))
}

func (k Keeper) DeleteOwner(ctx context.Context, gameID uint64) error {
	return k.store(ctx).Delete(types.ActiveGameOwnerKey(gameID))
}

// ---- next_callback: opaque payload, written at phase-start, removed at
// phase-completion ----

func (k Keeper) GetPendingCallback(ctx context.Context, gameID uint64) ([]byte, bool, error) {
	bz, err := k.store(ctx).Get(types.PendingCallbackKey(gameID))
	if err != nil || bz == nil {
		return nil, false, err
	}
	return bz, true, nil
}

// SetPendingCallback stores payload for dispatch at the next phase-completion
// edge. An empty payload means "no callback" and clears any existing record
// instead of storing one, matching the Rust original's store_callback(None):
// a zero-length stored value is still a present key to Get, so this guards
// dispatchCallback against firing on a callback that was never really set.
func (k Keeper) SetPendingCallback(ctx context.Context, gameID uint64, payload []byte) error {
	if len(payload) == 0 {
		return k.store(ctx).Delete(types.PendingCallbackKey(gameID))
	}
	return k.store(ctx).Set(types.PendingCallbackKey(gameID), payload)
}

func (k Keeper) DeletePendingCallback(ctx context.Context, gameID uint64) error {
	return k.store(ctx).Delete(types.PendingCallbackKey(gameID))
}

// TakePendingCallback loads and clears the stored payload for gameID, the
// "clear before dispatch" step the design notes call for so a replayed
// command can never re-fire a consumed callback.
func (k Keeper) TakePendingCallback(ctx context.Context, gameID uint64) ([]byte, bool, error) {
	payload, found, err := k.GetPendingCallback(ctx, gameID)
	if err != nil || !found {
		return nil, found, err
	}
	if err := k.DeletePendingCallback(ctx, gameID); err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// dispatchCallback loads, clears and emits the stored callback for gameID,
// if one is present. No-op (and no event) if nothing was stored, per the
// "dispatch is exactly once per stored payload" rule.
func (k Keeper) dispatchCallback(ctx context.Context, gameID uint64, owner string) error {
	payload, found, err := k.TakePendingCallback(ctx, gameID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	k.events.EmitEvent(ctx, types.EventTypeCallbackDispatched, map[string]string{
		types.AttributeKeyGameID: uitoa(gameID),
		"owner":                 owner,
		"payload_len":           uitoa(uint64(len(payload))),
	})
	return nil
}
