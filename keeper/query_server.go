package keeper

import (
	"context"

	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/types"
)

// queryServer is the coordinator's read-only projection surface (spec.md
// §4.5, end of section). Every method here is free of side effects.
type queryServer struct {
	Keeper
}

var _ types.QueryServer = queryServer{}

// NewQueryServerImpl wires a Keeper into the query surface.
func NewQueryServerImpl(k Keeper) types.QueryServer {
	return &queryServer{Keeper: k}
}

func (q queryServer) GameInfo(ctx context.Context, req *types.QueryGameInfoRequest) (*types.QueryGameInfoResponse, error) {
	info, found, err := q.GetGameInfo(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	return &types.QueryGameInfoResponse{Info: info}, nil
}

func (q queryServer) GameState(ctx context.Context, req *types.QueryGameStateRequest) (*types.QueryGameStateResponse, error) {
	state, found, err := q.GetGameState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	return &types.QueryGameStateResponse{State: *state}, nil
}

func (q queryServer) NumCards(ctx context.Context, req *types.QueryNumCardsRequest) (*types.QueryNumCardsResponse, error) {
	info, found, err := q.GetGameInfo(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	return &types.QueryNumCardsResponse{NumCards: info.NumCards}, nil
}

func (q queryServer) CurPlayerIndex(ctx context.Context, req *types.QueryCurPlayerIndexRequest) (*types.QueryCurPlayerIndexResponse, error) {
	state, found, err := q.GetGameState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	return &types.QueryCurPlayerIndexResponse{CurPlayerIndex: state.CurPlayerIndex}, nil
}

func (q queryServer) DecryptRecord(ctx context.Context, req *types.QueryDecryptRecordRequest) (*types.QueryDecryptRecordResponse, error) {
	state, found, err := q.GetGameState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	if req.CardIndex < 0 || req.CardIndex >= len(state.Deck.DecryptRecord) {
		return nil, types.ErrInvalidCardSelection.Wrap("card index out of range")
	}
	return &types.QueryDecryptRecordResponse{Record: state.Deck.DecryptRecord[req.CardIndex]}, nil
}

func (q queryServer) AggregatedPk(ctx context.Context, req *types.QueryAggregatedPkRequest) (*types.QueryAggregatedPkResponse, error) {
	state, found, err := q.GetGameState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	return &types.QueryAggregatedPkResponse{X: state.AggregatePkX, Y: state.AggregatePkY}, nil
}

func (q queryServer) Deck(ctx context.Context, req *types.QueryDeckRequest) (*types.QueryDeckResponse, error) {
	state, found, err := q.GetGameState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	return &types.QueryDeckResponse{Deck: state.Deck}, nil
}

func (q queryServer) PlayerIndex(ctx context.Context, req *types.QueryPlayerIndexRequest) (*types.QueryPlayerIndexResponse, error) {
	state, found, err := q.GetGameState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	for i, a := range state.PlayerAddr {
		if a == req.Address {
			return &types.QueryPlayerIndexResponse{PlayerIndex: i, Found: true}, nil
		}
	}
	for i, a := range state.SigningAddr {
		if a == req.Address {
			return &types.QueryPlayerIndexResponse{PlayerIndex: i, Found: true}, nil
		}
	}
	return &types.QueryPlayerIndexResponse{Found: false}, nil
}

// CardValue returns Some(k) iff every registered player has contributed a
// decryption share for the slot and its x1 coordinate matches a canonical
// INIT_X1 entry; both conditions hold only after the card is fully open.
func (q queryServer) CardValue(ctx context.Context, req *types.QueryCardValueRequest) (*types.QueryCardValueResponse, error) {
	info, state, found, err := q.gameInfoAndState(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrGameNotFound.Wrapf("game %d", req.GameID)
	}
	if req.CardIndex < 0 || req.CardIndex >= len(state.Deck.X1) {
		return nil, types.ErrInvalidCardSelection.Wrap("card index out of range")
	}

	record := state.Deck.DecryptRecord[req.CardIndex]
	if record.PopcountPrefix(info.NumPlayers) != info.NumPlayers {
		return &types.QueryCardValueResponse{Known: false}, nil
	}
	idx, ok := deck.CardIndexFromX1(state.Deck.X1[req.CardIndex], info.NumCards)
	if !ok {
		return &types.QueryCardValueResponse{Known: false}, nil
	}
	return &types.QueryCardValueResponse{Value: idx, Known: true}, nil
}

func (q queryServer) gameInfoAndState(ctx context.Context, gameID uint64) (types.GameInfo, *types.GameState, bool, error) {
	info, found, err := q.GetGameInfo(ctx, gameID)
	if err != nil || !found {
		return types.GameInfo{}, nil, false, err
	}
	state, found, err := q.GetGameState(ctx, gameID)
	if err != nil || !found {
		return types.GameInfo{}, nil, false, err
	}
	return info, state, true, nil
}
