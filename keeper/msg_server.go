package keeper

import (
	"context"
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zkshuffle/coordinator/internal/curve"
	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/internal/fieldmath"
	"github.com/zkshuffle/coordinator/types"
)

// msgServer is the coordinator's mutating command surface, the Coordinator
// component of spec.md §4.5. Every method below executes to completion and
// either persists every mutation it made or returns an error with nothing
// written; there is no partial-effect path (see spec.md §5).
type msgServer struct {
	Keeper
}

var _ types.MsgServer = msgServer{}

// NewMsgServerImpl wires a Keeper into the command surface.
func NewMsgServerImpl(k Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

// normalizeAddr validates s as bech32 and returns its canonical string form,
// the same sdk.AccAddressFromBech32 call the teacher's msg_server.go makes
// on every Sit/Act command.
func normalizeAddr(s string) (string, error) {
	addr, err := sdk.AccAddressFromBech32(s)
	if err != nil {
		return "", types.ErrInvalidRequest.Wrapf("invalid address %q: %v", s, err)
	}
	return addr.String(), nil
}

func requirePhase(state *types.GameState, want types.Phase) error {
	if state.Phase != want {
		return types.ErrInvalidState.Wrapf("expected phase %s, got %s", want, state.Phase)
	}
	return nil
}

func isTurnHolder(state *types.GameState, sender string) bool {
	cur := state.CurPlayerIndex
	if cur < 0 || cur >= len(state.PlayerAddr) {
		return false
	}
	return sender == state.PlayerAddr[cur] || sender == state.SigningAddr[cur]
}

// loadGame fetches GameInfo and GameState for gameID, failing GameNotFound
// if either is absent.
func (m msgServer) loadGame(ctx context.Context, gameID uint64) (types.GameInfo, *types.GameState, error) {
	info, found, err := m.GetGameInfo(ctx, gameID)
	if err != nil {
		return types.GameInfo{}, nil, err
	}
	if !found {
		return types.GameInfo{}, nil, types.ErrGameNotFound.Wrapf("game %d", gameID)
	}
	state, found, err := m.GetGameState(ctx, gameID)
	if err != nil {
		return types.GameInfo{}, nil, err
	}
	if !found {
		return types.GameInfo{}, nil, types.ErrGameNotFound.Wrapf("game %d", gameID)
	}
	return info, state, nil
}

// requireOwner fails Unauthorized unless sender is the game's owner, and
// GameNotFound if the game has no active owner record (unknown id, or the
// game already reached Complete).
func (m msgServer) requireOwner(ctx context.Context, gameID uint64, sender string) error {
	owner, found, err := m.GetOwner(ctx, gameID)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrGameNotFound.Wrapf("game %d", gameID)
	}
	if owner != sender {
		return types.ErrUnauthorized.Wrap("sender is not the game owner")
	}
	return nil
}

// ---- CreateGame ----

func (m msgServer) CreateGame(ctx context.Context, req *types.MsgCreateGame) (*types.MsgCreateGameResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if req.NumPlayers <= 0 {
		return nil, types.ErrInvalidPlayer.Wrap("numPlayers must be > 0")
	}

	cfg, err := m.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	verifier, err := cfg.EncryptVerifierFor(req.DeckKind)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrap(err.Error())
	}

	gameID := cfg.NextGameID
	cfg.NextGameID++
	if err := m.SetConfig(ctx, cfg); err != nil {
		return nil, err
	}

	info := types.GameInfo{
		GameID:          gameID,
		DeckKind:        req.DeckKind,
		NumCards:        req.DeckKind.NumCards(),
		NumPlayers:      req.NumPlayers,
		EncryptVerifier: verifier,
	}
	if err := m.SetGameInfo(ctx, info); err != nil {
		return nil, err
	}

	state := types.NewGameState(info)
	if err := m.SetGameState(ctx, gameID, state); err != nil {
		return nil, err
	}
	if err := m.SetOwner(ctx, gameID, sender); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameCreated, map[string]string{
		types.AttributeKeyGameID: uitoa(gameID),
	})
	return &types.MsgCreateGameResponse{GameID: gameID}, nil
}

// ---- Register ----

func (m msgServer) Register(ctx context.Context, req *types.MsgRegister) (*types.MsgRegisterResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.requireOwner(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	_, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if err := requirePhase(state, types.PhaseCreated); err != nil {
		return nil, err
	}

	state.Phase = types.PhaseRegistration
	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}
	if err := m.SetPendingCallback(ctx, req.GameID, req.Callback); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameRegistering, map[string]string{
		types.AttributeKeyGameID: uitoa(req.GameID),
	})
	return &types.MsgRegisterResponse{}, nil
}

// ---- PlayerRegister ----

func (m msgServer) PlayerRegister(ctx context.Context, req *types.MsgPlayerRegister) (*types.MsgPlayerRegisterResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	signer, err := normalizeAddr(req.Signer)
	if err != nil {
		return nil, err
	}
	if req.PublicKeyX == nil || req.PublicKeyY == nil {
		return nil, types.ErrInvalidPlayer.Wrap("missing public key")
	}

	info, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if err := requirePhase(state, types.PhaseRegistration); err != nil {
		return nil, err
	}
	if len(state.PlayerAddr) >= info.NumPlayers {
		return nil, types.ErrGameFull
	}
	if !curve.IsOnCurve(req.PublicKeyX, req.PublicKeyY) {
		return nil, types.ErrInvalidPlayer.Wrap("public key is not on curve")
	}

	aggregate, err := curve.Add(
		curve.Point{X: state.AggregatePkX, Y: state.AggregatePkY},
		curve.Point{X: req.PublicKeyX, Y: req.PublicKeyY},
	)
	if err != nil {
		return nil, types.ErrField.Wrap(err.Error())
	}

	state.PlayerAddr = append(state.PlayerAddr, sender)
	state.SigningAddr = append(state.SigningAddr, signer)
	state.PlayerPkX = append(state.PlayerPkX, new(big.Int).Set(req.PublicKeyX))
	state.PlayerPkY = append(state.PlayerPkY, new(big.Int).Set(req.PublicKeyY))
	state.AggregatePkX = aggregate.X
	state.AggregatePkY = aggregate.Y
	playerIndex := len(state.PlayerAddr) - 1

	if len(state.PlayerAddr) == info.NumPlayers {
		state.Nonce = fieldmath.MulModQ(state.AggregatePkX, state.AggregatePkY)
	}

	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypePlayerRegistered, map[string]string{
		types.AttributeKeyGameID:      uitoa(req.GameID),
		types.AttributeKeyPlayerIndex: uitoa(uint64(playerIndex)),
		types.AttributeKeyPlayerAddr:  sender,
	})

	if len(state.PlayerAddr) == info.NumPlayers {
		owner, _, err := m.GetOwner(ctx, req.GameID)
		if err != nil {
			return nil, err
		}
		if err := m.dispatchCallback(ctx, req.GameID, owner); err != nil {
			return nil, err
		}
	}

	return &types.MsgPlayerRegisterResponse{PlayerIndex: playerIndex}, nil
}

// ---- Shuffle ----

func (m msgServer) Shuffle(ctx context.Context, req *types.MsgShuffle) (*types.MsgShuffleResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.requireOwner(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	_, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if state.CurPlayerIndex != 0 {
		return nil, types.ErrInvalidState.Wrap("curPlayerIndex must be 0 to start a shuffle round")
	}

	state.Phase = types.PhaseShuffle
	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}
	if err := m.SetPendingCallback(ctx, req.GameID, req.Callback); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameShuffling, map[string]string{
		types.AttributeKeyGameID: uitoa(req.GameID),
	})
	return &types.MsgShuffleResponse{}, nil
}

// ---- PlayerShuffle ----

func (m msgServer) PlayerShuffle(ctx context.Context, req *types.MsgPlayerShuffle) (*types.MsgPlayerShuffleResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}

	info, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if err := requirePhase(state, types.PhaseShuffle); err != nil {
		return nil, err
	}
	if !isTurnHolder(state, sender) {
		return nil, types.ErrNotPlayersTurn
	}

	old := state.Deck.Compressed()
	publicInput, err := deck.ShufflePublicInput(req.NewDeck, old, state.Nonce, state.AggregatePkX, state.AggregatePkY)
	if err != nil {
		return nil, types.ErrInvalidCardSelection.Wrap(err.Error())
	}

	if err := state.Deck.SetFromCompressed(req.NewDeck); err != nil {
		return nil, types.ErrInvalidCardSelection.Wrap(err.Error())
	}

	state.CurPlayerIndex = (state.CurPlayerIndex + 1) % info.NumPlayers
	wrapped := state.CurPlayerIndex == 0

	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeDeckShuffled, map[string]string{
		types.AttributeKeyGameID:      uitoa(req.GameID),
		types.AttributeKeyPlayerIndex: uitoa(uint64(state.CurPlayerIndex)),
	})

	if wrapped {
		owner, _, err := m.GetOwner(ctx, req.GameID)
		if err != nil {
			return nil, err
		}
		if err := m.dispatchCallback(ctx, req.GameID, owner); err != nil {
			return nil, err
		}
	}

	return &types.MsgPlayerShuffleResponse{PublicInput: publicInput}, nil
}

// ---- DealCardsTo ----

func (m msgServer) DealCardsTo(ctx context.Context, req *types.MsgDealCardsTo) (*types.MsgDealCardsToResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.requireOwner(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	info, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if state.CurPlayerIndex != 0 {
		return nil, types.ErrInvalidState.Wrap("curPlayerIndex must be 0 to start a deal round")
	}
	if req.TargetPID < 0 || req.TargetPID >= info.NumPlayers {
		return nil, types.ErrInvalidPlayer.Wrap("targetPid out of range")
	}

	state.Phase = types.PhaseDeal
	state.Deck.CardsToDeal = req.Mask
	state.Deck.PlayerToDeal = uint32(req.TargetPID)
	if req.TargetPID == 0 && info.NumPlayers > 1 {
		state.CurPlayerIndex = 1
	} else {
		state.CurPlayerIndex = 0
	}

	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}
	if err := m.SetPendingCallback(ctx, req.GameID, req.Callback); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameDealing, map[string]string{
		types.AttributeKeyGameID: uitoa(req.GameID),
	})
	return &types.MsgDealCardsToResponse{}, nil
}

// ---- PlayerDealCards ----

func (m msgServer) PlayerDealCards(ctx context.Context, req *types.MsgPlayerDealCards) (*types.MsgPlayerDealCardsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}

	info, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if err := requirePhase(state, types.PhaseDeal); err != nil {
		return nil, err
	}
	if !isTurnHolder(state, sender) {
		return nil, types.ErrNotPlayersTurn
	}

	n := info.NumCards
	m2 := state.Deck.CardsToDeal.PopcountPrefix(n)
	if len(req.Proofs) != m2 || len(req.Decrypted) != m2 || len(req.Deltas) != m2 {
		return nil, types.ErrInvalidCardSelection.Wrap("proof/decrypted/delta count must match cardsToDeal popcount")
	}

	j := 0
	for i := 0; i < n; i++ {
		if !state.Deck.CardsToDeal.Get(i) {
			continue
		}
		if err := applyDecryption(state.Deck, state.CurPlayerIndex, i, req.Decrypted[j], req.Deltas[j]); err != nil {
			return nil, err
		}
		j++
	}

	next := (state.CurPlayerIndex + 1) % info.NumPlayers
	if next == int(state.Deck.PlayerToDeal) && next != 0 {
		next = (next + 1) % info.NumPlayers
	}
	wrapped := next == 0
	state.CurPlayerIndex = next

	if wrapped {
		state.PlayerHand[state.Deck.PlayerToDeal] += uint32(m2)
	}

	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeCardsDealt, map[string]string{
		types.AttributeKeyGameID:        uitoa(req.GameID),
		types.AttributeKeyCardsRevealed: uitoa(uint64(m2)),
	})

	if wrapped {
		owner, _, err := m.GetOwner(ctx, req.GameID)
		if err != nil {
			return nil, err
		}
		if err := m.dispatchCallback(ctx, req.GameID, owner); err != nil {
			return nil, err
		}
	}

	return &types.MsgPlayerDealCardsResponse{}, nil
}

// ---- OpenCards ----

func (m msgServer) OpenCards(ctx context.Context, req *types.MsgOpenCards) (*types.MsgOpenCardsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.requireOwner(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	info, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if req.PID < 0 || req.PID >= info.NumPlayers {
		return nil, types.ErrInvalidPlayer.Wrap("pid out of range")
	}
	if req.Count < 0 || uint32(req.Count) > state.PlayerHand[req.PID] {
		return nil, types.ErrInvalidCardSelection.Wrap("opening count exceeds player's hand")
	}

	state.Phase = types.PhaseOpen
	state.Opening = req.Count
	state.CurPlayerIndex = req.PID

	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}
	if err := m.SetPendingCallback(ctx, req.GameID, req.Callback); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameOpening, map[string]string{
		types.AttributeKeyGameID:      uitoa(req.GameID),
		types.AttributeKeyPlayerIndex: uitoa(uint64(req.PID)),
	})
	return &types.MsgOpenCardsResponse{}, nil
}

// ---- PlayerOpenCards ----

func (m msgServer) PlayerOpenCards(ctx context.Context, req *types.MsgPlayerOpenCards) (*types.MsgPlayerOpenCardsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}

	info, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if err := requirePhase(state, types.PhaseOpen); err != nil {
		return nil, err
	}
	if !isTurnHolder(state, sender) {
		return nil, types.ErrNotPlayersTurn
	}

	n := info.NumCards
	count := req.Mask.PopcountPrefix(n)
	if count != state.Opening || len(req.Proofs) != count || len(req.Decrypted) != count {
		return nil, types.ErrInvalidCardSelection.Wrap("mask/proof/decrypted count must match the opening count")
	}

	zeroDelta := types.CardDelta{Delta0: big.NewInt(0), Delta1: big.NewInt(0)}
	j := 0
	for i := 0; i < n; i++ {
		if !req.Mask.Get(i) {
			continue
		}
		if err := applyDecryption(state.Deck, state.CurPlayerIndex, i, req.Decrypted[j], zeroDelta); err != nil {
			return nil, err
		}
		j++
	}

	pid := state.CurPlayerIndex
	state.PlayerHand[pid] -= uint32(count)
	state.Opening = 0
	state.CurPlayerIndex = 0

	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeCardsOpened, map[string]string{
		types.AttributeKeyGameID:        uitoa(req.GameID),
		types.AttributeKeyPlayerIndex:   uitoa(uint64(pid)),
		types.AttributeKeyCardsRevealed: uitoa(uint64(count)),
	})

	owner, _, err := m.GetOwner(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if err := m.dispatchCallback(ctx, req.GameID, owner); err != nil {
		return nil, err
	}

	return &types.MsgPlayerOpenCardsResponse{}, nil
}

// ---- EndGame ----

func (m msgServer) EndGame(ctx context.Context, req *types.MsgEndGame) (*types.MsgEndGameResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.requireOwner(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	_, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	state.Phase = types.PhaseComplete
	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}
	if err := m.DeleteOwner(ctx, req.GameID); err != nil {
		return nil, err
	}
	if err := m.DeletePendingCallback(ctx, req.GameID); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameCompleted, map[string]string{
		types.AttributeKeyGameID: uitoa(req.GameID),
	})
	return &types.MsgEndGameResponse{}, nil
}

// ---- Error ----

func (m msgServer) Error(ctx context.Context, req *types.MsgError) (*types.MsgErrorResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	sender, err := normalizeAddr(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.requireOwner(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	_, state, err := m.loadGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	state.Phase = types.PhaseGameError
	if err := m.SetGameState(ctx, req.GameID, state); err != nil {
		return nil, err
	}
	if err := m.SetPendingCallback(ctx, req.GameID, req.Callback); err != nil {
		return nil, err
	}

	m.events.EmitEvent(ctx, types.EventTypeGameErrored, map[string]string{
		types.AttributeKeyGameID: uitoa(req.GameID),
	})

	if err := m.dispatchCallback(ctx, req.GameID, sender); err != nil {
		return nil, err
	}
	return &types.MsgErrorResponse{}, nil
}

// applyDecryption performs the per-slot decryption update shared by
// PlayerDealCards and PlayerOpenCards (spec.md §4.5): reject a repeat share
// from the same player, recover y0/y1 from the compressed form on the
// card's first-ever decrypt, overwrite x1/y1 with the supplied re-masked
// point, then record the contributing player's bit.
func applyDecryption(d *deck.Deck, curPlayer int, slot int, decrypted types.Card, delta types.CardDelta) error {
	if d.DecryptRecord[slot].Get(curPlayer) {
		return types.ErrAlreadyDecrypted
	}
	if d.DecryptRecord[slot].IsZero() {
		y0, err := curve.RecoverY(d.X0[slot], delta.Delta0, d.Selector0.Get(slot))
		if err != nil {
			return types.ErrField.Wrap(err.Error())
		}
		y1, err := curve.RecoverY(d.X1[slot], delta.Delta1, d.Selector1.Get(slot))
		if err != nil {
			return types.ErrField.Wrap(err.Error())
		}
		d.Y0[slot] = y0
		d.Y1[slot] = y1
	}
	d.X1[slot] = new(big.Int).Set(decrypted.X)
	d.Y1[slot] = new(big.Int).Set(decrypted.Y)
	d.DecryptRecord[slot].Set(curPlayer)
	return nil
}

