package types

import (
	errorsmod "cosmossdk.io/errors"
	grpccodes "google.golang.org/grpc/codes"
)

// Sentinel errors for the coordinator, one per §7 error kind.
var (
	// Caller is neither the game's owner nor the current turn-holder.
	ErrUnauthorized = errorsmod.RegisterWithGRPCCode(ModuleName, 1, grpccodes.PermissionDenied, "unauthorized")

	// Queried and mutated frequently; map to HTTP 404 instead of a generic 500.
	ErrGameNotFound = errorsmod.RegisterWithGRPCCode(ModuleName, 2, grpccodes.NotFound, "game not found")

	ErrGameFull = errorsmod.RegisterWithGRPCCode(ModuleName, 3, grpccodes.FailedPrecondition, "game already has the configured number of players")

	// Carries the expected/actual phase in the wrapped message.
	ErrInvalidState = errorsmod.RegisterWithGRPCCode(ModuleName, 4, grpccodes.FailedPrecondition, "command not valid in current phase")

	ErrNotPlayersTurn = errorsmod.RegisterWithGRPCCode(ModuleName, 5, grpccodes.FailedPrecondition, "not the current turn-holder")

	ErrInvalidPlayer = errorsmod.RegisterWithGRPCCode(ModuleName, 6, grpccodes.InvalidArgument, "invalid player")

	ErrInvalidCardSelection = errorsmod.RegisterWithGRPCCode(ModuleName, 7, grpccodes.InvalidArgument, "invalid card selection")

	ErrAlreadyDecrypted = errorsmod.RegisterWithGRPCCode(ModuleName, 8, grpccodes.FailedPrecondition, "decryption share already recorded for this player and slot")

	// Wraps an underlying fieldmath/curve failure (delta out of range, inverse
	// undefined, point off-curve).
	ErrField = errorsmod.RegisterWithGRPCCode(ModuleName, 9, grpccodes.InvalidArgument, "field or curve error")

	// Exposed via grpc-gateway; map to HTTP 400 instead of a generic 500.
	ErrInvalidRequest = errorsmod.RegisterWithGRPCCode(ModuleName, 10, grpccodes.InvalidArgument, "invalid request")
)
