package service

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/pkg/api"
)

// toConnectError maps domain errors to Connect codes: invalid input becomes
// InvalidArgument, missing records NotFound, duplicates AlreadyExists and
// anything else Internal.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, calculator.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// validateRequest checks msg's struct tags.
func validateRequest(msg any) error {
	if err := api.Validate(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}
