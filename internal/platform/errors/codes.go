// Package errors provides structured, localizable errors for garoball services.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"
	// CodeInternal represents a failure the caller cannot fix.
	CodeInternal Code = "INTERNAL"

	// Game errors
	CodeGameIDRequired      Code = "GAME_ID_REQUIRED"
	CodeGameNotFound        Code = "GAME_NOT_FOUND"
	CodeGameCompleted       Code = "GAME_COMPLETED"
	CodeGameSetupInvalid    Code = "GAME_SETUP_INVALID"
	CodeSimulateModeInvalid Code = "SIMULATE_MODE_INVALID"
	CodeSimulateStepLimit   Code = "SIMULATE_STEP_LIMIT"
	CodePageTokenInvalid    Code = "PAGE_TOKEN_INVALID"

	// Player errors
	CodePlayerIDRequired Code = "PLAYER_ID_REQUIRED"
	CodePlayerNotFound   Code = "PLAYER_NOT_FOUND"
	CodePlayerInvalid    Code = "PLAYER_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeGameIDRequired,
		CodeGameSetupInvalid,
		CodeSimulateModeInvalid,
		CodePageTokenInvalid,
		CodePlayerIDRequired,
		CodePlayerInvalid:
		return codes.InvalidArgument
	case CodeGameCompleted:
		return codes.FailedPrecondition
	case CodeGameNotFound,
		CodePlayerNotFound:
		return codes.NotFound
	case CodeSimulateStepLimit:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
