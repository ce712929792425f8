package types

import (
	"errors"

	"github.com/soundbridge/directorcore/internal/director"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// API error codes for amplifier failures.
const (
	CodeBadCommand      = "bad_command"
	CodeEchoMismatch    = "echo_mismatch"
	CodeTruncated       = "truncated_response"
	CodeMalformedStatus = "malformed_status"
	CodeVolumeRange     = "volume_out_of_range"
	CodeAmplifier       = "amplifier_error"
)

// NewErrorResponse builds a consistent API error payload.
// details can be string, map, struct, etc.
func NewErrorResponse(code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// FromAmplifierError maps protocol-level failures onto API error codes so
// REST clients can branch without string matching.
func FromAmplifierError(err error) ErrorResponse {
	code := CodeAmplifier

	var mismatch *director.EchoMismatchError
	var malformed *director.MalformedRowError
	switch {
	case errors.Is(err, director.ErrBadCommand):
		code = CodeBadCommand
	case errors.Is(err, director.ErrVolumeOutOfRange):
		code = CodeVolumeRange
	case errors.Is(err, director.ErrTruncatedResponse):
		code = CodeTruncated
	case errors.As(err, &mismatch):
		code = CodeEchoMismatch
	case errors.As(err, &malformed):
		code = CodeMalformedStatus
	}

	return NewErrorResponse(code, err.Error(), nil)
}
