package mcp

import (
	"errors"
	"fmt"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, login.ErrUnknownUser):
		return &APIError{Code: "UNKNOWN_USER", Message: err.Error(), RecoveryHint: "Check the account name or uid"}
	case errors.Is(err, login.ErrNoDatabase):
		return &APIError{Code: "NO_DATABASE", Message: err.Error(), RecoveryHint: "Set LASTSEEN_DATABASE to a valid login database"}
	case errors.Is(err, login.ErrInvalidData):
		return &APIError{Code: "INVALID_DATA", Message: err.Error(), RecoveryHint: "The login database looks corrupt"}
	case errors.Is(err, login.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
