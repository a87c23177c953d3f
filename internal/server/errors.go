// Package server provides the HTTP REST API for the career guide.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInvalidUserID indicates a malformed user ID in the path
type ErrInvalidUserID struct {
	Value string
}

func (e *ErrInvalidUserID) Error() string {
	return fmt.Sprintf("invalid user ID: %q", e.Value)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var (
		validationErr *ErrValidation
		userIDErr     *ErrInvalidUserID
		schemaErr     *schemas.ValidationError
		fieldErrs     validator.ValidationErrors
		fetchErr      *profile.FetchError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &userIDErr),
		errors.As(err, &schemaErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, profile.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrRoleNotRecommended), errors.Is(err, analysis.ErrNoCachedScores):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrNotConfigured):
		return http.StatusNotImplemented
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for an error. Internal
// failures are not echoed back.
func errorMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusUnprocessableEntity:
		return profile.InsufficientDataMessage
	case http.StatusBadGateway:
		return "Failed to fetch profile data"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
