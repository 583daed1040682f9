package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// APIError is a non-2xx reply. Message is the backend's own explanation,
// empty when it sent none.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status=%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	default:
		return nil
	}
}

// MessageOf reduces err to the one line a user sees. Backend messages and
// validation messages are shown verbatim; anything else becomes fallback.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve models.ValidationErrors
	if errors.As(err, &ve) {
		return ve.Error()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	switch {
	case errors.Is(err, common.ErrLoginRequired):
		return "Please login to continue"
	case errors.Is(err, common.ErrInvalidTransition):
		return "Only pending applications can be approved or rejected"
	case errors.Is(err, ErrUnavailable):
		return fallback + ": server unavailable"
	}
	return fallback
}
