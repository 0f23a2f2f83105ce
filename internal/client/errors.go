package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoRefreshToken is returned when a token renewal is attempted without a
// stored refresh token. The HTTP client treats it like any other refresh
// failure: the session is cleared and the caller's request fails.
var ErrNoRefreshToken = errors.New("no refresh token available")

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 from the platform.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// apiError builds an APIError from a response body, which may carry the
// message under "error" (gin style) or "message" (Spring style).
func apiError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil {
			msg = payload.Error
			if msg == "" {
				msg = payload.Message
			}
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}
