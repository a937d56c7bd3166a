package gameapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error names reported by the game server in its 400 bodies.
const (
	ErrNameGameConflict          = "GameConflict"
	ErrNameGameNotFound          = "GameNotFound"
	ErrNamePlayerConflict        = "PlayerConflict"
	ErrNamePlayerNotFound        = "PlayerNotFound"
	ErrNameGuessedPlayerNotFound = "GuessedPlayerNotFound"
)

// HTTPError represents a non-2xx response from the game server.
type HTTPError struct {
	StatusCode int
	Body       string

	// Name and Message are decoded from a {"error", "message"} body.
	// Both are empty when the body has another shape.
	Name    string
	Message string
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: string(body)}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Name = payload.Error
		e.Message = payload.Message
	}
	return e
}

func (e *HTTPError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("gameapi: HTTP %d: %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("gameapi: HTTP %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// IsNotFound returns true if the server could not find the game or player.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404 || strings.HasSuffix(e.Name, "NotFound")
}

// IsConflict returns true if the game or player already exists.
func (e *HTTPError) IsConflict() bool {
	return e.StatusCode == 409 || strings.HasSuffix(e.Name, "Conflict")
}

// NetworkError indicates that no response was received: the request could
// not be built (e.g. unset base path), the connection failed, or the
// context was cancelled.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gameapi: %s %q: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
