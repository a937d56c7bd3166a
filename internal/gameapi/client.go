// Package gameapi provides a Go client for the brains-and-bets game server.
//
// Every operation issues exactly one HTTP request against
// BaseURL + game (+ suffix). The client never retries, never enforces a
// timeout of its own and never interprets the payload of a successful
// response beyond handing it back. Failures come back as typed errors:
//
//   - *HTTPError for any non-2xx status (the server's error name and message
//     are decoded when present)
//   - *NetworkError when no response was received, including the malformed
//     URL produced by an unset base path
//
// # Usage
//
//	client := gameapi.NewClient(gameapi.Config{
//	    BaseURL: "http://localhost:8172/api/v1/game/",
//	})
//
//	resp, err := client.CreateGame(ctx, "friday", "ada")
package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds configuration for the game API client.
type Config struct {
	// BaseURL is prepended verbatim to the game identifier, so it normally
	// ends with a slash (e.g. "http://host:8172/api/v1/game/"). It is not
	// validated or defaulted; an empty value produces requests that fail at
	// the transport layer.
	BaseURL string

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client without a timeout.
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string

	// Logger receives one debug event per request. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Client is a brains-and-bets API client. It is safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
	log    zerolog.Logger
}

// NewClient creates a new game API client with the given configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		config: cfg,
		http:   httpClient,
		log:    logger.With().Str("component", "gameapi").Logger(),
	}
}

// BaseURL returns the configured base path.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// endpoint joins the base path, game identifier and suffix by plain
// concatenation. No escaping is applied.
func (c *Client) endpoint(game, suffix string) string {
	return c.config.BaseURL + game + suffix
}

// --- Core request method ---

// do sends a single request and reads the whole response body.
// body is JSON-encoded when non-nil.
func (c *Client) do(ctx context.Context, method, game, suffix string, body any) (*Response, error) {
	url := c.endpoint(game, suffix)

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gameapi: marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("game request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
