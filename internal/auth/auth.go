// Package auth checks the tokens players present when they open a websocket
// to the blackjack server. Authentication is optional: without an auth URL
// the server runs with a NoopValidator and every connection is anonymous.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrInvalidToken means the auth service rejected the token
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnavailable means no answer could be had from the auth service.
	// Callers decide whether to let the player in anyway.
	ErrUnavailable = errors.New("auth: unavailable")
)

// DefaultTimeout bounds a single call to the auth service
const DefaultTimeout = 500 * time.Millisecond

// maxSeatName matches the longest name the table view lays out cleanly
const maxSeatName = 24

// Identity is an authenticated player
type Identity struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// SeatName is the name the player sits down under: the display name when the
// auth service has one, else the player ID, cut to fit the table.
func (id *Identity) SeatName() string {
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = strings.TrimSpace(id.PlayerID)
	}
	if utf8.RuneCountInString(name) > maxSeatName {
		name = string([]rune(name)[:maxSeatName])
	}
	return name
}

// Validator checks a token. It returns the identity for a good token,
// ErrInvalidToken for a bad one and ErrUnavailable when it cannot tell.
// A nil identity with a nil error means authentication is off.
type Validator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// TokenFromRequest reads a bearer token from the Authorization header,
// falling back to the token query parameter for browser websockets.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// Option configures an HTTPValidator
type Option func(*HTTPValidator)

// WithSecret sends secret in the X-Admin-Secret header of every call
func WithSecret(secret string) Option {
	return func(v *HTTPValidator) {
		v.secret = secret
	}
}

// WithTimeout bounds each call to the auth service
func WithTimeout(d time.Duration) Option {
	return func(v *HTTPValidator) {
		v.timeout = d
	}
}

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) Option {
	return func(v *HTTPValidator) {
		v.client = client
	}
}

// HTTPValidator asks an external service about each token. It POSTs
// {"token": ...} to url and expects {"valid", "player_id", "name"} back.
type HTTPValidator struct {
	url     string
	secret  string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPValidator creates a validator calling url
func NewHTTPValidator(url string, opts ...Option) *HTTPValidator {
	v := &HTTPValidator{
		url:     url,
		timeout: DefaultTimeout,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Validate implements Validator
func (v *HTTPValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	body, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.secret != "" {
		req.Header.Set("X-Admin-Secret", v.secret)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var result validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if !result.Valid || result.PlayerID == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{PlayerID: result.PlayerID, Name: result.Name}, nil
}

// statusError maps a non-200 reply to ErrInvalidToken or ErrUnavailable
func statusError(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrInvalidToken
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}
}

// NoopValidator lets everyone in anonymously
type NoopValidator struct{}

// NewNoopValidator creates a validator with authentication off
func NewNoopValidator() *NoopValidator {
	return &NoopValidator{}
}

// Validate implements Validator
func (v *NoopValidator) Validate(context.Context, string) (*Identity, error) {
	return nil, nil
}
