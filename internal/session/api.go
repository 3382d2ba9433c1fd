package session

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

	pp "pokemon_portal"
)

const defaultAPITimeout = 10 * time.Second

// API is the slice of the backend the session store talks to.
type API interface {
	Login(ctx context.Context, username, password string) (pp.LoginResponse, error)
	Register(ctx context.Context, username, password, confirmPassword string) (pp.RegisterResponse, error)
	Me(ctx context.Context, token string) (pp.UserProfile, error)
}

// APIError is a non-2xx answer. Message is the server's "error" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Unauthorized reports a 401 answer.
func (e *APIError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// HTTPClient talks JSON to the portal backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ API = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (pp.LoginResponse, error) {
	var out pp.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", pp.LoginRequest{Username: username, Password: password}, &out)
	return out, err
}

func (c *HTTPClient) Register(ctx context.Context, username, password, confirmPassword string) (pp.RegisterResponse, error) {
	var out pp.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "", pp.RegisterRequest{
		Username:        username,
		Password:        password,
		ConfirmPassword: confirmPassword,
	}, &out)
	return out, err
}

func (c *HTTPClient) Me(ctx context.Context, token string) (pp.UserProfile, error) {
	var out pp.UserProfile
	err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out)
	return out, err
}

// Sprites lists the shared sprite collection.
func (c *HTTPClient) Sprites(ctx context.Context, token string) ([]pp.Sprite, error) {
	var out []pp.Sprite
	err := c.do(ctx, http.MethodGet, "/pokemon", token, nil, &out)
	return out, err
}

// RandomSprite asks the backend to fetch and store a random sprite; it returns the image URL.
func (c *HTTPClient) RandomSprite(ctx context.Context, token string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	err := c.do(ctx, http.MethodGet, "/pokemon/random", token, nil, &out)
	return out.URL, err
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e pp.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// messageFor picks the server-provided message when there is one.
func messageFor(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
