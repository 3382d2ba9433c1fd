// Package pokeapi is a minimal client for https://pokeapi.co.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 2 << 20 // pokemon documents are large but bounded
)

var (
	// ErrTimeout means the upstream did not answer within the configured timeout.
	ErrTimeout = errors.New("pokeapi request timed out")
	// ErrNotFound means the upstream answered 404 for the requested id.
	ErrNotFound = errors.New("pokemon not found")
)

// Pokemon holds the fields of /pokemon/{id} this project cares about.
type Pokemon struct {
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

// Client fetches pokemon from a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client. An empty baseURL or non-positive timeout fall back to defaults.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Pokemon fetches a single pokemon by numeric id.
func (c *Client) Pokemon(ctx context.Context, id int) (Pokemon, error) {
	url := c.baseURL + "/pokemon/" + strconv.Itoa(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Pokemon{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Pokemon{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Pokemon{}, fmt.Errorf("get pokemon %d: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Pokemon{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Pokemon{}, fmt.Errorf("get pokemon %d: unexpected status %d", id, resp.StatusCode)
	}

	var p Pokemon
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		if isTimeout(err) {
			return Pokemon{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Pokemon{}, fmt.Errorf("decode pokemon %d: %w", id, err)
	}
	return p, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
