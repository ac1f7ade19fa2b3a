// Package findash provides a Go SDK for the FinDash dashboard API. The
// client keeps the server-issued session cookie in its jar; callers never
// handle the credential directly and infer session presence from whether
// Me succeeds.
package findash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// APIError is the single error type surfaced for any failed API call.
// Message is display-ready; transport and payload detail are not preserved.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to a findash-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new findash API client. The cookie jar holds the
// session credential set by Login.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// errorBody matches the server's error payload. Detail is either a plain
// message or a list of field-level validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Msg string   `json:"msg"`
	Loc []string `json:"loc"`
}

// composeError turns a non-2xx response into an *APIError. It prefers the
// structured detail field, joining field-level messages when the server
// returns a list, and falls back to the raw status line plus body text.
func composeError(status string, code int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(eb.Detail, &msg); err == nil && msg != "" {
			return &APIError{Status: code, Message: msg}
		}
		var fields []fieldError
		if err := json.Unmarshal(eb.Detail, &fields); err == nil && len(fields) > 0 {
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				if len(f.Loc) > 0 {
					parts = append(parts, f.Loc[len(f.Loc)-1]+": "+f.Msg)
				} else {
					parts = append(parts, f.Msg)
				}
			}
			return &APIError{Status: code, Message: strings.Join(parts, "; ")}
		}
	}
	msg := status
	if text := strings.TrimSpace(string(body)); text != "" {
		msg += ": " + text
	}
	return &APIError{Status: code, Message: msg}
}

// do sends one request and decodes the JSON response into dest (skipped when
// dest is nil). Every failure mode comes back as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("encoding request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("building request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return composeError(resp.Status, resp.StatusCode, raw)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// Health checks server availability.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, nil, &hs); err != nil {
		return nil, err
	}
	return &hs, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", nil, credentials{email, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, credentials{email, password}, nil)
}

// Me returns the identity behind the current session cookie. It fails when
// no valid session is held.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout clears the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil)
}

// Watchlist lists the session user's watchlist in server order.
func (c *Client) Watchlist(ctx context.Context) ([]WatchlistItem, error) {
	var items []WatchlistItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/watchlist/", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddSymbol appends a symbol to the watchlist. The server enforces
// per-user symbol uniqueness and rejects unknown tickers.
func (c *Client) AddSymbol(ctx context.Context, symbol string) (*WatchlistItem, error) {
	var item WatchlistItem
	body := map[string]string{"symbol": symbol}
	if err := c.do(ctx, http.MethodPost, "/api/v1/watchlist/", nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a watchlist entry by id.
func (c *Client) RemoveItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/watchlist/%d", id), nil, nil, nil)
}

// Prices fetches candles plus indicator series for a symbol.
func (c *Client) Prices(ctx context.Context, symbol, rng, interval string) (*PriceData, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("range", rng)
	q.Set("interval", interval)
	var pd PriceData
	if err := c.do(ctx, http.MethodGet, "/api/v1/prices", q, nil, &pd); err != nil {
		return nil, err
	}
	return &pd, nil
}

// Snapshots returns last/prev close and pct change per symbol. Unknown
// symbols map to nil.
func (c *Client) Snapshots(ctx context.Context, symbols []string) (map[string]*Snapshot, error) {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	var out map[string]*Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/prices/snapshots", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Score fetches the advisory score for a symbol at the given horizon.
func (c *Client) Score(ctx context.Context, symbol, horizon string) (*AgentScore, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("mode", horizon)
	var s AgentScore
	if err := c.do(ctx, http.MethodGet, "/api/v1/agent/score", q, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
