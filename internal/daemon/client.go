package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnreachable indicates no daemon answered at the address.
	ErrUnreachable = errors.New("daemon: unreachable")
	// ErrBadRequest indicates the daemon rejected the query.
	ErrBadRequest = errors.New("daemon: bad request")
)

// Client reads the daemon HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for a daemon listening on addr ("host:port"
// or a full http URL).
func NewClient(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{baseURL: addr, http: &http.Client{}}
}

// Overview bundles the status and recent events. Status is nil when the
// daemon could not be read; Events is nil when only the events request failed.
type Overview struct {
	Status *Status
	Events []Event
	Err    error
}

// FetchOverview fetches the status and, when it succeeds, the event buffer.
func (c *Client) FetchOverview(ctx context.Context) Overview {
	var ov Overview
	st, err := c.Status(ctx)
	if err != nil {
		ov.Err = err
		return ov
	}
	ov.Status = &st

	events, err := c.Events(ctx)
	if err != nil {
		ov.Err = err
		return ov
	}
	ov.Events = events
	return ov
}

// Healthy reports whether /healthz answers ok.
func (c *Client) Healthy(ctx context.Context) bool {
	body, err := c.get(ctx, "/healthz")
	return err == nil && strings.TrimSpace(string(body)) == "ok"
}

// Status returns the daemon status and current cycle summary.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	if err := c.getJSON(ctx, "/v1/status", &st); err != nil {
		return Status{}, err
	}
	return st, nil
}

// Events returns the buffered events, oldest first.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.getJSON(ctx, "/v1/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Annual returns the annual report for year; year <= 0 means the daemon's
// current year.
func (c *Client) Annual(ctx context.Context, year int) (AnnualView, error) {
	path := "/v1/annual"
	if year > 0 {
		path += "?year=" + strconv.Itoa(year)
	}
	var v AnnualView
	if err := c.getJSON(ctx, path, &v); err != nil {
		return AnnualView{}, err
	}
	return v, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("daemon: parsing %s: %w", path, err)
	}
	return nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "paycycle/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrBadRequest
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}
	return body, nil
}
