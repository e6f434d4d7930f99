// Package sheetdb is a client for the hosted spreadsheet REST API that backs
// the users and product_parts sheets.
package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/time/rate"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

// StatusError reports a non-2xx answer from the API.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheetdb %s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return repo.ErrUnavailable }

// Client implements repo.Table for one sheet.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewLimiter returns the pacing limiter for one hosted account, or nil when
// rps is not positive. Every sheet of the account must share it, since the
// API throttles per account.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), max(burst, 1))
}

// WithLimiter paces outgoing requests through l. A nil l disables pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type payload struct {
	Data repo.Row `json:"data"`
}

type writeResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

func (c *Client) All(ctx context.Context) ([]repo.Row, error) {
	return c.fetchRows(ctx, c.baseURL)
}

func (c *Client) Search(ctx context.Context, field, value string) ([]repo.Row, error) {
	q := url.Values{}
	q.Set(field, value)
	return c.fetchRows(ctx, c.baseURL+"/search?"+q.Encode())
}

func (c *Client) Create(ctx context.Context, row repo.Row) error {
	_, err := c.write(ctx, http.MethodPost, c.baseURL, row)
	return err
}

func (c *Client) Update(ctx context.Context, id string, row repo.Row) error {
	res, err := c.write(ctx, http.MethodPatch, c.rowURL(id), row)
	if err != nil {
		return err
	}
	if res != nil && res.Updated == 0 {
		return repo.ErrRowNotFound
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	res, err := c.write(ctx, http.MethodDelete, c.rowURL(id), nil)
	if err != nil {
		return err
	}
	if res != nil && res.Deleted == 0 {
		return repo.ErrRowNotFound
	}
	return nil
}

func (c *Client) rowURL(id string) string {
	return c.baseURL + "/id/" + url.PathEscape(id)
}

func (c *Client) fetchRows(ctx context.Context, target string) ([]repo.Row, error) {
	body, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", repo.ErrUnavailable, target, err)
	}

	rows := make([]repo.Row, 0, len(raw))
	for _, item := range raw {
		row := make(repo.Row, len(item))
		for k, v := range item {
			row[k] = cast.ToString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// write returns nil result when the API answers with a body it does not
// describe; callers then assume the write applied.
func (c *Client) write(ctx context.Context, method, target string, row repo.Row) (*writeResult, error) {
	var reqBody io.Reader
	if row != nil {
		b, err := json.Marshal(payload{Data: row})
		if err != nil {
			return nil, fmt.Errorf("failed to encode row: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	body, err := c.do(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}

	var res writeResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, nil
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", repo.ErrUnavailable, method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", repo.ErrUnavailable, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, URL: target, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}
