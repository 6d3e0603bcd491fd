package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
)

// Placeholder stands in for any value that cannot be rendered.
const Placeholder = "—"

// APIError is the error envelope returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Row is one record of a list response. Values keep their decoded JSON types;
// use Get for a printable rendition.
type Row map[string]interface{}

// Get renders the value under key, falling back to the dash placeholder for
// missing, nil or empty values.
func (r Row) Get(key string) string {
	val, ok := r[key]
	if !ok || val == nil {
		return Placeholder
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return Placeholder
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ListQuery carries the standard list endpoint parameters plus endpoint
// specific filters.
type ListQuery struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
	Filters   map[string]string
}

func (q ListQuery) values() url.Values {
	vals := make(url.Values)
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		vals.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		vals.Set("search", q.Search)
	}
	if q.SortBy != "" {
		vals.Set("sort_by", q.SortBy)
		vals.Set("sort_order", q.SortOrder)
	}
	for key, val := range q.Filters {
		if val != "" {
			vals.Set(key, val)
		}
	}
	return vals
}

// ListPage is a decoded page of list results.
type ListPage struct {
	Rows  []Row
	Count int
}

// Client talks to the REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token sent on every subsequent request.
func (c *Client) SetToken(token string) { c.token = token }

// Login authenticates and installs the returned token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	creds := map[string]string{"username": username, "password": password}
	if err := c.Post(ctx, "/v1/users/login", creds, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// List fetches a page from a list endpoint. The response body may carry the
// rows under either a "results" or "data" key; a missing count reads as 0.
func (c *Client) List(ctx context.Context, path string, q ListQuery) (ListPage, error) {
	var envelope map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, path+"?"+q.values().Encode(), nil, &envelope); err != nil {
		return ListPage{}, err
	}

	var page ListPage
	raw, ok := envelope["results"]
	if !ok {
		raw, ok = envelope["data"]
	}
	if ok {
		if err := json.Unmarshal(raw, &page.Rows); err != nil {
			return ListPage{}, errors.Wrap(err, "decoding list rows")
		}
	}
	if raw, ok := envelope["count"]; ok {
		if err := json.Unmarshal(raw, &page.Count); err != nil {
			return ListPage{}, errors.Wrap(err, "decoding list count")
		}
	}
	return page, nil
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
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
		return errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	// 400s carry either {"error": "..."} or a field error map
	var envelope map[string]string
	if err := json.Unmarshal(buf, &envelope); err == nil {
		if msg, ok := envelope["error"]; ok {
			apiErr.Message = msg
			return apiErr
		}
		if len(envelope) > 0 {
			apiErr.Fields = envelope
			apiErr.Message = firstField(envelope)
			return apiErr
		}
	}
	var msg string
	if err := json.Unmarshal(buf, &msg); err == nil && msg != "" {
		apiErr.Message = msg
		return apiErr
	}
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}

func firstField(fields map[string]string) string {
	for field, msg := range fields {
		return field + ": " + msg
	}
	return ""
}

// DefaultPageSize mirrors the server-side default so tables can paginate
// without an extra round trip.
const DefaultPageSize = core.DefaultPageSize
