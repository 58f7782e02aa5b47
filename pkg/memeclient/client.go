// Package memeclient is the Go SDK for the memecached API. Client is a thin
// HTTP wrapper; Session adds an optimistic query cache that mirrors the
// reconciliation behavior of the web frontend.
package memeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Meme is the wire representation of a catalog entry.
type Meme struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	ImageURL    string    `json:"imageUrl"`
	ImageWidth  *int      `json:"imageWidth,omitempty"`
	ImageHeight *int      `json:"imageHeight,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []string  `json:"tags"`
}

// Tag is a catalog tag.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreateMemeInput is the body for POST /api/memes.
type CreateMemeInput struct {
	ImageURL    string   `json:"imageUrl"`
	ImageWidth  *int     `json:"imageWidth,omitempty"`
	ImageHeight *int     `json:"imageHeight,omitempty"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// UpdateMemeInput is the body for PATCH /api/memes/{id}. Nil fields are
// omitted and left unchanged server-side.
type UpdateMemeInput struct {
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FeedParams are the query parameters for the cursor feed.
type FeedParams struct {
	Cursor *string
	Limit  int
	Q      string
	Tag    string
}

// FeedResult is one feed page. A nil NextCursor means end of feed.
type FeedResult struct {
	Memes      []Meme  `json:"memes"`
	NextCursor *string `json:"nextCursor"`
}

// DashboardParams are the query parameters for the offset-paged dashboard.
type DashboardParams struct {
	Page      int
	PageSize  int
	Q         string
	Tag       string
	SortBy    string
	SortOrder string
}

// DashboardResult is one dashboard page with the filter-wide total.
type DashboardResult struct {
	Memes    []Meme `json:"memes"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// UploadTicket is a presigned upload grant.
type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ImageURL  string `json:"imageUrl"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// Client talks to the memecached REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API at baseURL authenticating with the given
// bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateMeme registers an already-uploaded image in the catalog.
func (c *Client) CreateMeme(ctx context.Context, input CreateMemeInput) (*Meme, error) {
	var resp struct {
		Meme Meme `json:"meme"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/memes", input, &resp); err != nil {
		return nil, err
	}
	return &resp.Meme, nil
}

// UpdateMeme patches a meme's description and/or tag set.
func (c *Client) UpdateMeme(ctx context.Context, id uuid.UUID, input UpdateMemeInput) (*Meme, error) {
	var resp struct {
		Meme Meme `json:"meme"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/memes/"+id.String(), input, &resp); err != nil {
		return nil, err
	}
	return &resp.Meme, nil
}

// DeleteMeme removes a single meme.
func (c *Client) DeleteMeme(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/memes/"+id.String(), nil, nil)
}

// BulkDelete removes a set of memes. All-or-nothing: any id not owned by
// the caller rejects the whole batch.
func (c *Client) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	body := struct {
		IDs []uuid.UUID `json:"ids"`
	}{IDs: ids}
	return c.do(ctx, http.MethodPost, "/api/memes/bulk-delete", body, nil)
}

// BulkTag merge-adds tags onto a set of memes.
func (c *Client) BulkTag(ctx context.Context, ids []uuid.UUID, tags []string) error {
	body := struct {
		IDs  []uuid.UUID `json:"ids"`
		Tags []string    `json:"tags"`
	}{IDs: ids, Tags: tags}
	return c.do(ctx, http.MethodPost, "/api/memes/bulk-tag", body, nil)
}

// Feed fetches one cursor-paged feed slice.
func (c *Client) Feed(ctx context.Context, params FeedParams) (*FeedResult, error) {
	q := url.Values{}
	if params.Cursor != nil {
		q.Set("cursor", *params.Cursor)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Q != "" {
		q.Set("q", params.Q)
	}
	if params.Tag != "" {
		q.Set("tag", params.Tag)
	}

	var resp FeedResult
	if err := c.do(ctx, http.MethodGet, "/api/memes"+query(q), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Dashboard fetches one offset-paged dashboard slice.
func (c *Client) Dashboard(ctx context.Context, params DashboardParams) (*DashboardResult, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.Q != "" {
		q.Set("q", params.Q)
	}
	if params.Tag != "" {
		q.Set("tag", params.Tag)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		q.Set("sortOrder", params.SortOrder)
	}

	var resp DashboardResult
	if err := c.do(ctx, http.MethodGet, "/api/memes/dashboard"+query(q), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tags fetches the global tag list, ordered by name.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var resp struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// UploadTicket requests a presigned upload URL for the given filename.
func (c *Client) UploadTicket(ctx context.Context, filename string) (*UploadTicket, error) {
	q := url.Values{}
	q.Set("filename", filename)

	var resp UploadTicket
	if err := c.do(ctx, http.MethodGet, "/api/upload-url"+query(q), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func query(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
