// Package client talks to a running memberdesk API. Client implements
// store.Store, so the CLI and TUI can work against a remote server the same
// way they work against a local backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/pagination"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}

	var parts []string
	for field, problems := range e.Fields {
		parts = append(parts, field+": "+strings.Join(problems, ", "))
	}
	sort.Strings(parts)
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap maps the status to the matching store error
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusConflict:
		return store.ErrDuplicate
	case http.StatusBadRequest:
		return store.ErrInvalidMember
	}
	return nil
}

// Client calls the member API at BaseURL
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the server at baseURL
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error  string              `json:"error"`
			Fields map[string][]string `json:"fields"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListMembers fetches one page of members
func (c *Client) ListMembers(ctx context.Context, offset, limit int, query string) (*models.MemberPage, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if query != "" {
		params.Set("q", query)
	}

	var page models.MemberPage
	if err := c.do(ctx, http.MethodGet, "/members?"+params.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetMember(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := c.do(ctx, http.MethodGet, "/members/"+url.PathEscape(id), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateMember creates a member from editable field values
func (c *Client) CreateMember(ctx context.Context, fields map[string]string) (*models.Member, error) {
	var member models.Member
	if err := c.do(ctx, http.MethodPost, "/members", fields, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// PatchMember sends a field delta and returns the updated member
func (c *Client) PatchMember(ctx context.Context, id string, fields map[string]string) (*models.Member, error) {
	var member models.Member
	if err := c.do(ctx, http.MethodPatch, "/members/"+url.PathEscape(id), fields, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/members/"+url.PathEscape(id), nil, nil)
}

// CheckPassword asks the server whether password matches the member's
func (c *Client) CheckPassword(ctx context.Context, id, password string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPost, "/members/"+url.PathEscape(id)+"/password/check", body, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// Health reports whether the server answers
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}

// store.Store

func (c *Client) Get(ctx context.Context, id string) (*models.Member, error) {
	return c.GetMember(ctx, id)
}

// List fetches the requested page. Without a limit it walks every page.
func (c *Client) List(ctx context.Context, opts store.ListOptions) (*store.Page, error) {
	if opts.Limit > 0 {
		page, err := c.ListMembers(ctx, opts.Offset, opts.Limit, opts.Query)
		if err != nil {
			return nil, err
		}
		return &store.Page{Members: page.Members, Total: page.Total}, nil
	}

	result := &store.Page{}
	offset := opts.Offset
	for {
		page, err := c.ListMembers(ctx, offset, pagination.DefaultLimit, opts.Query)
		if err != nil {
			return nil, err
		}
		result.Members = append(result.Members, page.Members...)
		result.Total = page.Total
		offset += len(page.Members)
		if !page.HasMore || len(page.Members) == 0 {
			return result, nil
		}
	}
}

// Create sends the member's editable fields. The server assigns id and
// timestamps; a password hash cannot be transferred.
func (c *Client) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	fields := editing.Values{}
	for key, value := range member.Record() {
		fields[editing.FieldID(key)] = editing.Stringify(value)
	}
	return c.CreateMember(ctx, fields.Strings())
}

func (c *Client) Update(ctx context.Context, id string, delta editing.Values) (*models.Member, error) {
	return c.PatchMember(ctx, id, delta.Strings())
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.DeleteMember(ctx, id)
}

func (c *Client) Close() error {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
	return nil
}

var _ store.Store = (*Client)(nil)
