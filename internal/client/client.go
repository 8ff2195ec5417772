// Package client is a Go client for the festival HTTP API together with the
// local participant view that moderation and registration work against.
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
	"strings"
	"sync"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
	"vighnaharta-backend/internal/utils"
)

// Client calls the festival HTTP API.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeouts.ClientRequest},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Message string `json:"message"`
}

type passResponse struct {
	Message     string             `json:"message"`
	Participant domain.Participant `json:"participant"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// statusError maps an HTTP failure onto the domain sentinels.
func statusError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, message)
	}
	return fmt.Errorf("request failed with status %d: %s", status, message)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	logger.ExternalServiceCall("festival-api", method+" "+path)
	resp, err := c.http.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		logger.ExternalServiceResult("festival-api", method+" "+path, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		err := statusError(resp.StatusCode, eb.Message)
		logger.ExternalServiceResult("festival-api", method+" "+path, err, "status", resp.StatusCode)
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	if resp.Header.Get(domain.DegradedHeader) != "" {
		err := fmt.Errorf("%w: listing degraded", domain.ErrStoreUnavailable)
		logger.ExternalServiceResult("festival-api", method+" "+path, err)
		return err
	}
	logger.ExternalServiceResult("festival-api", method+" "+path, nil, "status", resp.StatusCode)
	return nil
}

// Login exchanges the moderator passphrase for a token used by later calls.
func (c *Client) Login(ctx context.Context, passphrase string) error {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"passphrase": passphrase}, &out); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

func (c *Client) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	out := []domain.Participant{}
	err := c.do(ctx, http.MethodGet, "/api/participants", nil, &out)
	return out, err
}

func (c *Client) CreateParticipant(ctx context.Context, name, flatNumber, imageURL string) (*domain.Participant, error) {
	in := domain.Participant{Name: name, FlatNumber: flatNumber, ImageURL: imageURL}
	var out domain.Participant
	if err := c.do(ctx, http.MethodPost, "/api/participants", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SavePass(ctx context.Context, in domain.PassSubmission) (*domain.Participant, error) {
	in.ID = ""
	var out passResponse
	if err := c.do(ctx, http.MethodPost, "/api/save-pass", in, &out); err != nil {
		return nil, err
	}
	return &out.Participant, nil
}

func (c *Client) UpdatePass(ctx context.Context, id string, in domain.PassSubmission) (*domain.Participant, error) {
	in.ID = id
	var out passResponse
	if err := c.do(ctx, http.MethodPut, "/api/save-pass", in, &out); err != nil {
		return nil, err
	}
	return &out.Participant, nil
}

func (c *Client) Gallery(ctx context.Context, page int) (utils.Page[domain.Participant], error) {
	var out utils.Page[domain.Participant]
	err := c.do(ctx, http.MethodGet, "/api/gallery?page="+strconv.Itoa(page), nil, &out)
	return out, err
}

func (c *Client) ListPending(ctx context.Context) ([]domain.Participant, error) {
	out := []domain.Participant{}
	err := c.do(ctx, http.MethodGet, "/api/admin/participants/pending", nil, &out)
	return out, err
}

func (c *Client) Approve(ctx context.Context, id string) (*domain.Participant, error) {
	var out domain.Participant
	if err := c.do(ctx, http.MethodPut, "/api/approve-participant/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reject-participant/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListMessages(ctx context.Context) ([]domain.Message, error) {
	out := []domain.Message{}
	err := c.do(ctx, http.MethodGet, "/api/messages", nil, &out)
	return out, err
}

// MessageGroup mirrors one entry of the grouped messages listing.
type MessageGroup struct {
	Organizer     string                     `json:"organizer"`
	OrganizerRole string                     `json:"organizerRole"`
	Messages      utils.Page[domain.Message] `json:"messages"`
}

func (c *Client) GroupedMessages(ctx context.Context, organizer, role string, page int) ([]MessageGroup, error) {
	q := url.Values{}
	if organizer != "" {
		q.Set("organizer", organizer)
	}
	if role != "" {
		q.Set("role", role)
	}
	q.Set("page", strconv.Itoa(page))
	out := []MessageGroup{}
	err := c.do(ctx, http.MethodGet, "/api/messages/grouped?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) CreateMessage(ctx context.Context, text, organizer, role string) (*domain.Message, error) {
	in := domain.Message{Text: text, Organizer: organizer, OrganizerRole: role}
	var out domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Organizers(ctx context.Context) ([]domain.Organizer, error) {
	out := []domain.Organizer{}
	err := c.do(ctx, http.MethodGet, "/api/organizers", nil, &out)
	return out, err
}
