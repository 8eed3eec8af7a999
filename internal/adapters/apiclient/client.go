package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Error is a non-2xx answer from the API, decoded from its error envelope.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return e.Message
}

// IsStatus reports whether err is an API error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// EventPayload is the event body sent on create and update.
type EventPayload struct {
	Title       string
	Description string
	Location    string
	StartTime   string
	EndTime     string
	UserID      int64
	Attendees   []string
	Vendors     []domain.Vendor
	Sponsors    []domain.Sponsor
	Items       []domain.Item
}

type createEventBody struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	UserID      int64            `json:"user_id"`
	Attendees   []string         `json:"attendees"`
	Vendors     []domain.Vendor  `json:"vendors"`
	Sponsors    []domain.Sponsor `json:"sponsors"`
	Items       []domain.Item    `json:"items"`
}

type updateEventBody struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	UserID      int64            `json:"user_id"`
	Attendees   []string         `json:"attendees"`
	Vendors     []domain.Vendor  `json:"vendors"`
	Sponsors    []domain.Sponsor `json:"sponsors"`
	EventItems  []domain.Item    `json:"event_items"`
}

// Analytics is the payload of GET /events/{id}/analytics.
type Analytics struct {
	Summary   domain.EventSummary   `json:"summary"`
	Analytics domain.EventAnalytics `json:"analytics"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the event planner REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a client for the API rooted at baseURL. A nil httpClient gets a client
// with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), client: httpClient}
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (int64, error) {
	var out struct {
		UserID int64 `json:"user_id"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

func (c *Client) CreateEvent(ctx context.Context, p EventPayload) (int64, error) {
	body := createEventBody{
		Title: p.Title, Description: p.Description, Location: p.Location,
		StartTime: p.StartTime, EndTime: p.EndTime, UserID: p.UserID,
		Attendees: p.Attendees, Vendors: p.Vendors, Sponsors: p.Sponsors, Items: p.Items,
	}
	var out struct {
		EventID int64 `json:"event_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/events", body, &out); err != nil {
		return 0, err
	}
	return out.EventID, nil
}

func (c *Client) UpdateEvent(ctx context.Context, eventID int64, p EventPayload) error {
	body := updateEventBody{
		Title: p.Title, Description: p.Description, Location: p.Location,
		StartTime: p.StartTime, EndTime: p.EndTime, UserID: p.UserID,
		Attendees: p.Attendees, Vendors: p.Vendors, Sponsors: p.Sponsors, EventItems: p.Items,
	}
	return c.do(ctx, http.MethodPut, "/events/"+strconv.FormatInt(eventID, 10), body, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, eventID int64) error {
	return c.do(ctx, http.MethodDelete, "/events/"+strconv.FormatInt(eventID, 10), nil, nil)
}

func (c *Client) EventsByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	return c.events(ctx, "/events/user/"+strconv.FormatInt(userID, 10))
}

func (c *Client) EventsByAttendee(ctx context.Context, email string) ([]domain.Event, error) {
	return c.events(ctx, "/events/attendee/"+url.PathEscape(email))
}

func (c *Client) events(ctx context.Context, path string) ([]domain.Event, error) {
	var out struct {
		Events []domain.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) EventAnalytics(ctx context.Context, eventID int64) (*Analytics, error) {
	var out Analytics
	if err := c.do(ctx, http.MethodGet, "/events/"+strconv.FormatInt(eventID, 10)+"/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PopularEvents(ctx context.Context) ([]domain.PopularEvent, error) {
	var out struct {
		PopularEvents []domain.PopularEvent `json:"popular_events"`
	}
	if err := c.do(ctx, http.MethodGet, "/events/popular", nil, &out); err != nil {
		return nil, err
	}
	return out.PopularEvents, nil
}

// do sends body as JSON and decodes the envelope's data into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call api: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode api response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode api data: %w", err)
	}
	return nil
}
