package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger discards output so tests never assert on logs.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createID   int64
	createErr  error
	updateErr  error
	deleteErr  error
	listErr    error
	itemErr    error
	sponsorErr error

	eventsByUser     map[int64][]*domain.Event
	eventsByAttendee map[string][]*domain.Event
	items            []domain.Item
	sponsors         []domain.Sponsor

	lastCreate        *domain.EventInput
	lastUpdate        *domain.EventUpdate
	lastDeleteID      int64
	lastListUserID    int64
	lastListEmail     string
	lastItemsEventID  int64
	lastAddItemEvent  int64
	lastAddItem       *domain.Item
	lastSponsorsEvent int64
	lastAddSponsor    *domain.Sponsor
}

func (f *fakeEventService) CreateEvent(_ context.Context, in *domain.EventInput) (int64, error) {
	f.lastCreate = in
	return f.createID, f.createErr
}

func (f *fakeEventService) UpdateEvent(_ context.Context, in *domain.EventUpdate) error {
	f.lastUpdate = in
	return f.updateErr
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID int64) error {
	f.lastDeleteID = eventID
	return f.deleteErr
}

func (f *fakeEventService) ListEventsByUser(_ context.Context, userID int64) ([]*domain.Event, error) {
	f.lastListUserID = userID
	if f.listErr != nil {
		return nil, f.listErr
	}
	events := f.eventsByUser[userID]
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (f *fakeEventService) ListEventsByAttendee(_ context.Context, email string) ([]*domain.Event, error) {
	f.lastListEmail = email
	if f.listErr != nil {
		return nil, f.listErr
	}
	events := f.eventsByAttendee[email]
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (f *fakeEventService) ListItems(_ context.Context, eventID int64) ([]domain.Item, error) {
	f.lastItemsEventID = eventID
	return f.items, f.itemErr
}

func (f *fakeEventService) AddItem(_ context.Context, eventID int64, item *domain.Item) error {
	f.lastAddItemEvent = eventID
	f.lastAddItem = item
	if f.itemErr != nil {
		return f.itemErr
	}
	item.ItemID = 77
	return nil
}

func (f *fakeEventService) ListSponsors(_ context.Context, eventID int64) ([]domain.Sponsor, error) {
	f.lastSponsorsEvent = eventID
	return f.sponsors, f.sponsorErr
}

func (f *fakeEventService) AddSponsor(_ context.Context, eventID int64, sponsor *domain.Sponsor) error {
	f.lastSponsorsEvent = eventID
	f.lastAddSponsor = sponsor
	return f.sponsorErr
}

// fakeAnalyticsService implements domain.AnalyticsService.
type fakeAnalyticsService struct {
	summary   *domain.EventSummary
	analytics *domain.EventAnalytics
	popular   []*domain.PopularEvent
	err       error
	lastEvent int64
}

func (f *fakeAnalyticsService) GetEventAnalytics(_ context.Context, eventID int64) (*domain.EventSummary, *domain.EventAnalytics, error) {
	f.lastEvent = eventID
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.summary, f.analytics, nil
}

func (f *fakeAnalyticsService) ListPopularEvents(_ context.Context) ([]*domain.PopularEvent, error) {
	return f.popular, f.err
}

// fakeUserService implements domain.UserService.
type fakeUserService struct {
	registerErr  error
	loginID      int64
	loginErr     error
	lastUsername string
	lastEmail    string
	lastPassword string
}

func (f *fakeUserService) Register(_ context.Context, username, email, password string) (*domain.User, error) {
	f.lastUsername, f.lastEmail, f.lastPassword = username, email, password
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: 1, Username: username, Email: email, PasswordHash: "hash", Salt: "salt"}, nil
}

func (f *fakeUserService) Login(_ context.Context, email, password string) (int64, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.loginID, f.loginErr
}

// decodeEnvelope decodes the response envelope and re-decodes data into out when out is non-nil.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) helpers.APIResponse {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	if out != nil {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return helpers.APIResponse{Data: raw.Data, Error: raw.Error}
}
