package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"eventplanner/internal/adapters/apiclient"
	"eventplanner/internal/adapters/auth"
	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements API with canned answers.
type fakeAPI struct {
	registerErr  error
	loginID      int64
	loginErr     error
	created      []domain.Event
	attending    []domain.Event
	listErr      error
	createErr    error
	updateErr    error
	deleteErr    error
	analytics    *apiclient.Analytics
	analyticsErr error
	popular      []domain.PopularEvent

	lastPayload  apiclient.EventPayload
	lastUpdateID int64
	lastDeleteID int64
	lastEmail    string
}

func (f *fakeAPI) Register(_ context.Context, _, email, _ string) error {
	f.lastEmail = email
	return f.registerErr
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (int64, error) {
	f.lastEmail = email
	return f.loginID, f.loginErr
}

func (f *fakeAPI) CreateEvent(_ context.Context, p apiclient.EventPayload) (int64, error) {
	f.lastPayload = p
	return 1, f.createErr
}

func (f *fakeAPI) UpdateEvent(_ context.Context, id int64, p apiclient.EventPayload) error {
	f.lastUpdateID, f.lastPayload = id, p
	return f.updateErr
}

func (f *fakeAPI) DeleteEvent(_ context.Context, id int64) error {
	f.lastDeleteID = id
	return f.deleteErr
}

func (f *fakeAPI) EventsByUser(_ context.Context, _ int64) ([]domain.Event, error) {
	return f.created, f.listErr
}

func (f *fakeAPI) EventsByAttendee(_ context.Context, email string) ([]domain.Event, error) {
	f.lastEmail = email
	return f.attending, f.listErr
}

func (f *fakeAPI) EventAnalytics(_ context.Context, _ int64) (*apiclient.Analytics, error) {
	return f.analytics, f.analyticsErr
}

func (f *fakeAPI) PopularEvents(_ context.Context) ([]domain.PopularEvent, error) {
	return f.popular, nil
}

const testUserID = int64(7)

func newTestServer(t *testing.T, api *fakeAPI) (*Server, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewServer(api, auth.NewJWTSigner("test-secret"), logger, false)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, s.Routes()
}

func sessionCookieFor(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, s.startSession(rr, domain.SessionClaims{UserID: testUserID, Email: "me@x.io"}))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_RequiresSession(t *testing.T) {
	_, h := newTestServer(t, &fakeAPI{})

	for _, path := range []string{"/dashboard", "/events/new", "/events/1/edit", "/popular"} {
		rr := do(t, h, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rr.Code, path)
		assert.Equal(t, "/login", rr.Header().Get("Location"), path)
	}

	forged := &http.Cookie{Name: sessionCookie, Value: "not-a-token"}
	rr := do(t, h, http.MethodGet, "/dashboard", nil, forged)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestServer_Register(t *testing.T) {
	t.Run("client checks", func(t *testing.T) {
		api := &fakeAPI{}
		_, h := newTestServer(t, api)
		rr := do(t, h, http.MethodPost, "/register", url.Values{
			"username": {"ann"}, "email": {"ann@x.io"}, "password": {"a"}, "confirm_password": {"b"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Passwords do not match")
		assert.Empty(t, api.lastEmail, "api must not be called")
	})

	t.Run("success redirects to login", func(t *testing.T) {
		_, h := newTestServer(t, &fakeAPI{})
		rr := do(t, h, http.MethodPost, "/register", url.Values{
			"username": {"ann"}, "email": {"ann@x.io"}, "password": {"a"}, "confirm_password": {"a"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login?notice=registered", rr.Header().Get("Location"))

		page := do(t, h, http.MethodGet, "/login?notice=registered", nil, nil)
		assert.Contains(t, page.Body.String(), "Registration successful! Please log in.")
	})

	t.Run("api message is shown", func(t *testing.T) {
		_, h := newTestServer(t, &fakeAPI{registerErr: &apiclient.Error{Status: 409, Code: "conflict", Message: "username or email already exists"}})
		rr := do(t, h, http.MethodPost, "/register", url.Values{
			"username": {"ann"}, "email": {"ann@x.io"}, "password": {"a"}, "confirm_password": {"a"},
		}, nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "username or email already exists")
	})
}

func TestServer_LoginAndLogout(t *testing.T) {
	t.Run("success sets session cookie", func(t *testing.T) {
		_, h := newTestServer(t, &fakeAPI{loginID: testUserID})
		rr := do(t, h, http.MethodPost, "/login", url.Values{"email": {"me@x.io"}, "password": {"pw"}}, nil)

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		dash := do(t, h, http.MethodGet, "/dashboard", nil, cookies[0])
		assert.Equal(t, http.StatusOK, dash.Code)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		_, h := newTestServer(t, &fakeAPI{loginErr: &apiclient.Error{Status: 401, Message: "invalid credentials"}})
		rr := do(t, h, http.MethodPost, "/login", url.Values{"email": {"me@x.io"}, "password": {"bad"}}, nil)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid credentials")
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("api unreachable", func(t *testing.T) {
		_, h := newTestServer(t, &fakeAPI{loginErr: errors.New("dial tcp: refused")})
		rr := do(t, h, http.MethodPost, "/login", url.Values{"email": {"me@x.io"}, "password": {"pw"}}, nil)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "Could not connect to the server.")
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		s, h := newTestServer(t, &fakeAPI{})
		rr := do(t, h, http.MethodPost, "/logout", nil, sessionCookieFor(t, s))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestServer_Dashboard(t *testing.T) {
	own := domain.Event{ID: 1, Title: "Mine", UserID: testUserID, StartTime: time.Now(), EndTime: time.Now()}
	other := domain.Event{ID: 2, Title: "Theirs", UserID: 99, StartTime: time.Now(), EndTime: time.Now()}
	api := &fakeAPI{created: []domain.Event{own}, attending: []domain.Event{own, other}}
	s, h := newTestServer(t, api)

	rr := do(t, h, http.MethodGet, "/dashboard", nil, sessionCookieFor(t, s))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, "me@x.io", api.lastEmail)
	assert.Equal(t, 1, strings.Count(body, "<h3>Mine</h3>"), "own event listed once")
	assert.Contains(t, body, "<h3>Theirs</h3>")
	assert.Contains(t, body, `/events/1/edit`)
	assert.NotContains(t, body, `/events/2/edit`)
	assert.NotContains(t, body, `/events/2/delete`)
	assert.Less(t, strings.Index(body, "Mine"), strings.Index(body, "Theirs"))
}

func TestServer_DashboardEmpty(t *testing.T) {
	s, h := newTestServer(t, &fakeAPI{})
	rr := do(t, h, http.MethodGet, "/dashboard", nil, sessionCookieFor(t, s))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No events found. Create your first event!")
}

func TestServer_CreateEvent(t *testing.T) {
	api := &fakeAPI{}
	s, h := newTestServer(t, api)
	cookie := sessionCookieFor(t, s)

	form := do(t, h, http.MethodGet, "/events/new", nil, cookie)
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `value="2025-05-01"`)

	rr := do(t, h, http.MethodPost, "/events/new", url.Values{
		"title": {"Launch"}, "location": {"Hall"}, "description": {""},
		"start_date": {"2025-05-02"}, "start_time": {"09:00"}, "end_date": {"2025-05-02"}, "end_time": {"10:00"},
		"attendees":             {"a@x.io\nb@x.io"},
		"sponsor_names":         {"Acme"},
		"sponsor_levels":        {"Gold"},
		"sponsor_contributions": {"$2,000"},
	}, cookie)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard?notice=created", rr.Header().Get("Location"))
	assert.Equal(t, testUserID, api.lastPayload.UserID)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, api.lastPayload.Attendees)
	assert.Equal(t, []domain.Sponsor{{Name: "Acme", Level: "Gold", Contribution: 2000}}, api.lastPayload.Sponsors)
}

func TestServer_CreateEventValidation(t *testing.T) {
	api := &fakeAPI{}
	s, h := newTestServer(t, api)

	rr := do(t, h, http.MethodPost, "/events/new", url.Values{
		"title": {"Launch"}, "location": {"Hall"}, "attendees": {"a@x.io"},
		"start_date": {"2025-05-02"}, "start_time": {"11:00"}, "end_date": {"2025-05-02"}, "end_time": {"10:00"},
	}, sessionCookieFor(t, s))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "End time must be after start time")
	assert.Contains(t, rr.Body.String(), `value="Launch"`, "form keeps its input")
	assert.Empty(t, api.lastPayload.Title)
}

func TestServer_EditEvent(t *testing.T) {
	own := domain.Event{
		ID: 4, Title: "Mine", Location: "Hall", UserID: testUserID,
		StartTime: time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC), EndTime: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
		Attendees: []string{"a@x.io"}, Items: []domain.Item{{ItemID: 3, ItemName: "Chairs", Quantity: 5}},
	}
	api := &fakeAPI{created: []domain.Event{own}}
	s, h := newTestServer(t, api)
	cookie := sessionCookieFor(t, s)

	t.Run("prefills owned event", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/events/4/edit", nil, cookie)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `value="Mine"`)
		assert.Contains(t, rr.Body.String(), `action="/events/4/edit"`)
	})

	t.Run("not owned redirects", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/events/5/edit", nil, cookie)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/dashboard?notice=missing", rr.Header().Get("Location"))
	})

	t.Run("update sends items", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/events/4/edit", url.Values{
			"title": {"Renamed"}, "location": {"Hall"}, "attendees": {"a@x.io"},
			"start_date": {"2025-05-02"}, "start_time": {"09:00"}, "end_date": {"2025-05-02"}, "end_time": {"10:00"},
			"item_names": {"Chairs"}, "item_quantities": {"8"},
		}, cookie)

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/dashboard?notice=updated", rr.Header().Get("Location"))
		assert.Equal(t, int64(4), api.lastUpdateID)
		assert.Equal(t, "Renamed", api.lastPayload.Title)
		assert.Equal(t, []domain.Item{{ItemName: "Chairs", Quantity: 8}}, api.lastPayload.Items)
	})

	t.Run("venue conflict is shown", func(t *testing.T) {
		api.updateErr = &apiclient.Error{Status: 409, Code: "venue_conflict", Message: "venue conflict: another event is scheduled at the same time and venue"}
		defer func() { api.updateErr = nil }()

		rr := do(t, h, http.MethodPost, "/events/4/edit", url.Values{
			"title": {"Renamed"}, "location": {"Hall"}, "attendees": {"a@x.io"},
			"start_date": {"2025-05-02"}, "start_time": {"09:00"}, "end_date": {"2025-05-02"}, "end_time": {"10:00"},
		}, cookie)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "venue conflict")
	})
}

func TestServer_DeleteEvent(t *testing.T) {
	own := domain.Event{ID: 4, Title: "Mine", UserID: testUserID}
	api := &fakeAPI{created: []domain.Event{own}}
	s, h := newTestServer(t, api)
	cookie := sessionCookieFor(t, s)

	confirm := do(t, h, http.MethodGet, "/events/4/delete", nil, cookie)
	require.Equal(t, http.StatusOK, confirm.Code)
	assert.Contains(t, confirm.Body.String(), "Are you sure you want to delete")

	rr := do(t, h, http.MethodPost, "/events/4/delete", nil, cookie)
	assert.Equal(t, "/dashboard?notice=deleted", rr.Header().Get("Location"))
	assert.Equal(t, int64(4), api.lastDeleteID)

	api.deleteErr = &apiclient.Error{Status: 404, Message: "event not found"}
	rr = do(t, h, http.MethodPost, "/events/4/delete", nil, cookie)
	assert.Equal(t, "/dashboard?notice=missing", rr.Header().Get("Location"))

	api.deleteErr = &apiclient.Error{Status: 400, Code: "has_dependencies", Message: "cannot delete event due to existing dependencies"}
	rr = do(t, h, http.MethodPost, "/events/4/delete", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot delete event due to existing dependencies")
}

func TestServer_Analytics(t *testing.T) {
	t.Run("profitable event", func(t *testing.T) {
		api := &fakeAPI{analytics: &apiclient.Analytics{
			Summary:   domain.EventSummary{ID: 4, Title: "Mine", PopularityRank: 3},
			Analytics: domain.EventAnalytics{EventTotals: domain.EventTotals{TotalSponsorship: 500, TotalCosts: 100}, ProjectedProfit: 400},
		}}
		s, h := newTestServer(t, api)
		rr := do(t, h, http.MethodGet, "/events/4/analytics", nil, sessionCookieFor(t, s))

		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Profitable")
		assert.Contains(t, body, "$400.00")
		assert.Contains(t, body, "Popularity Rank: #3")
	})

	t.Run("loss", func(t *testing.T) {
		api := &fakeAPI{analytics: &apiclient.Analytics{Analytics: domain.EventAnalytics{ProjectedProfit: -5}}}
		s, h := newTestServer(t, api)
		rr := do(t, h, http.MethodGet, "/events/4/analytics", nil, sessionCookieFor(t, s))

		assert.Contains(t, rr.Body.String(), `class="loss"`)
	})

	t.Run("no data", func(t *testing.T) {
		api := &fakeAPI{analyticsErr: &apiclient.Error{Status: 404}}
		s, h := newTestServer(t, api)
		rr := do(t, h, http.MethodGet, "/events/4/analytics", nil, sessionCookieFor(t, s))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "No analytics data found for this event.")
	})
}

func TestServer_Popular(t *testing.T) {
	api := &fakeAPI{popular: []domain.PopularEvent{{ID: 1, Title: "Top", PopularityRank: 1, TotalSponsorship: 1500}}}
	s, h := newTestServer(t, api)

	rr := do(t, h, http.MethodGet, "/popular", nil, sessionCookieFor(t, s))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Top")
	assert.Contains(t, rr.Body.String(), "$1,500.00")
}
