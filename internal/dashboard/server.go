// Package dashboard serves the HTML front end. Every action is one call to the REST API;
// the signed-in user lives in a signed session cookie.
package dashboard

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"eventplanner/internal/adapters/apiclient"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// API is the subset of the REST API the dashboard calls.
type API interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (int64, error)
	CreateEvent(ctx context.Context, p apiclient.EventPayload) (int64, error)
	UpdateEvent(ctx context.Context, eventID int64, p apiclient.EventPayload) error
	DeleteEvent(ctx context.Context, eventID int64) error
	EventsByUser(ctx context.Context, userID int64) ([]domain.Event, error)
	EventsByAttendee(ctx context.Context, email string) ([]domain.Event, error)
	EventAnalytics(ctx context.Context, eventID int64) (*apiclient.Analytics, error)
	PopularEvents(ctx context.Context) ([]domain.PopularEvent, error)
}

// SessionTokens signs and checks session cookies.
type SessionTokens interface {
	domain.TokenIssuer
	domain.TokenVerifier
}

type Server struct {
	api           API
	tokens        SessionTokens
	logger        *slog.Logger
	pages         map[string]*template.Template
	secureCookies bool
	now           func() time.Time
}

// NewServer parses the templates and returns a dashboard server. secureCookies marks the
// session cookie Secure and should be set behind HTTPS.
func NewServer(api API, tokens SessionTokens, logger *slog.Logger, secureCookies bool) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Server{
		api:           api,
		tokens:        tokens,
		logger:        logger,
		pages:         pages,
		secureCookies: secureCookies,
		now:           time.Now,
	}, nil
}

// Routes returns the dashboard handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler { return middleware.LoggingMiddleware(s.logger, next) })
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.landing)
	r.Get("/register", s.registerPage)
	r.Post("/register", s.register)
	r.Get("/login", s.loginPage)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/dashboard", s.dashboard)
		r.Get("/events/new", s.newEvent)
		r.Post("/events/new", s.createEvent)
		r.Get("/events/{id}/edit", s.editEvent)
		r.Post("/events/{id}/edit", s.updateEvent)
		r.Get("/events/{id}/delete", s.confirmDelete)
		r.Post("/events/{id}/delete", s.deleteEvent)
		r.Get("/events/{id}/analytics", s.analytics)
		r.Get("/popular", s.popular)
	})
	return r
}

func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	if s.readSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "landing", page{Title: "EventFlow"})
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", page{Title: "Create Account", Form: registerForm{}})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	f := readRegisterForm(r)
	if errs := f.validate(); len(errs) > 0 {
		s.render(w, r, http.StatusBadRequest, "register", page{Title: "Create Account", Form: f, Errors: errs})
		return
	}
	if err := s.api.Register(r.Context(), f.Username, f.Email, f.password); err != nil {
		s.render(w, r, s.apiStatus(r, err), "register", page{Title: "Create Account", Form: f, Errors: []string{apiMessage(err)}})
		return
	}
	http.Redirect(w, r, "/login?notice=registered", http.StatusSeeOther)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", page{Title: "Login", Form: loginForm{}})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	f := readLoginForm(r)
	if errs := f.validate(); len(errs) > 0 {
		s.render(w, r, http.StatusBadRequest, "login", page{Title: "Login", Form: f, Errors: errs})
		return
	}
	userID, err := s.api.Login(r.Context(), f.Email, f.password)
	if err != nil {
		s.render(w, r, s.apiStatus(r, err), "login", page{Title: "Login", Form: f, Errors: []string{apiMessage(err)}})
		return
	}
	if err := s.startSession(w, domain.SessionClaims{UserID: userID, Email: f.Email}); err != nil {
		s.logger.ErrorContext(r.Context(), "issue session", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// dashboard lists the user's own events first, then events they only attend.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	p := page{Title: "Event Dashboard", User: user}

	created, err := s.api.EventsByUser(r.Context(), user.UserID)
	if err != nil {
		p.Errors = []string{apiMessage(err)}
		s.render(w, r, s.apiStatus(r, err), "dashboard", p)
		return
	}
	attending, err := s.api.EventsByAttendee(r.Context(), user.Email)
	if err != nil {
		p.Errors = []string{apiMessage(err)}
		s.render(w, r, s.apiStatus(r, err), "dashboard", p)
		return
	}

	seen := make(map[int64]struct{}, len(created))
	for _, e := range created {
		seen[e.ID] = struct{}{}
		p.Events = append(p.Events, eventView{Event: e, AttendingOnly: e.UserID != user.UserID})
	}
	for _, e := range attending {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		p.Events = append(p.Events, eventView{Event: e, AttendingOnly: e.UserID != user.UserID})
	}
	s.render(w, r, http.StatusOK, "dashboard", p)
}

func (s *Server) newEvent(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "event_form", page{
		Title: "Create New Event",
		User:  sessionFrom(r.Context()),
		Form:  newEventForm(s.now()),
	})
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	f := readEventForm(r)
	p := page{Title: "Create New Event", User: user, Form: f}

	payload, errs := f.payload(user.UserID)
	if len(errs) > 0 {
		p.Errors = errs
		s.render(w, r, http.StatusBadRequest, "event_form", p)
		return
	}
	if _, err := s.api.CreateEvent(r.Context(), payload); err != nil {
		p.Errors = []string{apiMessage(err)}
		s.render(w, r, s.apiStatus(r, err), "event_form", p)
		return
	}
	http.Redirect(w, r, "/dashboard?notice=created", http.StatusSeeOther)
}

func (s *Server) editEvent(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	event, ok := s.ownedEvent(w, r, user)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "event_form", page{
		Title:   "Edit Event",
		User:    user,
		Edit:    true,
		EventID: event.ID,
		Form:    eventFormFrom(*event),
	})
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	event, ok := s.ownedEvent(w, r, user)
	if !ok {
		return
	}
	f := readEventForm(r)
	p := page{Title: "Edit Event", User: user, Edit: true, EventID: event.ID, Form: f}

	payload, errs := f.payload(user.UserID)
	if len(errs) > 0 {
		p.Errors = errs
		s.render(w, r, http.StatusBadRequest, "event_form", p)
		return
	}
	if err := s.api.UpdateEvent(r.Context(), event.ID, payload); err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			http.Redirect(w, r, "/dashboard?notice=missing", http.StatusSeeOther)
			return
		}
		p.Errors = []string{apiMessage(err)}
		s.render(w, r, s.apiStatus(r, err), "event_form", p)
		return
	}
	http.Redirect(w, r, "/dashboard?notice=updated", http.StatusSeeOther)
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	event, ok := s.ownedEvent(w, r, user)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "confirm_delete", page{Title: "Delete Event", User: user, Event: event})
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	event, ok := s.ownedEvent(w, r, user)
	if !ok {
		return
	}
	if err := s.api.DeleteEvent(r.Context(), event.ID); err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			http.Redirect(w, r, "/dashboard?notice=missing", http.StatusSeeOther)
			return
		}
		s.render(w, r, s.apiStatus(r, err), "confirm_delete", page{
			Title: "Delete Event", User: user, Event: event, Errors: []string{apiMessage(err)},
		})
		return
	}
	http.Redirect(w, r, "/dashboard?notice=deleted", http.StatusSeeOther)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	user := sessionFrom(r.Context())
	id, ok := eventIDParam(r)
	if !ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p := page{Title: "Event Analytics", User: user, EventID: id}
	a, err := s.api.EventAnalytics(r.Context(), id)
	if err != nil {
		p.Errors = []string{"Could not fetch analytics data. Please try again later."}
		if apiclient.IsStatus(err, http.StatusNotFound) {
			p.Errors = []string{"No analytics data found for this event."}
		}
		s.render(w, r, s.apiStatus(r, err), "analytics", p)
		return
	}
	p.Analytics = a
	s.render(w, r, http.StatusOK, "analytics", p)
}

func (s *Server) popular(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Popular Events", User: sessionFrom(r.Context())}
	events, err := s.api.PopularEvents(r.Context())
	if err != nil {
		p.Errors = []string{apiMessage(err)}
		s.render(w, r, s.apiStatus(r, err), "popular", p)
		return
	}
	p.Popular = events
	s.render(w, r, http.StatusOK, "popular", p)
}

// ownedEvent loads the event named in the path from the user's own events. Events the user
// does not own, or that no longer exist, send them back to the dashboard.
func (s *Server) ownedEvent(w http.ResponseWriter, r *http.Request, user *domain.SessionClaims) (*domain.Event, bool) {
	id, ok := eventIDParam(r)
	if !ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return nil, false
	}
	events, err := s.api.EventsByUser(r.Context(), user.UserID)
	if err != nil {
		s.render(w, r, s.apiStatus(r, err), "dashboard", page{Title: "Event Dashboard", User: user, Errors: []string{apiMessage(err)}})
		return nil, false
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], true
		}
	}
	http.Redirect(w, r, "/dashboard?notice=missing", http.StatusSeeOther)
	return nil, false
}

func eventIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// apiMessage is the text shown for a failed API call.
func apiMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.As(err, &apiErr) {
		return "An unexpected error occurred"
	}
	return "Could not connect to the server."
}

// apiStatus picks the page status for a failed API call and logs transport failures.
func (s *Server) apiStatus(r *http.Request, err error) int {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return apiErr.Status
	}
	s.logger.WarnContext(r.Context(), "api call failed", "path", r.URL.Path, "err", err)
	return http.StatusBadGateway
}
