package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventplanner/internal/adapters/apiclient"
	"eventplanner/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"landing", "register", "login", "dashboard", "event_form", "confirm_delete", "analytics", "popular",
}

// notices are the messages a redirect may ask the next page to show.
var notices = map[string]string{
	"registered": "Registration successful! Please log in.",
	"created":    "Event created successfully!",
	"updated":    "Event updated successfully!",
	"deleted":    "Event deleted successfully!",
	"missing":    "That event no longer exists.",
}

// eventView is an event on the dashboard. Attending-only events have no edit or delete actions.
type eventView struct {
	domain.Event
	AttendingOnly bool
}

// page is the data handed to every template.
type page struct {
	Title     string
	User      *domain.SessionClaims
	Notice    string
	Errors    []string
	Form      any
	Edit      bool
	EventID   int64
	Event     *domain.Event
	Events    []eventView
	Analytics *apiclient.Analytics
	Popular   []domain.PopularEvent
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"money":    formatMoney,
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"join":     strings.Join,
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// render executes a page inside the layout. Output is buffered so a template error can
// still become a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := s.pages[name]
	if !ok {
		s.logger.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if p.Notice == "" {
		p.Notice = notices[r.URL.Query().Get("notice")]
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.logger.ErrorContext(r.Context(), "render template", "template", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formatMoney renders 1234.5 as "$1,234.50" and -20 as "-$20.00".
func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}
