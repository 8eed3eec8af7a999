package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events    *controllers.EventController
	Analytics *controllers.AnalyticsController
	Users     *controllers.UserController
}

// NewRouter builds the API handler: all routes wrapped in request id, logging, recovery
// and CORS middleware. /events/user/{user_id} and /events/{id}/items overlap as stdlib mux
// patterns, so routing uses chi, which also fills r.PathValue.
func NewRouter(logger *slog.Logger, allowedOrigins []string, c Controllers) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteJSONError(w, http.StatusMethodNotAllowed, helpers.ErrCodeBadRequest, "method not allowed")
	})

	// Users
	r.Post("/register", c.Users.Register)
	r.Post("/login", c.Users.Login)

	// Events
	r.Post("/events", c.Events.CreateEvent)
	r.Get("/events/popular", c.Analytics.ListPopularEvents)
	r.Get("/events/user/{user_id}", c.Events.ListEventsByUser)
	r.Get("/events/attendee/{email}", c.Events.ListEventsByAttendee)
	r.Put("/events/{id}", c.Events.UpdateEvent)
	r.Delete("/events/{id}", c.Events.DeleteEvent)
	r.Get("/events/{id}/items", c.Events.ListItems)
	r.Post("/events/{id}/items", c.Events.AddItem)
	r.Get("/events/{id}/sponsors", c.Events.ListSponsors)
	r.Post("/events/{id}/sponsors", c.Events.AddSponsor)
	r.Get("/events/{id}/analytics", c.Analytics.GetEventAnalytics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var h http.Handler = r
	h = middleware.CORS(allowedOrigins, h)
	h = middleware.Recover(logger, h)
	h = middleware.LoggingMiddleware(logger, h)
	h = middleware.RequestID(h)
	return h
}
