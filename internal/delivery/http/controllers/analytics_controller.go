package controllers

import (
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

// AnalyticsResponse is the payload of GET /events/{id}/analytics.
type AnalyticsResponse struct {
	Summary   *domain.EventSummary   `json:"summary"`
	Analytics *domain.EventAnalytics `json:"analytics"`
}

// PopularEventsResponse is the payload of GET /events/popular.
type PopularEventsResponse struct {
	PopularEvents []*domain.PopularEvent `json:"popular_events"`
}

// AnalyticsSuccessResponse is the success envelope for GET /events/{id}/analytics.
type AnalyticsSuccessResponse struct {
	Data  AnalyticsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PopularEventsSuccessResponse is the success envelope for GET /events/popular.
type PopularEventsSuccessResponse struct {
	Data  PopularEventsResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type AnalyticsController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAnalyticsController(logger *slog.Logger, svc domain.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Logger: logger, Service: svc}
}

// GetEventAnalytics godoc
// @Summary Event analytics
// @Description Summary row for the event plus attendee, sponsor and vendor totals and the projected profit (sponsorship minus vendor costs).
// @Tags analytics
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.AnalyticsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/analytics [get]
func (c *AnalyticsController) GetEventAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	summary, analytics, err := c.Service.GetEventAnalytics(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "no analytics data found for this event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnalyticsResponse{Summary: summary, Analytics: analytics})
}

// ListPopularEvents godoc
// @Summary Most popular events
// @Description Top events ranked by distinct attendees, then total sponsorship.
// @Tags analytics
// @Produce json
// @Success 200 {object} controllers.PopularEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/popular [get]
func (c *AnalyticsController) ListPopularEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListPopularEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "no events found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PopularEventsResponse{PopularEvents: events})
}
