package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

const eventNotFound = "event not found"

// EventIDResponse is the payload of create and update.
type EventIDResponse struct {
	EventID int64 `json:"event_id"`
}

// EventsResponse wraps a list of expanded events.
type EventsResponse struct {
	Events []*domain.Event `json:"events"`
}

// ItemsResponse wraps the items of one event.
type ItemsResponse struct {
	Items []domain.Item `json:"items"`
}

// ItemResponse wraps a created item.
type ItemResponse struct {
	Item *domain.Item `json:"item"`
}

// SponsorsResponse wraps the sponsors of one event.
type SponsorsResponse struct {
	Sponsors []domain.Sponsor `json:"sponsors"`
}

// SponsorResponse wraps a created sponsor.
type SponsorResponse struct {
	Sponsor *domain.Sponsor `json:"sponsor"`
}

// StatusResponse is the payload of delete.
type StatusResponse struct {
	Status string `json:"status"`
}

// EventIDSuccessResponse is the success envelope for POST /events and PUT /events/{id}.
type EventIDSuccessResponse struct {
	Data  EventIDResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventsSuccessResponse is the success envelope for the event list endpoints.
type EventsSuccessResponse struct {
	Data  EventsResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventController handles event, item and sponsor endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return 0, false
	}
	return id, true
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event with its attendees, vendors, sponsors and items in one transaction. Any failure leaves nothing behind.
// @Tags events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event and child lists"
// @Success 201 {object} controllers.EventIDSuccessResponse "data.event_id is the new id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, err := c.Service.CreateEvent(r.Context(), req.ToInput())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventIDResponse{EventID: id})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates the event fields. Attendees, vendors and sponsors present in the body replace the stored lists; event_items are matched by item name. Absent lists are kept.
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body UpdateEventRequest true "Event fields and optional child lists"
// @Success 200 {object} controllers.EventIDSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: venue_conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := c.eventID(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.UpdateEvent(r.Context(), req.ToUpdate(id)); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventIDResponse{EventID: id})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and all of its attendees, vendors, sponsors and items.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.status is \"deleted\""
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or has_dependencies"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := c.eventID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// ListEventsByUser godoc
// @Summary List events created by a user
// @Description Events owned by the user, newest start time first, with all child lists.
// @Tags events
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/user/{user_id} [get]
func (c *EventController) ListEventsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "user_id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user id")
		return
	}
	events, err := c.Service.ListEventsByUser(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventsResponse{Events: events})
}

// ListEventsByAttendee godoc
// @Summary List events an email attends
// @Description Events with a matching attendee, each listed once, newest start time first.
// @Tags events
// @Produce json
// @Param email path string true "Attendee email"
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/attendee/{email} [get]
func (c *EventController) ListEventsByAttendee(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "email is required")
		return
	}
	events, err := c.Service.ListEventsByAttendee(r.Context(), email)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventsResponse{Events: events})
}

// ListItems godoc
// @Summary List event items
// @Tags items
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.items ordered by item_id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/items [get]
func (c *EventController) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := c.eventID(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListItems(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ItemsResponse{Items: items})
}

// AddItem godoc
// @Summary Add an item to an event
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body AddItemRequest true "Item"
// @Success 201 {object} helpers.APIResponse "data.item is the created item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/items [post]
func (c *EventController) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := c.eventID(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	item := &domain.Item{ItemName: req.ItemName, Quantity: *req.Quantity}
	if err := c.Service.AddItem(r.Context(), id, item); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ItemResponse{Item: item})
}

// ListSponsors godoc
// @Summary List event sponsors
// @Tags sponsors
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.sponsors, highest contribution first"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/sponsors [get]
func (c *EventController) ListSponsors(w http.ResponseWriter, r *http.Request) {
	id, ok := c.eventID(w, r)
	if !ok {
		return
	}
	sponsors, err := c.Service.ListSponsors(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SponsorsResponse{Sponsors: sponsors})
}

// AddSponsor godoc
// @Summary Add a sponsor to an event
// @Tags sponsors
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body AddSponsorRequest true "Sponsor"
// @Success 201 {object} helpers.APIResponse "data.sponsor is the created sponsor"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/sponsors [post]
func (c *EventController) AddSponsor(w http.ResponseWriter, r *http.Request) {
	id, ok := c.eventID(w, r)
	if !ok {
		return
	}
	var req AddSponsorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sponsor := &domain.Sponsor{Name: req.Name, Level: req.Level, Contribution: *req.Contribution}
	if err := c.Service.AddSponsor(r.Context(), id, sponsor); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, eventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, SponsorResponse{Sponsor: sponsor})
}
