package controllers

import (
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

// VendorRequest is a vendor line in an event body.
type VendorRequest struct {
	Name           string   `json:"name" validate:"required"`
	Service        string   `json:"service" validate:"required"`
	AmountToBePaid *float64 `json:"amount_to_be_paid" validate:"omitempty,gte=0"`
}

// SponsorRequest is a sponsor line in an event body. Contribution is required on create
// and defaults to 0 on update.
type SponsorRequest struct {
	Name         string   `json:"name" validate:"required"`
	Level        string   `json:"level" validate:"required"`
	Contribution *float64 `json:"contribution"`
}

// ItemRequest is an inventory line in an event body. Quantity is required on create;
// a missing quantity in event_items means 1.
type ItemRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitempty,gte=0"`
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description *string          `json:"description" validate:"required"`
	Location    string           `json:"location" validate:"required"`
	StartTime   string           `json:"start_time" validate:"required"`
	EndTime     string           `json:"end_time" validate:"required"`
	UserID      int64            `json:"user_id" validate:"required,gt=0"`
	Attendees   []string         `json:"attendees" validate:"omitempty,dive,required"`
	Vendors     []VendorRequest  `json:"vendors" validate:"omitempty,dive"`
	Sponsors    []SponsorRequest `json:"sponsors" validate:"omitempty,dive"`
	Items       []ItemRequest    `json:"items" validate:"omitempty,dive"`

	start, end time.Time
}

// Validate implements helpers.Validator.
func (c *CreateEventRequest) Validate() []string {
	var errs []string
	errs = parseTimes(c.StartTime, c.EndTime, &c.start, &c.end, errs)
	for i, s := range c.Sponsors {
		if s.Contribution == nil {
			errs = append(errs, fmt.Sprintf("sponsors[%d].contribution is required", i))
		}
	}
	for i, it := range c.Items {
		if it.Quantity == nil {
			errs = append(errs, fmt.Sprintf("items[%d].quantity is required", i))
		}
	}
	return errs
}

// ToInput converts a validated request.
func (c *CreateEventRequest) ToInput() *domain.EventInput {
	return &domain.EventInput{
		Title:       c.Title,
		Description: *c.Description,
		Location:    c.Location,
		StartTime:   c.start,
		EndTime:     c.end,
		UserID:      c.UserID,
		Attendees:   c.Attendees,
		Vendors:     toVendors(c.Vendors),
		Sponsors:    toSponsors(c.Sponsors),
		Items:       toItems(c.Items),
	}
}

// UpdateEventRequest is the request body for PUT /events/{id}. A child list that is absent
// or null keeps the stored rows; attendees, vendors and sponsors are replaced and
// event_items is reconciled by item name.
type UpdateEventRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description *string           `json:"description" validate:"required"`
	Location    string            `json:"location" validate:"required"`
	StartTime   string            `json:"start_time" validate:"required"`
	EndTime     string            `json:"end_time" validate:"required"`
	UserID      *int64            `json:"user_id"` // accepted, ownership never changes
	Attendees   *[]string         `json:"attendees" validate:"omitempty,dive,required"`
	Vendors     *[]VendorRequest  `json:"vendors" validate:"omitempty,dive"`
	Sponsors    *[]SponsorRequest `json:"sponsors" validate:"omitempty,dive"`
	EventItems  *[]ItemRequest    `json:"event_items" validate:"omitempty,dive"`

	start, end time.Time
}

// Validate implements helpers.Validator.
func (u *UpdateEventRequest) Validate() []string {
	return parseTimes(u.StartTime, u.EndTime, &u.start, &u.end, nil)
}

// ToUpdate converts a validated request for event id.
func (u *UpdateEventRequest) ToUpdate(id int64) *domain.EventUpdate {
	in := &domain.EventUpdate{
		ID:          id,
		Title:       u.Title,
		Description: *u.Description,
		Location:    u.Location,
		StartTime:   u.start,
		EndTime:     u.end,
	}
	if u.Attendees != nil {
		attendees := append([]string{}, *u.Attendees...)
		in.Attendees = &attendees
	}
	if u.Vendors != nil {
		vendors := toVendors(*u.Vendors)
		in.Vendors = &vendors
	}
	if u.Sponsors != nil {
		sponsors := toSponsors(*u.Sponsors)
		in.Sponsors = &sponsors
	}
	if u.EventItems != nil {
		items := toItems(*u.EventItems)
		in.Items = &items
	}
	return in
}

// AddItemRequest is the request body for POST /events/{id}/items.
type AddItemRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
}

// AddSponsorRequest is the request body for POST /events/{id}/sponsors.
type AddSponsorRequest struct {
	Name         string   `json:"name" validate:"required"`
	Level        string   `json:"level" validate:"required"`
	Contribution *float64 `json:"contribution" validate:"required"`
}

func parseTimes(startRaw, endRaw string, start, end *time.Time, errs []string) []string {
	var err error
	if *start, err = domain.ParseTimestamp(startRaw); err != nil {
		errs = append(errs, "start_time must be an ISO-8601 date-time")
	}
	if *end, err = domain.ParseTimestamp(endRaw); err != nil {
		errs = append(errs, "end_time must be an ISO-8601 date-time")
	}
	return errs
}

func toVendors(in []VendorRequest) []domain.Vendor {
	out := make([]domain.Vendor, 0, len(in))
	for _, v := range in {
		var amount float64
		if v.AmountToBePaid != nil {
			amount = *v.AmountToBePaid
		}
		out = append(out, domain.Vendor{Name: v.Name, Service: v.Service, AmountToBePaid: amount})
	}
	return out
}

func toSponsors(in []SponsorRequest) []domain.Sponsor {
	out := make([]domain.Sponsor, 0, len(in))
	for _, s := range in {
		var contribution float64
		if s.Contribution != nil {
			contribution = *s.Contribution
		}
		out = append(out, domain.Sponsor{Name: s.Name, Level: s.Level, Contribution: contribution})
	}
	return out
}

func toItems(in []ItemRequest) []domain.Item {
	out := make([]domain.Item, 0, len(in))
	for _, it := range in {
		qty := domain.DefaultItemQuantity
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		out = append(out, domain.Item{ItemName: it.ItemName, Quantity: qty})
	}
	return out
}
