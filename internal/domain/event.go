package domain

import (
	"context"
	"time"
)

// Event is the top-level planned occasion owned by a user, together with its child collections.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	Attendees   []string  `json:"attendees"`
	Vendors     []Vendor  `json:"vendors"`
	Sponsors    []Sponsor `json:"sponsors"`
	Items       []Item    `json:"items"`
}

// Vendor provides a service at an event.
type Vendor struct {
	Name           string  `json:"name"`
	Service        string  `json:"service"`
	AmountToBePaid float64 `json:"amount_to_be_paid"`
}

// Sponsor contributes money to an event.
type Sponsor struct {
	Name         string  `json:"name"`
	Level        string  `json:"level"`
	Contribution float64 `json:"contribution"`
}

// Item is an inventory line of an event. ItemID is globally unique; ItemName is only a lookup key.
type Item struct {
	ItemID   int64  `json:"item_id,omitempty"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// DefaultItemQuantity is used when an item is stored without a quantity.
const DefaultItemQuantity = 1

// EventInput is a fully validated create request.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	UserID      int64
	Attendees   []string
	Vendors     []Vendor
	Sponsors    []Sponsor
	Items       []Item
}

// EventUpdate is a fully validated update request. A nil collection means "keep existing rows";
// a non-nil (possibly empty) collection replaces or reconciles them.
type EventUpdate struct {
	ID          int64
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   *[]string
	Vendors     *[]Vendor
	Sponsors    *[]Sponsor
	Items       *[]Item
}

// EventRepository defines the interface for event row storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Update writes the scalar fields. Returns ErrNotFound when no row matched.
	Update(ctx context.Context, event *Event) error
	// Delete removes the event row. Returns ErrHasDependencies on a foreign-key violation.
	Delete(ctx context.Context, id int64) error
	ListByUserID(ctx context.Context, userID int64) ([]*Event, error)
	ListByAttendeeEmail(ctx context.Context, email string) ([]*Event, error)
	// HasVenueConflict reports whether another event at the same location overlaps the event's time range.
	HasVenueConflict(ctx context.Context, event *Event) (bool, error)
}

// ParticipantRepository stores the wholesale-replaced children of an event.
type ParticipantRepository interface {
	ListAttendees(ctx context.Context, eventID int64) ([]string, error)
	AddAttendees(ctx context.Context, eventID int64, emails []string) error
	DeleteAttendees(ctx context.Context, eventID int64) error

	ListVendors(ctx context.Context, eventID int64) ([]Vendor, error)
	AddVendors(ctx context.Context, eventID int64, vendors []Vendor) error
	DeleteVendors(ctx context.Context, eventID int64) error

	ListSponsors(ctx context.Context, eventID int64) ([]Sponsor, error)
	// ListSponsorsByContribution lists sponsors ordered by contribution, highest first.
	ListSponsorsByContribution(ctx context.Context, eventID int64) ([]Sponsor, error)
	AddSponsors(ctx context.Context, eventID int64, sponsors []Sponsor) error
	DeleteSponsors(ctx context.Context, eventID int64) error
}

// ItemRepository stores event items by item id.
type ItemRepository interface {
	ListByEventID(ctx context.Context, eventID int64) ([]Item, error)
	// Create inserts the item and sets its ItemID. Returns ErrNotFound when the event does not exist.
	Create(ctx context.Context, eventID int64, item *Item) error
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) error
	Delete(ctx context.Context, itemID int64) error
	DeleteByEventID(ctx context.Context, eventID int64) error
}

// Repositories groups the repositories bound to one transaction.
type Repositories struct {
	Events       EventRepository
	Participants ParticipantRepository
	Items        ItemRepository
	Analytics    AnalyticsRepository
}

// Transactor runs fn inside a single store transaction. The transaction is committed
// when fn returns nil and rolled back on any error or panic.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// EventService defines the business logic for events and their children.
type EventService interface {
	CreateEvent(ctx context.Context, in *EventInput) (int64, error)
	UpdateEvent(ctx context.Context, in *EventUpdate) error
	DeleteEvent(ctx context.Context, eventID int64) error
	ListEventsByUser(ctx context.Context, userID int64) ([]*Event, error)
	ListEventsByAttendee(ctx context.Context, email string) ([]*Event, error)
	ListItems(ctx context.Context, eventID int64) ([]Item, error)
	AddItem(ctx context.Context, eventID int64, item *Item) error
	ListSponsors(ctx context.Context, eventID int64) ([]Sponsor, error)
	AddSponsor(ctx context.Context, eventID int64, sponsor *Sponsor) error
}
