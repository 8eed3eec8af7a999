package services

import (
	"context"
	"sort"
	"strings"

	"eventplanner/internal/domain"
)

// memStore is an in-memory implementation of every event repository for tests.
type memStore struct {
	events    map[int64]*domain.Event
	attendees map[int64][]string
	vendors   map[int64][]domain.Vendor
	sponsors  map[int64][]domain.Sponsor
	items     map[int64]domain.Item // keyed by ItemID
	itemEvent map[int64]int64       // ItemID -> event id
	nextEvent int64
	nextItem  int64

	failItemCreate error // if set, Items.Create returns this error
}

func newMemStore() *memStore {
	return &memStore{
		events:    make(map[int64]*domain.Event),
		attendees: make(map[int64][]string),
		vendors:   make(map[int64][]domain.Vendor),
		sponsors:  make(map[int64][]domain.Sponsor),
		items:     make(map[int64]domain.Item),
		itemEvent: make(map[int64]int64),
		nextEvent: 1,
		nextItem:  100,
	}
}

func (m *memStore) repositories() domain.Repositories {
	return domain.Repositories{
		Events:       (*memEvents)(m),
		Participants: (*memParticipants)(m),
		Items:        (*memItems)(m),
	}
}

func (m *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range m.events {
		e := *v
		cp.events[k] = &e
	}
	for k, v := range m.attendees {
		cp.attendees[k] = append([]string(nil), v...)
	}
	for k, v := range m.vendors {
		cp.vendors[k] = append([]domain.Vendor(nil), v...)
	}
	for k, v := range m.sponsors {
		cp.sponsors[k] = append([]domain.Sponsor(nil), v...)
	}
	for k, v := range m.items {
		cp.items[k] = v
	}
	for k, v := range m.itemEvent {
		cp.itemEvent[k] = v
	}
	cp.nextEvent, cp.nextItem = m.nextEvent, m.nextItem
	cp.failItemCreate = m.failItemCreate
	return cp
}

// fakeTransactor restores the store when fn fails, mimicking a rollback.
type fakeTransactor struct {
	store *memStore
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	f.calls++
	saved := f.store.snapshot()
	if err := fn(f.store.repositories()); err != nil {
		*f.store = *saved
		return err
	}
	return nil
}

type memEvents memStore

func (m *memEvents) Create(ctx context.Context, e *domain.Event) error {
	if e.UserID <= 0 {
		return domain.ErrNotFound
	}
	e.ID = m.nextEvent
	m.nextEvent++
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memEvents) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memEvents) Update(ctx context.Context, e *domain.Event) error {
	cur, ok := m.events[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Title, cur.Description, cur.Location = e.Title, e.Description, e.Location
	cur.StartTime, cur.EndTime = e.StartTime, e.EndTime
	return nil
}

func (m *memEvents) Delete(ctx context.Context, id int64) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) sorted(keep func(*domain.Event) bool) []*domain.Event {
	out := make([]*domain.Event, 0)
	for _, e := range m.events {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (m *memEvents) ListByUserID(ctx context.Context, userID int64) ([]*domain.Event, error) {
	return m.sorted(func(e *domain.Event) bool { return e.UserID == userID }), nil
}

func (m *memEvents) ListByAttendeeEmail(ctx context.Context, email string) ([]*domain.Event, error) {
	return m.sorted(func(e *domain.Event) bool {
		for _, a := range m.attendees[e.ID] {
			if a == email {
				return true
			}
		}
		return false
	}), nil
}

func (m *memEvents) HasVenueConflict(ctx context.Context, e *domain.Event) (bool, error) {
	loc := strings.ToLower(strings.TrimSpace(e.Location))
	for _, other := range m.events {
		if other.ID == e.ID || strings.ToLower(strings.TrimSpace(other.Location)) != loc {
			continue
		}
		if other.StartTime.Before(e.EndTime) && other.EndTime.After(e.StartTime) {
			return true, nil
		}
	}
	return false, nil
}

type memParticipants memStore

func (m *memParticipants) exists(id int64) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (m *memParticipants) ListAttendees(ctx context.Context, eventID int64) ([]string, error) {
	return append([]string{}, m.attendees[eventID]...), nil
}

func (m *memParticipants) AddAttendees(ctx context.Context, eventID int64, emails []string) error {
	if err := m.exists(eventID); err != nil {
		return err
	}
	m.attendees[eventID] = append(m.attendees[eventID], emails...)
	return nil
}

func (m *memParticipants) DeleteAttendees(ctx context.Context, eventID int64) error {
	delete(m.attendees, eventID)
	return nil
}

func (m *memParticipants) ListVendors(ctx context.Context, eventID int64) ([]domain.Vendor, error) {
	return append([]domain.Vendor{}, m.vendors[eventID]...), nil
}

func (m *memParticipants) AddVendors(ctx context.Context, eventID int64, vendors []domain.Vendor) error {
	if err := m.exists(eventID); err != nil {
		return err
	}
	m.vendors[eventID] = append(m.vendors[eventID], vendors...)
	return nil
}

func (m *memParticipants) DeleteVendors(ctx context.Context, eventID int64) error {
	delete(m.vendors, eventID)
	return nil
}

func (m *memParticipants) ListSponsors(ctx context.Context, eventID int64) ([]domain.Sponsor, error) {
	return append([]domain.Sponsor{}, m.sponsors[eventID]...), nil
}

func (m *memParticipants) ListSponsorsByContribution(ctx context.Context, eventID int64) ([]domain.Sponsor, error) {
	out := append([]domain.Sponsor{}, m.sponsors[eventID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Contribution > out[j].Contribution })
	return out, nil
}

func (m *memParticipants) AddSponsors(ctx context.Context, eventID int64, sponsors []domain.Sponsor) error {
	if err := m.exists(eventID); err != nil {
		return err
	}
	m.sponsors[eventID] = append(m.sponsors[eventID], sponsors...)
	return nil
}

func (m *memParticipants) DeleteSponsors(ctx context.Context, eventID int64) error {
	delete(m.sponsors, eventID)
	return nil
}

type memItems memStore

func (m *memItems) ListByEventID(ctx context.Context, eventID int64) ([]domain.Item, error) {
	out := make([]domain.Item, 0)
	for id, ev := range m.itemEvent {
		if ev == eventID {
			out = append(out, m.items[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (m *memItems) Create(ctx context.Context, eventID int64, item *domain.Item) error {
	if m.failItemCreate != nil {
		return m.failItemCreate
	}
	if _, ok := m.events[eventID]; !ok {
		return domain.ErrNotFound
	}
	item.ItemID = m.nextItem
	m.nextItem++
	m.items[item.ItemID] = *item
	m.itemEvent[item.ItemID] = eventID
	return nil
}

func (m *memItems) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	it, ok := m.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	m.items[itemID] = it
	return nil
}

func (m *memItems) Delete(ctx context.Context, itemID int64) error {
	delete(m.items, itemID)
	delete(m.itemEvent, itemID)
	return nil
}

func (m *memItems) DeleteByEventID(ctx context.Context, eventID int64) error {
	for id, ev := range m.itemEvent {
		if ev == eventID {
			delete(m.items, id)
			delete(m.itemEvent, id)
		}
	}
	return nil
}
