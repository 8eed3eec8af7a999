package services

import (
	"context"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	tx             domain.Transactor
	repos          domain.Repositories
	contextTimeout time.Duration
}

// NewEventService returns an EventService. Writes run through tx; reads use repos directly.
func NewEventService(tx domain.Transactor, repos domain.Repositories, timeout time.Duration) domain.EventService {
	return &eventService{
		tx:             tx,
		repos:          repos,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, in *domain.EventInput) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		UserID:      in.UserID,
	}
	err := s.tx.WithinTx(ctx, func(r domain.Repositories) error {
		if err := r.Events.Create(ctx, event); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		if len(in.Attendees) > 0 {
			if err := r.Participants.AddAttendees(ctx, event.ID, in.Attendees); err != nil {
				return fmt.Errorf("insert attendees: %w", err)
			}
		}
		if len(in.Vendors) > 0 {
			if err := r.Participants.AddVendors(ctx, event.ID, in.Vendors); err != nil {
				return fmt.Errorf("insert vendors: %w", err)
			}
		}
		if len(in.Sponsors) > 0 {
			if err := r.Participants.AddSponsors(ctx, event.ID, in.Sponsors); err != nil {
				return fmt.Errorf("insert sponsors: %w", err)
			}
		}
		for i := range in.Items {
			item := in.Items[i]
			if err := r.Items.Create(ctx, event.ID, &item); err != nil {
				return fmt.Errorf("insert item %q: %w", item.ItemName, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, in *domain.EventUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(r domain.Repositories) error {
		if _, err := r.Events.GetByID(ctx, in.ID); err != nil {
			return err
		}

		event := &domain.Event{
			ID:          in.ID,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
		}
		conflict, err := r.Events.HasVenueConflict(ctx, event)
		if err != nil {
			return fmt.Errorf("check venue: %w", err)
		}
		if conflict {
			return domain.ErrVenueConflict
		}
		if err := r.Events.Update(ctx, event); err != nil {
			return fmt.Errorf("update event: %w", err)
		}

		if in.Attendees != nil {
			if err := r.Participants.DeleteAttendees(ctx, in.ID); err != nil {
				return fmt.Errorf("clear attendees: %w", err)
			}
			if err := r.Participants.AddAttendees(ctx, in.ID, *in.Attendees); err != nil {
				return fmt.Errorf("insert attendees: %w", err)
			}
		}
		if in.Vendors != nil {
			if err := r.Participants.DeleteVendors(ctx, in.ID); err != nil {
				return fmt.Errorf("clear vendors: %w", err)
			}
			if err := r.Participants.AddVendors(ctx, in.ID, *in.Vendors); err != nil {
				return fmt.Errorf("insert vendors: %w", err)
			}
		}
		if in.Sponsors != nil {
			if err := r.Participants.DeleteSponsors(ctx, in.ID); err != nil {
				return fmt.Errorf("clear sponsors: %w", err)
			}
			if err := r.Participants.AddSponsors(ctx, in.ID, *in.Sponsors); err != nil {
				return fmt.Errorf("insert sponsors: %w", err)
			}
		}
		if in.Items != nil {
			if err := reconcileItems(ctx, r.Items, in.ID, *in.Items); err != nil {
				return fmt.Errorf("reconcile items: %w", err)
			}
		}
		return nil
	})
}

func reconcileItems(ctx context.Context, items domain.ItemRepository, eventID int64, incoming []domain.Item) error {
	existing, err := items.ListByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	plan := planItems(existing, incoming)
	if plan.empty() {
		return nil
	}
	for _, it := range plan.updates {
		if err := items.UpdateQuantity(ctx, it.ItemID, it.Quantity); err != nil {
			return err
		}
	}
	for i := range plan.inserts {
		if err := items.Create(ctx, eventID, &plan.inserts[i]); err != nil {
			return err
		}
	}
	for _, id := range plan.deletes {
		if err := items.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(r domain.Repositories) error {
		if _, err := r.Events.GetByID(ctx, eventID); err != nil {
			return err
		}
		if err := r.Participants.DeleteAttendees(ctx, eventID); err != nil {
			return fmt.Errorf("delete attendees: %w", err)
		}
		if err := r.Participants.DeleteVendors(ctx, eventID); err != nil {
			return fmt.Errorf("delete vendors: %w", err)
		}
		if err := r.Participants.DeleteSponsors(ctx, eventID); err != nil {
			return fmt.Errorf("delete sponsors: %w", err)
		}
		if err := r.Items.DeleteByEventID(ctx, eventID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return r.Events.Delete(ctx, eventID)
	})
}

func (s *eventService) ListEventsByUser(ctx context.Context, userID int64) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.repos.Events.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events by user: %w", err)
	}
	return s.expand(ctx, events)
}

func (s *eventService) ListEventsByAttendee(ctx context.Context, email string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.repos.Events.ListByAttendeeEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list events by attendee: %w", err)
	}
	return s.expand(ctx, events)
}

// expand loads the child collections of each event.
func (s *eventService) expand(ctx context.Context, events []*domain.Event) ([]*domain.Event, error) {
	for _, e := range events {
		var err error
		if e.Attendees, err = s.repos.Participants.ListAttendees(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("list attendees: %w", err)
		}
		if e.Vendors, err = s.repos.Participants.ListVendors(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("list vendors: %w", err)
		}
		if e.Sponsors, err = s.repos.Participants.ListSponsors(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("list sponsors: %w", err)
		}
		if e.Items, err = s.repos.Items.ListByEventID(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListItems(ctx context.Context, eventID int64) ([]domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, err := s.repos.Items.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *eventService) AddItem(ctx context.Context, eventID int64, item *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.repos.Items.Create(ctx, eventID, item); err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	return nil
}

func (s *eventService) ListSponsors(ctx context.Context, eventID int64) ([]domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sponsors, err := s.repos.Participants.ListSponsorsByContribution(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	return sponsors, nil
}

func (s *eventService) AddSponsor(ctx context.Context, eventID int64, sponsor *domain.Sponsor) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.repos.Participants.AddSponsors(ctx, eventID, []domain.Sponsor{*sponsor}); err != nil {
		return fmt.Errorf("add sponsor: %w", err)
	}
	return nil
}
