package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventplanner/internal/domain"
)

type analyticsRepository struct {
	DB DBTX
}

// NewAnalyticsRepository returns a read-only repository over the aggregate views.
func NewAnalyticsRepository(db DBTX) domain.AnalyticsRepository {
	return &analyticsRepository{DB: db}
}

func (r *analyticsRepository) GetSummary(ctx context.Context, eventID int64) (*domain.EventSummary, error) {
	query := `
		SELECT id, title, location, start_time, end_time, user_id,
		       attendee_count, vendor_count, sponsor_count, item_count,
		       total_sponsorship, total_costs, popularity_rank
		FROM event_summary
		WHERE id = $1
	`
	s := &domain.EventSummary{}
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(
		&s.ID, &s.Title, &s.Location, &s.StartTime, &s.EndTime, &s.UserID,
		&s.AttendeeCount, &s.VendorCount, &s.SponsorCount, &s.ItemCount,
		&s.TotalSponsorship, &s.TotalCosts, &s.PopularityRank,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *analyticsRepository) GetTotals(ctx context.Context, eventID int64) (*domain.EventTotals, error) {
	query := `
		SELECT attendee_count, sponsor_count, vendor_count, total_sponsorship, total_costs
		FROM event_totals
		WHERE id = $1
	`
	t := &domain.EventTotals{}
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(
		&t.TotalAttendees, &t.TotalSponsors, &t.TotalVendors, &t.TotalSponsorship, &t.TotalCosts,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *analyticsRepository) ListPopular(ctx context.Context, limit int) ([]*domain.PopularEvent, error) {
	query := `
		SELECT id, title, location, start_time, attendee_count, total_sponsorship, popularity_rank
		FROM event_popularity
		ORDER BY popularity_rank, id
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.PopularEvent, 0)
	for rows.Next() {
		p := &domain.PopularEvent{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Location, &p.StartTime, &p.AttendeeCount, &p.TotalSponsorship, &p.PopularityRank); err != nil {
			return nil, err
		}
		events = append(events, p)
	}
	return events, rows.Err()
}
