package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventplanner/internal/domain"
)

type eventRepository struct {
	DB DBTX
}

func NewEventRepository(db DBTX) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, start_time, end_time, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, e.Title, e.Description, e.Location, e.StartTime, e.EndTime, e.UserID).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		// the only foreign key on events is the owner
		return classifyWriteError(err, domain.ErrNotFound)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT id, title, description, location, start_time, end_time, user_id, created_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime, &e.UserID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, start_time = $4, end_time = $5
		WHERE id = $6
	`
	result, err := r.DB.ExecContext(ctx, query, e.Title, e.Description, e.Location, e.StartTime, e.EndTime, e.ID)
	if err != nil {
		return classifyWriteError(err, nil)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return classifyWriteError(err, domain.ErrHasDependencies)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Event, error) {
	query := `
		SELECT id, title, description, location, start_time, end_time, user_id, created_at
		FROM events
		WHERE user_id = $1
		ORDER BY start_time DESC
	`
	return r.list(ctx, query, userID)
}

func (r *eventRepository) ListByAttendeeEmail(ctx context.Context, email string) ([]*domain.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.title, e.description, e.location, e.start_time, e.end_time, e.user_id, e.created_at
		FROM events e
		JOIN attendees a ON a.event_id = e.id
		WHERE a.email = $1
		ORDER BY e.start_time DESC
	`
	return r.list(ctx, query, email)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) HasVenueConflict(ctx context.Context, e *domain.Event) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM events
			WHERE id <> $1
			  AND LOWER(TRIM(location)) = LOWER(TRIM($2))
			  AND start_time < $4
			  AND end_time > $3
		)
	`
	var conflict bool
	if err := r.DB.QueryRowContext(ctx, query, e.ID, e.Location, e.StartTime, e.EndTime).Scan(&conflict); err != nil {
		return false, err
	}
	return conflict, nil
}
