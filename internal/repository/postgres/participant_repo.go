package postgres

import (
	"context"

	"eventplanner/internal/domain"
)

type participantRepository struct {
	DB DBTX
}

// NewParticipantRepository returns a domain.ParticipantRepository for attendees, vendors and sponsors.
func NewParticipantRepository(db DBTX) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

func (r *participantRepository) ListAttendees(ctx context.Context, eventID int64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT email FROM attendees WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *participantRepository) AddAttendees(ctx context.Context, eventID int64, emails []string) error {
	for _, email := range emails {
		if _, err := r.DB.ExecContext(ctx, `INSERT INTO attendees (event_id, email) VALUES ($1, $2)`, eventID, email); err != nil {
			return classifyWriteError(err, domain.ErrNotFound)
		}
	}
	return nil
}

func (r *participantRepository) DeleteAttendees(ctx context.Context, eventID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM attendees WHERE event_id = $1`, eventID)
	return err
}

func (r *participantRepository) ListVendors(ctx context.Context, eventID int64) ([]domain.Vendor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT name, service, amount_to_be_paid FROM vendors WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := make([]domain.Vendor, 0)
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(&v.Name, &v.Service, &v.AmountToBePaid); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *participantRepository) AddVendors(ctx context.Context, eventID int64, vendors []domain.Vendor) error {
	for _, v := range vendors {
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO vendors (event_id, name, service, amount_to_be_paid) VALUES ($1, $2, $3, $4)`,
			eventID, v.Name, v.Service, v.AmountToBePaid)
		if err != nil {
			return classifyWriteError(err, domain.ErrNotFound)
		}
	}
	return nil
}

func (r *participantRepository) DeleteVendors(ctx context.Context, eventID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM vendors WHERE event_id = $1`, eventID)
	return err
}

func (r *participantRepository) ListSponsors(ctx context.Context, eventID int64) ([]domain.Sponsor, error) {
	return r.listSponsors(ctx,
		`SELECT name, level, contribution FROM sponsors WHERE event_id = $1 ORDER BY id`, eventID)
}

func (r *participantRepository) ListSponsorsByContribution(ctx context.Context, eventID int64) ([]domain.Sponsor, error) {
	return r.listSponsors(ctx,
		`SELECT name, level, contribution FROM sponsors WHERE event_id = $1 ORDER BY contribution DESC, id`, eventID)
}

func (r *participantRepository) listSponsors(ctx context.Context, query string, eventID int64) ([]domain.Sponsor, error) {
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sponsors := make([]domain.Sponsor, 0)
	for rows.Next() {
		var s domain.Sponsor
		if err := rows.Scan(&s.Name, &s.Level, &s.Contribution); err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func (r *participantRepository) AddSponsors(ctx context.Context, eventID int64, sponsors []domain.Sponsor) error {
	for _, s := range sponsors {
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO sponsors (event_id, name, level, contribution) VALUES ($1, $2, $3, $4)`,
			eventID, s.Name, s.Level, s.Contribution)
		if err != nil {
			return classifyWriteError(err, domain.ErrNotFound)
		}
	}
	return nil
}

func (r *participantRepository) DeleteSponsors(ctx context.Context, eventID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sponsors WHERE event_id = $1`, eventID)
	return err
}
