package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestParticipantRepository_Attendees(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParticipantRepository(db)

	mock.ExpectExec(`INSERT INTO attendees \(event_id, email\)`).WithArgs(int64(1), "a@x.com").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO attendees \(event_id, email\)`).WithArgs(int64(1), "b@x.com").WillReturnResult(sqlmock.NewResult(2, 1))
	require.NoError(t, repo.AddAttendees(ctx, 1, []string{"a@x.com", "b@x.com"}))

	mock.ExpectQuery(`SELECT email FROM attendees WHERE event_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@x.com").AddRow("b@x.com"))
	got, err := repo.ListAttendees(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a@x.com", "b@x.com"}, got)

	mock.ExpectExec(`DELETE FROM attendees WHERE event_id = \$1`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	require.NoError(t, repo.DeleteAttendees(ctx, 1))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_AddAttendees_UnknownEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO attendees`).WillReturnError(&pq.Error{Code: "23503"})
	err = NewParticipantRepository(db).AddAttendees(context.Background(), 99, []string{"a@x.com"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParticipantRepository_Vendors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    []domain.Vendor
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, service, amount_to_be_paid FROM vendors`).
					WithArgs(int64(2)).
					WillReturnRows(sqlmock.NewRows([]string{"name", "service", "amount_to_be_paid"}).
						AddRow("Cater Co", "catering", 1200.5))
			},
			want: []domain.Vendor{{Name: "Cater Co", Service: "catering", AmountToBePaid: 1200.5}},
		},
		{
			name: "empty",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM vendors`).WillReturnRows(sqlmock.NewRows([]string{"name", "service", "amount_to_be_paid"}))
			},
			want: []domain.Vendor{},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM vendors`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewParticipantRepository(db).ListVendors(ctx, 2)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestParticipantRepository_AddVendors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO vendors \(event_id, name, service, amount_to_be_paid\)`).
		WithArgs(int64(2), "DJ", "music", 300.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM vendors WHERE event_id = \$1`).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewParticipantRepository(db)
	require.NoError(t, repo.AddVendors(context.Background(), 2, []domain.Vendor{{Name: "DJ", Service: "music", AmountToBePaid: 300}}))
	require.NoError(t, repo.DeleteVendors(context.Background(), 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_Sponsors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewParticipantRepository(db)
	cols := []string{"name", "level", "contribution"}

	mock.ExpectExec(`INSERT INTO sponsors \(event_id, name, level, contribution\)`).
		WithArgs(int64(3), "Acme", "gold", 5000.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.AddSponsors(ctx, 3, []domain.Sponsor{{Name: "Acme", Level: "gold", Contribution: 5000}}))

	mock.ExpectQuery(`FROM sponsors WHERE event_id = \$1 ORDER BY id`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("Acme", "gold", 5000.0))
	got, err := repo.ListSponsors(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []domain.Sponsor{{Name: "Acme", Level: "gold", Contribution: 5000}}, got)

	mock.ExpectQuery(`FROM sponsors WHERE event_id = \$1 ORDER BY contribution DESC, id`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("Acme", "gold", 5000.0).AddRow("Bolt", "silver", 100.0))
	got, err = repo.ListSponsorsByContribution(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Acme", got[0].Name)

	mock.ExpectExec(`DELETE FROM sponsors WHERE event_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
	require.NoError(t, repo.DeleteSponsors(ctx, 3))

	require.NoError(t, mock.ExpectationsWereMet())
}
