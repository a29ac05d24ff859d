package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func sampleRow() StaffRow {
	return StaffRow{
		Name:             "Jane Doe",
		Title:            ptr("Dr."),
		PhotoURL:         ptr("https://storage.googleapis.com/bucket/images/Jane_Doe.jpg"),
		Position:         "Professor",
		Department:       "Music",
		OfficeLocation:   ptr("Hall 101"),
		Phone:            ptr("555-0100"),
		Email:            "jane.doe@example.edu",
		TimeslotsPerHour: 2,
	}
}

func TestInsertCommitsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStaffStoreWithPool(mock, "staff")
	require.NoError(t, err)

	row := sampleRow()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO staff").
		WithArgs(
			row.Name,
			row.Title,
			row.PhotoURL,
			row.Position,
			row.Department,
			row.OfficeLocation,
			row.Phone,
			row.Email,
			row.TimeslotsPerHour,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, store.Insert(context.Background(), row))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertNullsOptionalColumns(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStaffStoreWithPool(mock, "staff")
	require.NoError(t, err)

	row := StaffRow{
		Name:             "Jane Doe",
		Position:         "Professor",
		Department:       "Music",
		Email:            "jane.doe@example.edu",
		TimeslotsPerHour: 2,
	}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO staff").
		WithArgs(
			row.Name,
			(*string)(nil),
			(*string)(nil),
			row.Position,
			row.Department,
			(*string)(nil),
			(*string)(nil),
			row.Email,
			row.TimeslotsPerHour,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, store.Insert(context.Background(), row))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMapsUniqueViolationToDuplicateEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStaffStoreWithPool(mock, "staff")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO staff").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "staff_email_key"})
	mock.ExpectRollback()

	err = store.Insert(context.Background(), sampleRow())
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRollsBackOnOtherFailure(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewStaffStoreWithPool(mock, "staff")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO staff").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = store.Insert(context.Background(), sampleRow())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStaffStoreWithPoolValidation(t *testing.T) {
	t.Parallel()

	_, err := NewStaffStoreWithPool(nil, "staff")
	require.Error(t, err)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewStaffStoreWithPool(mock, "bad;table")
	require.Error(t, err)
}
