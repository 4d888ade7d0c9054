package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
)

func setupMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

var locationColumns = []string{
	"id", "name", "bay_count",
	"weekday_open", "weekday_close", "saturday_open", "saturday_close",
	"sunday_open", "sunday_close", "holiday_open", "holiday_close",
	"created_at", "updated_at",
}

func TestGetByID(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, bay_count, weekday_open::text, .* FROM locations WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(locationColumns).
			AddRow(int64(7), "Centro", 3, "08:00:00", "18:00:00", "09:00:00", "13:00:00", nil, nil, "22:00:00", "02:00:00", now, now))

	loc, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Centro", loc.Name)
	assert.Equal(t, 3, loc.BayCount)
	assert.True(t, loc.MondayToFriday.IsConfigured())
	assert.Equal(t, "18:00:00", *loc.MondayToFriday.Close)
	assert.False(t, loc.Sunday.IsConfigured())
	assert.Equal(t, "02:00:00", *loc.Holiday.Close)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`FROM locations`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(locationColumns))

	_, err := repo.GetByID(context.Background(), 7)

	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestGetByID_DriverError(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`FROM locations`).WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByID(context.Background(), 7)

	assert.ErrorIs(t, err, ErrScanRow)
}

func TestIsHoliday(t *testing.T) {
	repo, mock := setupMock(t)
	day := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT EXISTS\( SELECT 1 FROM holidays WHERE holiday_date = \$1::date AND \(location_id IS NULL OR location_id = \$2\) \)`).
		WithArgs("2025-12-25", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsHoliday(context.Background(), 7, day)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsHoliday_RegularDay(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`FROM holidays`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.IsHoliday(context.Background(), 7, time.Now())

	require.NoError(t, err)
	assert.False(t, ok)
}
