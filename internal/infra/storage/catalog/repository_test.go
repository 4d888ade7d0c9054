package catalog

import (
	"context"
	"errors"
	"testing"

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

func TestGetByIDs(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`SELECT id, name, average_duration::text, price FROM services WHERE id IN \(\$1,\$2\) ORDER BY id ASC`).
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "average_duration", "price"}).
			AddRow(int64(1), "Oil change", "00:40:00", 150.0).
			AddRow(int64(3), "Diagnostics", "01:00:00", nil))

	items, err := repo.GetByIDs(context.Background(), []int64{3, 1})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "00:40:00", items[0].AverageDuration)
	assert.Nil(t, items[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDs_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock := setupMock(t)

	items, err := repo.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDs_QueryFails(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`FROM services`).WillReturnError(errors.New("timeout"))

	_, err := repo.GetByIDs(context.Background(), []int64{1})

	assert.ErrorIs(t, err, ErrExecQuery)
}
