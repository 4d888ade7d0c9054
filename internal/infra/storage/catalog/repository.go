package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayScheduler/pkg/psqlbuilder"
)

// Repository справочник услуг (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByIDs возвращает услуги по списку ID, отсортированные по ID
// Отсутствующие ID просто не попадают в результат, проверку полноты делает вызывающий код
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]domain.ServiceItem, error) {
	if len(ids) == 0 {
		return []domain.ServiceItem{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"average_duration::text",
		"price",
	).
		From("services").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.ServiceItem, 0, len(ids))
	for rows.Next() {
		var item domain.ServiceItem
		if err := rows.Scan(&item.ID, &item.Name, &item.AverageDuration, &item.Price); err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}
