package location

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayScheduler/pkg/psqlbuilder"
)

// Repository репозиторий точек обслуживания и праздничного календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория точек обслуживания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает точку обслуживания с количеством боксов и часами работы
// Колонки TIME приводятся к тексту "HH:MM:SS", NULL означает выходной
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"bay_count",
		"weekday_open::text",
		"weekday_close::text",
		"saturday_open::text",
		"saturday_close::text",
		"sunday_open::text",
		"sunday_close::text",
		"holiday_open::text",
		"holiday_close::text",
		"created_at",
		"updated_at",
	).
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var loc domain.Location
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&loc.Name,
		&loc.BayCount,
		&loc.MondayToFriday.Open,
		&loc.MondayToFriday.Close,
		&loc.Saturday.Open,
		&loc.Saturday.Close,
		&loc.Sunday.Open,
		&loc.Sunday.Close,
		&loc.Holiday.Open,
		&loc.Holiday.Close,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	loc.CreatedAt = createdAt.Time
	loc.UpdatedAt = updatedAt.Time

	return &loc, nil
}

// IsHoliday проверяет, входит ли дата в праздничный календарь
// Праздник с location_id IS NULL действует для всей сети
func (r *Repository) IsHoliday(ctx context.Context, locationID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("holidays").
		Where(squirrel.Expr("holiday_date = ?::date", date.Format(domain.DateFormat))).
		Where(squirrel.Or{
			squirrel.Eq{"location_id": nil},
			squirrel.Eq{"location_id": locationID},
		}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsHoliday - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: IsHoliday - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}
