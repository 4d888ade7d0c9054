package booking

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

var bookingColumns = []string{
	"id",
	"user_id",
	"location_id",
	"vehicle_id",
	"booking_date",
	"start_at",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование и привязывает к нему услуги (booking_services)
// Должен вызываться внутри транзакции, иначе запись и услуги могут разъехаться
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"location_id",
			"vehicle_id",
			"booking_date",
			"start_at",
			"status",
			"notes",
		).
		Values(
			booking.UserID,
			booking.LocationID,
			booking.VehicleID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartAt,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if len(booking.Services) == 0 {
		return booking, nil
	}

	insert := psqlbuilder.Insert("booking_services").Columns("booking_id", "service_id")
	for _, s := range booking.Services {
		insert = insert.Values(booking.ID, s.ID)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build booking_services insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert booking_services: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с услугами
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// ListActiveWithServices возвращает активные записи точки на календарный день вместе с услугами
// Дата сравнивается только как DATE. Внутри транзакции записи блокируются (FOR UPDATE OF b),
// чтобы параллельная запись на тот же день дождалась завершения текущей
// excludeBookingID исключает запись из выборки (перенос записи не должен мешать самому себе)
func (r *Repository) ListActiveWithServices(ctx context.Context, locationID int64, date time.Time, excludeBookingID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.booking_date",
		"b.start_at",
		"b.status",
		"s.id",
		"s.name",
		"s.average_duration::text",
	).
		From("bookings b").
		LeftJoin("booking_services bs ON bs.booking_id = b.id").
		LeftJoin("services s ON s.id = bs.service_id").
		Where(squirrel.Eq{"b.location_id": locationID}).
		Where(squirrel.Expr("b.booking_date = ?::date", date.Format(domain.DateFormat))).
		Where(squirrel.Eq{"b.status": activeStatuses})

	if excludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.id": *excludeBookingID})
	}

	selectBuilder = selectBuilder.OrderBy("b.id ASC", "s.id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveWithServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveWithServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	// строки отсортированы по b.id, поэтому запись собирается из подряд идущих строк
	bookings := make([]*domain.Booking, 0)
	var current *domain.Booking

	for rows.Next() {
		var (
			bookingID   int64
			bookingDate time.Time
			startAt     time.Time
			status      domain.BookingStatus
			serviceID   sql.NullInt64
			serviceName sql.NullString
			duration    sql.NullString
		)

		if err := rows.Scan(&bookingID, &bookingDate, &startAt, &status, &serviceID, &serviceName, &duration); err != nil {
			return nil, fmt.Errorf("%w: ListActiveWithServices - scan row: %v", ErrScanRow, err)
		}

		if current == nil || current.ID != bookingID {
			current = &domain.Booking{
				ID:          bookingID,
				LocationID:  locationID,
				BookingDate: bookingDate,
				StartAt:     startAt,
				Status:      status,
				Services:    make([]domain.ServiceItem, 0),
			}
			bookings = append(bookings, current)
		}

		// LEFT JOIN: у записи без услуг поля услуги NULL
		if serviceID.Valid {
			current.Services = append(current.Services, domain.ServiceItem{
				ID:              serviceID.Int64,
				Name:            serviceName.String,
				AverageDuration: duration.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveWithServices - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// ListByLocation получает бронирования точки с фильтрацией
//
// Примеры:
//
//  1. Активные записи точки на день:
//     filter := domain.LocationBookingsFilter{LocationID: 7, Date: &day}
//
//  2. Все записи на день, включая отмененные:
//     filter := domain.LocationBookingsFilter{LocationID: 7, Date: &day, IncludeInactive: true}
func (r *Repository) ListByLocation(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"location_id": filter.LocationID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("booking_date = ?::date", filter.Date.Format(domain.DateFormat)))
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeBookingID})
	}

	selectBuilder = selectBuilder.OrderBy("start_at ASC", "id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - execute query: %v", ErrExecQuery, err)
	}

	bookings, err := scanBookings(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := r.attachServices(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// ListByUser возвращает историю записей участника, новые первыми
// status == nil - все статусы
func (r *Repository) ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID})

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.OrderBy("start_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}

	bookings, err := scanBookings(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := r.attachServices(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// Reschedule переносит бронирование на другой день и время
// bookingDate - день рабочего окна, startAt - абсолютное время начала
func (r *Repository) Reschedule(ctx context.Context, id int64, bookingDate, startAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_date", bookingDate.Format(domain.DateFormat)).
		Set("start_at", startAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Reschedule", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// attachServices подгружает услуги для списка бронирований одним запросом
func (r *Repository) attachServices(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		b.Services = make([]domain.ServiceItem, 0)
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select(
		"bs.booking_id",
		"s.id",
		"s.name",
		"s.average_duration::text",
		"s.price",
	).
		From("booking_services bs").
		Join("services s ON s.id = bs.service_id").
		Where(squirrel.Eq{"bs.booking_id": ids}).
		OrderBy("bs.booking_id ASC", "s.id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int64
		var item domain.ServiceItem

		if err := rows.Scan(&bookingID, &item.ID, &item.Name, &item.AverageDuration, &item.Price); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %v", ErrScanRow, err)
		}

		if b, ok := byID[bookingID]; ok {
			b.Services = append(b.Services, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.LocationID,
		&booking.VehicleID,
		&booking.BookingDate,
		&booking.StartAt,
		&booking.Status,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
