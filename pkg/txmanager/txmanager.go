package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
)

var (
	// ErrTransaction возвращается при ошибках начала/фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")

	// ErrSerialization возвращается, когда PostgreSQL отменил транзакцию из-за конфликта
	// с параллельной транзакцией (SQLSTATE 40001, 40P01). Повтор запроса может пройти
	ErrSerialization = errors.New("txmanager: serialization failure")
)

// Коды ошибок PostgreSQL, означающие конфликт параллельных транзакций
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
// Используется на пути записи бронирований, чтобы два запроса не заняли один и тот же бокс
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	begun, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}
	tx := &conflictTracker{TxExecutor: begun}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: rollback failed: %v (original error: %w)", ErrTransaction, rbErr, err)
		}
		// Ошибка запроса могла потерять *pq.Error при оборачивании в репозитории,
		// поэтому конфликт фиксируется на уровне транзакции
		if tx.conflict || IsSerializationFailure(err) {
			return fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if IsSerializationFailure(err) {
			return fmt.Errorf("%w: commit: %w", ErrSerialization, err)
		}
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}

// IsSerializationFailure возвращает true для ошибок PostgreSQL 40001 и 40P01
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}

// conflictTracker запоминает, что один из запросов транзакции завершился конфликтом сериализации
type conflictTracker struct {
	dbmetrics.TxExecutor
	conflict bool
}

func (t *conflictTracker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := t.TxExecutor.ExecContext(ctx, query, args...)
	t.track(err)
	return res, err
}

func (t *conflictTracker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := t.TxExecutor.QueryContext(ctx, query, args...)
	t.track(err)
	return rows, err
}

func (t *conflictTracker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	row := t.TxExecutor.QueryRowContext(ctx, query, args...)
	t.track(row.Err())
	return row
}

func (t *conflictTracker) track(err error) {
	if err != nil && IsSerializationFailure(err) {
		t.conflict = true
	}
}
