package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaar/pkg/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const serviceName = "catalog-service"

type gormTable[T Row] struct {
	db      *gorm.DB
	timeout time.Duration // Дедлайн на каждый запрос
	table   string
}

// NewTable создает шлюз к таблице, имя которой задаёт T.TableName()
func NewTable[T Row](db *gorm.DB, timeout time.Duration) Table[T] {
	var zero T
	return &gormTable[T]{
		db:      db,
		timeout: timeout,
		table:   zero.TableName(),
	}
}

// Select возвращает строки, подходящие под все фильтры, упорядоченные по id
// Пустой результат - пустой слайс, а не nil
func (t *gormTable[T]) Select(ctx context.Context, filters ...Filter) ([]T, error) {
	ctx, cancel := t.withDeadline(ctx)
	defer cancel()

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, t.table)
	defer timer.ObserveDuration()

	rows := make([]T, 0)
	query := t.db.WithContext(ctx)
	if exprs := toExpressions(filters); len(exprs) > 0 {
		query = query.Clauses(clause.Where{Exprs: exprs})
	}

	result := query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).Find(&rows)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, t.translate(ctx, "select", result.Error)
	}
	if rows == nil {
		rows = make([]T, 0)
	}

	return rows, nil
}

// Insert добавляет строку, сгенерированный id записывается обратно в row
func (t *gormTable[T]) Insert(ctx context.Context, row *T) error {
	ctx, cancel := t.withDeadline(ctx)
	defer cancel()

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, t.table)
	defer timer.ObserveDuration()

	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return t.translate(ctx, "insert", err)
	}

	return nil
}

// Update меняет указанные колонки у подходящих строк и возвращает их количество
func (t *gormTable[T]) Update(ctx context.Context, values map[string]interface{}, filters ...Filter) (int64, error) {
	exprs := toExpressions(filters)
	if len(exprs) == 0 {
		return 0, ErrMissingFilter
	}

	ctx, cancel := t.withDeadline(ctx)
	defer cancel()

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, t.table)
	defer timer.ObserveDuration()

	result := t.db.WithContext(ctx).Model(new(T)).Clauses(clause.Where{Exprs: exprs}).Updates(values)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return 0, t.translate(ctx, "update", result.Error)
	}

	return result.RowsAffected, nil
}

// Delete удаляет подходящие строки; удаление всей таблицы запрещено
func (t *gormTable[T]) Delete(ctx context.Context, filters ...Filter) (int64, error) {
	exprs := toExpressions(filters)
	if len(exprs) == 0 {
		return 0, ErrMissingFilter
	}

	ctx, cancel := t.withDeadline(ctx)
	defer cancel()

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, t.table)
	defer timer.ObserveDuration()

	result := t.db.WithContext(ctx).Clauses(clause.Where{Exprs: exprs}).Delete(new(T))
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return 0, t.translate(ctx, "delete", result.Error)
	}

	return result.RowsAffected, nil
}

func (t *gormTable[T]) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

// translate приводит ошибку драйвера к StoreError
// Текст ошибки PostgreSQL передаётся клиенту как есть
func (t *gormTable[T]) translate(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutError(fmt.Sprintf("%s on %s", op, t.table), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}

	return &StoreError{Code: CodeUnknown, Message: err.Error(), Err: err}
}

func toExpressions(filters []Filter) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		column := clause.Column{Name: f.Column}
		switch f.Op {
		case OpILike:
			exprs = append(exprs, clause.Expr{
				SQL:  "? ILIKE ?",
				Vars: []interface{}{column, fmt.Sprintf("%%%v%%", f.Value)},
			})
		default:
			exprs = append(exprs, clause.Eq{Column: column, Value: f.Value})
		}
	}
	return exprs
}
