package service

import (
	"context"

	"bazaar/catalog-service/internal/app/catalog/repository"
	"bazaar/pkg/metrics"
)

// Общие операции над таблицами; сервисы сущностей задают только
// текст ошибок и набор фильтров

func createRow[T repository.Row](ctx context.Context, table repository.Table[T], row *T, op string) error {
	if err := table.Insert(ctx, row); err != nil {
		return &UpstreamError{Op: op, Err: err}
	}

	var zero T
	metrics.RecordRowCreated(zero.TableName())
	return nil
}

// fetchByTitle - пустой title означает "все строки"
func fetchByTitle[T repository.Row](ctx context.Context, table repository.Table[T], title, op string) ([]T, error) {
	var filters []repository.Filter
	if title != "" {
		filters = append(filters, repository.ILike("title", title))
	}
	return fetchWhere(ctx, table, op, filters...)
}

func fetchWhere[T repository.Row](ctx context.Context, table repository.Table[T], op string, filters ...repository.Filter) ([]T, error) {
	rows, err := table.Select(ctx, filters...)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	return rows, nil
}

// fetchOne ищет строку по id; пустой результат - notFound, а не ошибка хранилища
func fetchOne[T repository.Row](ctx context.Context, table repository.Table[T], id int64, op string, notFound *NotFoundError) (*T, error) {
	rows, err := fetchWhere(ctx, table, op, repository.Eq("id", id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound
	}
	return &rows[0], nil
}
