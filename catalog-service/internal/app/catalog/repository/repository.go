package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingFilter - UPDATE и DELETE без условий не выполняются
	ErrMissingFilter = errors.New("refusing to modify rows without a filter")
)

// Row - строка таблицы, знает имя своей таблицы
type Row interface {
	TableName() string
}

// FilterOp - поддерживаемые операторы условий
type FilterOp string

const (
	OpEq    FilterOp = "eq"
	OpILike FilterOp = "ilike"
)

// Filter - одно условие WHERE, несколько условий объединяются через AND
type Filter struct {
	Column string
	Op     FilterOp
	Value  interface{}
}

func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// ILike - регистронезависимый поиск подстроки
func ILike(column, substring string) Filter {
	return Filter{Column: column, Op: OpILike, Value: substring}
}

// Table - универсальный шлюз к одной таблице реляционного хранилища
type Table[T Row] interface {
	Select(ctx context.Context, filters ...Filter) ([]T, error)
	Insert(ctx context.Context, row *T) error
	Update(ctx context.Context, values map[string]interface{}, filters ...Filter) (int64, error)
	Delete(ctx context.Context, filters ...Filter) (int64, error)
}

// PendingCascadeRepository хранит категории, у которых товары уже удалены,
// а сама категория ещё нет
type PendingCascadeRepository interface {
	Add(ctx context.Context, categoryID int64) error
	Remove(ctx context.Context, categoryID int64) error
	List(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int64, error)
}

// StoreError - ошибка хранилища с кодом и текстом для клиента
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

const (
	CodeTimeout = "timeout"
	CodeUnknown = "unknown"
)

func timeoutError(op string, err error) *StoreError {
	return &StoreError{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("%s timed out", op),
		Err:     err,
	}
}
