package service

import (
	"context"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository"
	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"
)

const (
	cascadeCompleted = "completed"
	cascadeFailed    = "failed"
	cascadePending   = "pending"
	cascadeResumed   = "resumed"
)

// CascadeCoordinator удаляет категорию вместе с её товарами
// Start -> Verified -> ProductsDeleted -> CategoryDeleted, любая ошибка прерывает цепочку
// Хранилище не даёт транзакций, поэтому сбой после удаления товаров записывается
// в ledger и дорабатывается через Resume
type CascadeCoordinator struct {
	categories repository.Table[entity.Category]
	products   repository.Table[entity.Product]
	ledger     repository.PendingCascadeRepository // nil - ledger выключен
	events     *EventPublisher
}

func NewCascadeCoordinator(
	categories repository.Table[entity.Category],
	products repository.Table[entity.Product],
	ledger repository.PendingCascadeRepository,
	events *EventPublisher,
) *CascadeCoordinator {
	return &CascadeCoordinator{
		categories: categories,
		products:   products,
		ledger:     ledger,
		events:     events,
	}
}

// DeleteCategory выполняет все три фазы каскада
func (c *CascadeCoordinator) DeleteCategory(ctx context.Context, id int64) error {
	rows, err := c.categories.Select(ctx, repository.Eq("id", id))
	if err != nil {
		metrics.RecordCascadeOutcome(cascadeFailed)
		return &CascadeError{Phase: PhaseVerify, CategoryID: id, Err: err}
	}
	if len(rows) == 0 {
		return &NotFoundError{Entity: "category", Message: "Category not found"}
	}

	if err := c.deleteWithProducts(ctx, id); err != nil {
		return err
	}

	metrics.RecordCascadeOutcome(cascadeCompleted)
	return nil
}

// Resume повторяет фазы 2-3 для категории из ledger
// Если категории уже нет, запись просто снимается
func (c *CascadeCoordinator) Resume(ctx context.Context, id int64) error {
	rows, err := c.categories.Select(ctx, repository.Eq("id", id))
	if err != nil {
		return &CascadeError{Phase: PhaseVerify, CategoryID: id, Err: err}
	}

	if len(rows) > 0 {
		if err := c.deleteWithProducts(ctx, id); err != nil {
			return err
		}
		metrics.RecordCascadeOutcome(cascadeResumed)
	}

	if c.ledger == nil {
		return nil
	}
	if err := c.ledger.Remove(ctx, id); err != nil {
		return err
	}
	c.RefreshPending(ctx)
	return nil
}

// Pending возвращает id категорий с незавершённым каскадом
func (c *CascadeCoordinator) Pending(ctx context.Context) ([]int64, error) {
	if c.ledger == nil {
		return []int64{}, nil
	}
	return c.ledger.List(ctx)
}

// RefreshPending синхронизирует gauge с размером ledger
func (c *CascadeCoordinator) RefreshPending(ctx context.Context) {
	if c.ledger == nil {
		return
	}
	count, err := c.ledger.Count(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count pending cascades")
		return
	}
	metrics.CascadesPending.Set(float64(count))
}

func (c *CascadeCoordinator) deleteWithProducts(ctx context.Context, id int64) error {
	// Товары удаляются всегда, даже если их нет
	removed, err := c.products.Delete(ctx, repository.Eq("category_id", id))
	if err != nil {
		metrics.RecordCascadeOutcome(cascadeFailed)
		return &CascadeError{Phase: PhaseDeleteProducts, CategoryID: id, Err: err}
	}

	if _, err := c.categories.Delete(ctx, repository.Eq("id", id)); err != nil {
		c.markPending(ctx, id)
		return &CascadeError{Phase: PhaseDeleteCategory, CategoryID: id, Err: err}
	}

	logger.Info().
		Int64("category_id", id).
		Int64("products_removed", removed).
		Msg("Category deleted with its products")
	c.events.Publish(ctx, entity.EventCategoryDeleted, "category", id)

	return nil
}

// markPending фиксирует состояние ProductsDeleted: товары удалены, категория осталась
func (c *CascadeCoordinator) markPending(ctx context.Context, id int64) {
	metrics.RecordCascadeOutcome(cascadePending)
	ctx = context.WithoutCancel(ctx)

	if c.ledger == nil {
		logger.Error().Int64("category_id", id).Msg("Category left without products after failed delete, ledger disabled")
		return
	}

	if err := c.ledger.Add(ctx, id); err != nil {
		logger.Error().Err(err).Int64("category_id", id).Msg("Failed to record pending cascade")
		return
	}
	logger.Warn().Int64("category_id", id).Msg("Category delete recorded for retry")
	c.RefreshPending(ctx)
}
