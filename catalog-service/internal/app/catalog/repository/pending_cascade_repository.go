package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"bazaar/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// PendingCascadeKey - redis set с id категорий, ожидающих завершения удаления
const PendingCascadeKey = "cascade:pending"

type pendingCascadeRepository struct {
	client *redis.Client
}

func NewPendingCascadeRepository(client *redis.Client) PendingCascadeRepository {
	return &pendingCascadeRepository{client: client}
}

func (r *pendingCascadeRepository) Add(ctx context.Context, categoryID int64) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSAdd)
	defer timer.ObserveDuration()

	if err := r.client.SAdd(ctx, PendingCascadeKey, categoryID).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSAdd)
		return fmt.Errorf("failed to add pending cascade %d: %w", categoryID, err)
	}
	return nil
}

func (r *pendingCascadeRepository) Remove(ctx context.Context, categoryID int64) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSRem)
	defer timer.ObserveDuration()

	if err := r.client.SRem(ctx, PendingCascadeKey, categoryID).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSRem)
		return fmt.Errorf("failed to remove pending cascade %d: %w", categoryID, err)
	}
	return nil
}

// List возвращает id по возрастанию; нечисловые элементы пропускаются
func (r *pendingCascadeRepository) List(ctx context.Context) ([]int64, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSMembers)
	defer timer.ObserveDuration()

	members, err := r.client.SMembers(ctx, PendingCascadeKey).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSMembers)
		return nil, fmt.Errorf("failed to list pending cascades: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func (r *pendingCascadeRepository) Count(ctx context.Context) (int64, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSCard)
	defer timer.ObserveDuration()

	count, err := r.client.SCard(ctx, PendingCascadeKey).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSCard)
		return 0, fmt.Errorf("failed to count pending cascades: %w", err)
	}
	return count, nil
}
