package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/infrastructure"
	"bazaar/pkg/logger"
)

// EventPublisher отправляет события каталога; ошибки только логируются,
// запрос клиента от них не зависит
type EventPublisher struct {
	publisher infrastructure.MessagePublisher
	now       func() time.Time
}

func NewEventPublisher(publisher infrastructure.MessagePublisher) *EventPublisher {
	return &EventPublisher{publisher: publisher, now: time.Now}
}

func (p *EventPublisher) Publish(ctx context.Context, eventType, entityName string, id int64) {
	if p == nil || p.publisher == nil {
		return
	}

	event := entity.CatalogEvent{
		EventType: eventType,
		Entity:    entityName,
		EntityID:  id,
		Timestamp: p.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal catalog event")
		return
	}

	key := fmt.Sprintf("%s:%d", entityName, id)
	if err := p.publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Str("key", key).Msg("Failed to publish catalog event")
	}
}
