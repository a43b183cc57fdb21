package infrastructure

import (
	"context"
)

// BlobStorage интерфейс объектного хранилища изображений
// Используется для dependency injection и упрощения тестирования
type BlobStorage interface {
	Upload(ctx context.Context, bucket, key, contentType string, payload []byte) error
	PublicURL(bucket, key string) string
}

// MessagePublisher интерфейс для отправки событий каталога (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
