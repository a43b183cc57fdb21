package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/infrastructure"
	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"

	"github.com/gabriel-vasile/mimetype"
)

var ErrEmptyPayload = errors.New("uploaded file is empty")

// MediaIngestor загружает вложения в blob storage и возвращает публичные URL
type MediaIngestor struct {
	storage infrastructure.BlobStorage
	now     func() time.Time
}

func NewMediaIngestor(storage infrastructure.BlobStorage) *MediaIngestor {
	return &MediaIngestor{
		storage: storage,
		now:     time.Now,
	}
}

// Ingest загружает одно вложение под ключом <unix-millis>_<имя файла>
// Либо объект создан и возвращён URL, либо ничего не создано и возвращена *IngestError
func (m *MediaIngestor) Ingest(ctx context.Context, att entity.Attachment, bucket string) (string, error) {
	if len(att.Payload) == 0 {
		metrics.RecordMediaUpload(0, ErrEmptyPayload)
		return "", &IngestError{Name: att.Name, Err: ErrEmptyPayload}
	}

	contentType := att.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(att.Payload).String()
	}

	key := fmt.Sprintf("%d_%s", m.now().UnixMilli(), att.Name)

	if err := m.storage.Upload(ctx, bucket, key, contentType, att.Payload); err != nil {
		metrics.RecordMediaUpload(len(att.Payload), err)
		return "", &IngestError{Name: att.Name, Err: err}
	}
	metrics.RecordMediaUpload(len(att.Payload), nil)

	return m.storage.PublicURL(bucket, key), nil
}

// ItemResult - итог загрузки одного вложения из пакета
type ItemResult struct {
	Name string
	URL  string
	Err  error
}

// BatchResult - результаты в порядке входных вложений
type BatchResult struct {
	Items []ItemResult
}

func (r BatchResult) Succeeded() int {
	n := 0
	for _, item := range r.Items {
		if item.Err == nil {
			n++
		}
	}
	return n
}

// URLs возвращает адреса успешных загрузок с сохранением порядка
func (r BatchResult) URLs() []string {
	urls := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Err == nil {
			urls = append(urls, item.URL)
		}
	}
	return urls
}

func (r BatchResult) AllSucceeded() bool {
	return r.Succeeded() == len(r.Items)
}

func (r BatchResult) AllFailed() bool {
	return len(r.Items) > 0 && r.Succeeded() == 0
}

func (r BatchResult) Partial() bool {
	n := r.Succeeded()
	return n > 0 && n < len(r.Items)
}

// IngestBatch загружает вложения по одному; ошибка одного не прерывает остальные
// Порядок URL совпадает с порядком вложений
// Одинаковое имя в ту же миллисекунду даёт тот же ключ: хранилище отвергает дубликат, вложение пропускается
func (m *MediaIngestor) IngestBatch(ctx context.Context, atts []entity.Attachment, bucket string) BatchResult {
	result := BatchResult{Items: make([]ItemResult, 0, len(atts))}

	for _, att := range atts {
		url, err := m.Ingest(ctx, att, bucket)
		if err != nil {
			logger.Warn().Err(err).Str("file", att.Name).Msg("Skipping additional picture")
		}
		result.Items = append(result.Items, ItemResult{Name: att.Name, URL: url, Err: err})
	}

	return result
}
