package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bazaar/catalog-service/internal/app/catalog/config"
	"bazaar/pkg/logger"

	"github.com/sony/gobreaker"
)

// UploadError - хранилище ответило не 2xx
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	return e.Message
}

// SupabaseClient загружает объекты в Supabase Storage через REST API
// Все загрузки проходят через circuit breaker
type SupabaseClient struct {
	baseURL    string
	publicBase string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

func NewSupabaseClient(cfg config.StorageConfig, breaker config.BreakerConfig, timeout time.Duration) *SupabaseClient {
	settings := gobreaker.Settings{
		Name:        "supabase-storage",
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breaker.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breaker.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
		// Отказ хранилища по вине запроса (4xx) не размыкает цепь
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if uploadErr, ok := err.(*UploadError); ok {
				return uploadErr.StatusCode >= 400 && uploadErr.StatusCode < 500
			}
			return false
		},
	}

	return &SupabaseClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		publicBase: cfg.PublicBase(),
		apiKey:     cfg.Key,
		httpClient: &http.Client{Timeout: timeout},
		cb:         gobreaker.NewCircuitBreaker(settings),
	}
}

// Upload кладёт payload в bucket под ключом key
// Возвращает gobreaker.ErrOpenState пока цепь разомкнута
func (c *SupabaseClient) Upload(ctx context.Context, bucket, key, contentType string, payload []byte) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.upload(ctx, bucket, key, contentType, payload)
	})
	return err
}

func (c *SupabaseClient) upload(ctx context.Context, bucket, key, contentType string, payload []byte) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &UploadError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.StatusCode, body),
	}
}

// PublicURL - адрес объекта в публичном bucket
func (c *SupabaseClient) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBase, bucket, url.PathEscape(key))
}

// State возвращает текущее состояние circuit breaker
func (c *SupabaseClient) State() gobreaker.State {
	return c.cb.State()
}

// errorMessage достаёт текст ошибки из ответа Storage API
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
