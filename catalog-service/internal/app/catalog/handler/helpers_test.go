package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository/mocks"
	"bazaar/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const storageBase = "https://project.supabase.co/storage/v1/object/public"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fakeBlobStorage строит URL из ключа, чтобы проверять его в ответах
type fakeBlobStorage struct {
	mu       sync.Mutex
	failing  map[string]bool
	uploaded []string
}

func (f *fakeBlobStorage) Upload(ctx context.Context, bucket, key, contentType string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name := range f.failing {
		if strings.HasSuffix(key, "_"+name) {
			return errors.New("The object exceeded the maximum allowed size")
		}
	}
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeBlobStorage) PublicURL(bucket, key string) string {
	return storageBase + "/" + bucket + "/" + key
}

// Хелперы для создания тестового окружения

type testEnv struct {
	router     *gin.Engine
	categories *mocks.MockTable[entity.Category]
	products   *mocks.MockTable[entity.Product]
	wishlist   *mocks.MockTable[entity.WishlistEntry]
	reviews    *mocks.MockTable[entity.Review]
	ledger     *mocks.MockPendingCascadeRepository
	storage    *fakeBlobStorage
}

func setupTestRouter() *testEnv {
	env := &testEnv{
		categories: new(mocks.MockTable[entity.Category]),
		products:   new(mocks.MockTable[entity.Product]),
		wishlist:   new(mocks.MockTable[entity.WishlistEntry]),
		reviews:    new(mocks.MockTable[entity.Review]),
		ledger:     new(mocks.MockPendingCascadeRepository),
		storage:    &fakeBlobStorage{failing: map[string]bool{}},
	}

	events := service.NewEventPublisher(nil)
	cascade := service.NewCascadeCoordinator(env.categories, env.products, env.ledger, events)
	catalogService := service.NewCatalogService(
		env.categories,
		env.products,
		service.NewMediaIngestor(env.storage),
		cascade,
		events,
		service.CatalogSettings{Bucket: "images", EmptyCategoryAsNotFound: true},
	)

	env.router = SetupRoutes(
		NewCategoryHandler(catalogService),
		NewProductHandler(catalogService),
		NewWishlistHandler(service.NewWishlistService(env.wishlist, events)),
		NewReviewHandler(service.NewReviewService(env.reviews, events)),
		nil,
	)
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (env *testEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var body envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

type formFile struct {
	field string
	name  string
	empty bool
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files []formFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		if f.empty {
			continue
		}
		_, err = part.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, body envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Data, out))
}
