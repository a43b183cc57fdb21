package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testMillis = int64(1700000000000)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestIngestor(storage *mocks.MockBlobStorage) *MediaIngestor {
	ingestor := NewMediaIngestor(storage)
	ingestor.now = func() time.Time { return time.UnixMilli(testMillis) }
	return ingestor
}

func TestMediaIngestor_Ingest_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storage := new(mocks.MockBlobStorage)
	storage.On("Upload", ctx, "images", "1700000000000_shoe.png", "image/png", pngHeader).Return(nil)
	storage.On("PublicURL", "images", "1700000000000_shoe.png").
		Return("https://cdn.test/storage/v1/object/public/images/1700000000000_shoe.png")

	ingestor := newTestIngestor(storage)

	// Act
	url, err := ingestor.Ingest(ctx, entity.Attachment{Name: "shoe.png", ContentType: "image/png", Payload: pngHeader}, "images")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/storage/v1/object/public/images/1700000000000_shoe.png", url)
	storage.AssertExpectations(t)
}

func TestMediaIngestor_Ingest_DetectsContentType(t *testing.T) {
	ctx := context.Background()
	storage := new(mocks.MockBlobStorage)
	storage.On("Upload", ctx, "images", "1700000000000_blob", "image/png", pngHeader).Return(nil)
	storage.On("PublicURL", "images", "1700000000000_blob").Return("https://cdn.test/blob")

	ingestor := newTestIngestor(storage)

	_, err := ingestor.Ingest(ctx, entity.Attachment{Name: "blob", Payload: pngHeader}, "images")

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestMediaIngestor_Ingest_EmptyPayload(t *testing.T) {
	// Arrange
	storage := new(mocks.MockBlobStorage)
	ingestor := newTestIngestor(storage)

	// Act
	url, err := ingestor.Ingest(context.Background(), entity.Attachment{Name: "empty.png", ContentType: "image/png"}, "images")

	// Assert
	assert.Empty(t, url)
	var ingestErr *IngestError
	require.ErrorAs(t, err, &ingestErr)
	assert.ErrorIs(t, err, ErrEmptyPayload)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaIngestor_Ingest_UploadError(t *testing.T) {
	ctx := context.Background()
	storage := new(mocks.MockBlobStorage)
	storage.On("Upload", ctx, "images", mock.Anything, "image/png", pngHeader).Return(errors.New("Bucket not found"))

	ingestor := newTestIngestor(storage)

	url, err := ingestor.Ingest(ctx, entity.Attachment{Name: "shoe.png", ContentType: "image/png", Payload: pngHeader}, "images")

	assert.Empty(t, url)
	assert.EqualError(t, err, "Error uploading file to Supabase: Bucket not found")
	storage.AssertNotCalled(t, "PublicURL", mock.Anything, mock.Anything)
}

// ==================== Batch Tests ====================

func TestMediaIngestor_IngestBatch_PartialFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storage := new(mocks.MockBlobStorage)
	storage.On("Upload", ctx, "images", "1700000000000_a.png", "image/png", pngHeader).Return(nil)
	storage.On("Upload", ctx, "images", "1700000000000_b.png", "image/png", pngHeader).Return(errors.New("payload too large"))
	storage.On("Upload", ctx, "images", "1700000000000_c.png", "image/png", pngHeader).Return(nil)
	storage.On("PublicURL", "images", "1700000000000_a.png").Return("https://cdn.test/a.png")
	storage.On("PublicURL", "images", "1700000000000_c.png").Return("https://cdn.test/c.png")

	ingestor := newTestIngestor(storage)
	atts := []entity.Attachment{
		{Name: "a.png", ContentType: "image/png", Payload: pngHeader},
		{Name: "b.png", ContentType: "image/png", Payload: pngHeader},
		{Name: "c.png", ContentType: "image/png", Payload: pngHeader},
	}

	// Act
	result := ingestor.IngestBatch(ctx, atts, "images")

	// Assert
	require.Len(t, result.Items, 3)
	assert.Equal(t, "b.png", result.Items[1].Name)
	assert.Error(t, result.Items[1].Err)
	assert.Equal(t, []string{"https://cdn.test/a.png", "https://cdn.test/c.png"}, result.URLs())
	assert.Equal(t, 2, result.Succeeded())
	assert.True(t, result.Partial())
	assert.False(t, result.AllSucceeded())
	assert.False(t, result.AllFailed())
}

func TestMediaIngestor_IngestBatch_SameNameSameMillisecond(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storage := new(mocks.MockBlobStorage)
	storage.On("Upload", ctx, "images", "1700000000000_a.png", "image/png", pngHeader).Return(nil).Once()
	storage.On("Upload", ctx, "images", "1700000000000_a.png", "image/png", pngHeader).
		Return(errors.New("The resource already exists")).Once()
	storage.On("PublicURL", "images", "1700000000000_a.png").Return("https://cdn.test/a.png").Once()

	ingestor := newTestIngestor(storage)
	atts := []entity.Attachment{
		{Name: "a.png", ContentType: "image/png", Payload: pngHeader},
		{Name: "a.png", ContentType: "image/png", Payload: pngHeader},
	}

	// Act
	result := ingestor.IngestBatch(ctx, atts, "images")

	// Assert
	require.Len(t, result.Items, 2)
	assert.True(t, result.Partial())
	assert.Equal(t, []string{"https://cdn.test/a.png"}, result.URLs())
	assert.EqualError(t, result.Items[1].Err, "Error uploading file to Supabase: The resource already exists")
	storage.AssertNumberOfCalls(t, "Upload", 2)
}

func TestMediaIngestor_IngestBatch_AllFailed(t *testing.T) {
	ctx := context.Background()
	storage := new(mocks.MockBlobStorage)
	storage.On("Upload", ctx, "images", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))

	ingestor := newTestIngestor(storage)

	result := ingestor.IngestBatch(ctx, []entity.Attachment{
		{Name: "a.png", Payload: pngHeader},
		{Name: "b.png", Payload: pngHeader},
	}, "images")

	assert.True(t, result.AllFailed())
	assert.False(t, result.Partial())
	assert.Empty(t, result.URLs())
}

func TestBatchResult_Empty(t *testing.T) {
	var result BatchResult

	assert.True(t, result.AllSucceeded())
	assert.False(t, result.AllFailed())
	assert.False(t, result.Partial())
	assert.Empty(t, result.URLs())
}
