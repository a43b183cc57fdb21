package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ==== CreateCategory Tests ====

func TestCreateCategory_Success(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	env.categories.On("Insert", mock.Anything, mock.AnythingOfType("*entity.Category")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Category).ID = 7
		}).
		Return(nil)

	req := multipartRequest(t, "/api/category/add",
		map[string]string{"title": "Electronics"},
		[]formFile{{field: "picture", name: "electronics.png"}})

	// Act
	w, body := env.do(t, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Category added successfully", body.Message)

	var category entity.Category
	decodeData(t, body, &category)
	assert.Equal(t, int64(7), category.ID)
	assert.Equal(t, "Electronics", category.Title)
	assert.True(t, strings.HasPrefix(category.Picture, storageBase+"/images/"))
	assert.True(t, strings.HasSuffix(category.Picture, "_electronics.png"))
	assert.Len(t, env.storage.uploaded, 1)
	env.categories.AssertExpectations(t)
}

func TestCreateCategory_MissingPicture(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	req := multipartRequest(t, "/api/category/add", map[string]string{"title": "Electronics"}, nil)

	// Act
	w, body := env.do(t, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Title and picture are required", body.Error)
	assert.Empty(t, env.storage.uploaded)
	env.categories.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateCategory_EmptyPicture(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	req := multipartRequest(t, "/api/category/add", map[string]string{"title": "Electronics"},
		[]formFile{{field: "picture", name: "electronics.png", empty: true}})

	// Act
	w, body := env.do(t, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Title and picture are required", body.Error)
	assert.Empty(t, env.storage.uploaded)
	env.categories.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateCategory_MissingTitle(t *testing.T) {
	env := setupTestRouter()
	req := multipartRequest(t, "/api/category/add", nil,
		[]formFile{{field: "picture", name: "electronics.png"}})

	w, body := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title and picture are required", body.Error)
	assert.Empty(t, env.storage.uploaded)
}

func TestCreateCategory_UploadFailed(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	env.storage.failing["huge.png"] = true

	req := multipartRequest(t, "/api/category/add",
		map[string]string{"title": "Electronics"},
		[]formFile{{field: "picture", name: "huge.png"}})

	// Act
	w, body := env.do(t, req)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "Error uploading file to Supabase")
	env.categories.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// ==== ListCategories / GetCategory Tests ====

func TestListCategories_JoinsProducts(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	env.categories.On("Select", mock.Anything, []repository.Filter{repository.ILike("title", "elec")}).
		Return([]entity.Category{{ID: 1, Title: "Electronics"}, {ID: 2, Title: "Electric tools"}}, nil)
	env.products.On("Select", mock.Anything, []repository.Filter(nil)).
		Return([]entity.Product{{ID: 10, CategoryID: 1, Title: "Phone"}}, nil)

	// Act
	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/category/fetch?title=elec", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var categories []entity.CategoryWithProducts
	decodeData(t, body, &categories)
	assert.Len(t, categories, 2)
	assert.Len(t, categories[0].Products, 1)
	assert.Empty(t, categories[1].Products)
	assert.NotNil(t, categories[1].Products)
}

func TestGetCategory_InvalidID(t *testing.T) {
	env := setupTestRouter()

	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/category/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category ID", body.Error)
	env.categories.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
}

func TestGetCategory_NotFound(t *testing.T) {
	env := setupTestRouter()
	env.categories.On("Select", mock.Anything, []repository.Filter{repository.Eq("id", int64(404))}).
		Return([]entity.Category{}, nil)

	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/category/404", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", body.Error)
}

// ==== DeleteCategory Tests ====

func TestDeleteCategory_RemovesProducts(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	byCategory := []repository.Filter{repository.Eq("category_id", int64(5))}

	env.categories.On("Select", mock.Anything, []repository.Filter{repository.Eq("id", int64(5))}).
		Return([]entity.Category{{ID: 5, Title: "Toys"}}, nil)
	env.products.On("Delete", mock.Anything, byCategory).Return(int64(3), nil)
	env.categories.On("Delete", mock.Anything, []repository.Filter{repository.Eq("id", int64(5))}).
		Return(int64(1), nil)
	env.products.On("Select", mock.Anything, byCategory).Return([]entity.Product{}, nil)

	// Act
	w, body := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/category/delete/5", nil))
	listW, listBody := env.do(t, httptest.NewRequest(http.MethodGet, "/api/product/category/5", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Category and associated products deleted successfully", body.Message)

	assert.Equal(t, http.StatusNotFound, listW.Code)
	assert.Equal(t, "No products found for this category", listBody.Error)
	env.products.AssertExpectations(t)
	env.categories.AssertExpectations(t)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	env := setupTestRouter()
	env.categories.On("Select", mock.Anything, mock.Anything).Return([]entity.Category{}, nil)

	w, body := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/category/delete/9", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", body.Error)
	env.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCategory_ProductsDeleteFailed(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	env.categories.On("Select", mock.Anything, mock.Anything).Return([]entity.Category{{ID: 5}}, nil)
	env.products.On("Delete", mock.Anything, mock.Anything).
		Return(int64(0), &repository.StoreError{Code: "57014", Message: "canceling statement due to statement timeout"})

	// Act
	w, body := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/category/delete/5", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error deleting products: canceling statement due to statement timeout", body.Error)
	env.categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	env.ledger.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestDeleteCategory_CategoryDeleteFailedIsRecorded(t *testing.T) {
	// Arrange
	env := setupTestRouter()
	env.categories.On("Select", mock.Anything, mock.Anything).Return([]entity.Category{{ID: 5}}, nil)
	env.products.On("Delete", mock.Anything, mock.Anything).Return(int64(2), nil)
	env.categories.On("Delete", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset by peer"))
	env.ledger.On("Add", mock.Anything, int64(5)).Return(nil)
	env.ledger.On("Count", mock.Anything).Return(int64(1), nil)

	// Act
	w, body := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/category/delete/5", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error deleting category: connection reset by peer", body.Error)
	env.ledger.AssertExpectations(t)
}

// ==== Status Tests ====

func TestStatusRoutes(t *testing.T) {
	env := setupTestRouter()

	tests := []struct {
		path    string
		message string
	}{
		{"/api", "Api route is working"},
		{"/api/category", "Category API working!"},
		{"/api/product", "Product API working!"},
		{"/api/wishlist", "Wishlist API working!"},
		{"/api/reviews", "Review API working!"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, body := env.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestRoot_Welcome(t *testing.T) {
	env := setupTestRouter()

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"Welcome, baazar limit app is working well"`, w.Body.String())
}
