package handler

import (
	"net/http"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

const categoryRequiredMessage = "Title and picture are required"

// CategoryHandler обрабатывает HTTP запросы /api/category
type CategoryHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *requestValidator
}

func NewCategoryHandler(catalogService service.CatalogServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		validator:      newRequestValidator(),
	}
}

// Status обрабатывает GET /api/category
func (h *CategoryHandler) Status(c *gin.Context) {
	respondSuccess(c, http.StatusOK, nil, "Category API working!")
}

// CreateCategory обрабатывает POST /api/category/add (multipart: title, picture)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, categoryRequiredMessage)
		return
	}

	if err := h.validator.check(req, categoryRequiredMessage); err != nil {
		respondError(c, err)
		return
	}

	picture, err := readAttachment(req.Picture)
	if err != nil {
		respondErrorMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), entity.CreateCategoryInput{
		Title:   req.Title,
		Picture: picture,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, category, "Category added successfully")
}

// ListCategories обрабатывает GET /api/category/fetch?title=
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context(), c.Query("title"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, categories, "")
}

// GetCategory обрабатывает GET /api/category/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid category ID")
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, category, "")
}

// DeleteCategory обрабатывает DELETE /api/category/delete/:id (каскадно вместе с товарами)
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid category ID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Category and associated products deleted successfully")
}
