package handler

import (
	"net/http"
	"strconv"
	"strings"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const productRequiredMessage = "Title, description, price, quantity, category_id, and picture are required"

// ProductHandler обрабатывает HTTP запросы /api/product
type ProductHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *requestValidator
}

func NewProductHandler(catalogService service.CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		validator:      newRequestValidator(),
	}
}

// Status обрабатывает GET /api/product
func (h *ProductHandler) Status(c *gin.Context) {
	respondSuccess(c, http.StatusOK, nil, "Product API working!")
}

// CreateProduct обрабатывает POST /api/product/add
// multipart: picture обязателен, additionalPics - до 10 файлов, загружаются по возможности
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, productRequiredMessage)
		return
	}

	if err := h.validator.check(req, productRequiredMessage); err != nil {
		respondError(c, err)
		return
	}

	input, err := parseProductForm(req)
	if err != nil {
		respondError(c, err)
		return
	}

	if input.Picture, err = readAttachment(req.Picture); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.AdditionalPics, err = readAttachments(req.AdditionalPics); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, product, "Product added successfully")
}

// ListProducts обрабатывает GET /api/product/fetch?title=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("title"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, products, "")
}

// GetProduct обрабатывает GET /api/product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid product ID")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, product, "")
}

// ListByCategory обрабатывает GET /api/product/category/:category_id
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "category_id", "Invalid category ID")
	if !ok {
		return
	}

	products, err := h.catalogService.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, products, "")
}

// UpdateCoupon обрабатывает PUT /api/product/update/coupon/:id?coupon=
func (h *ProductHandler) UpdateCoupon(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid product ID")
	if !ok {
		return
	}

	if err := h.catalogService.UpdateCoupon(c.Request.Context(), id, c.Query("coupon")); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Coupon updated successfully")
}

// UpdateDiscount обрабатывает PUT /api/product/update/discount/:id?discount=
func (h *ProductHandler) UpdateDiscount(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid product ID")
	if !ok {
		return
	}

	discount, err := strconv.ParseFloat(strings.TrimSpace(c.Query("discount")), 64)
	if err != nil {
		respondErrorMessage(c, http.StatusBadRequest, service.DiscountRangeMessage)
		return
	}

	if err := h.catalogService.UpdateDiscount(c.Request.Context(), id, discount); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Discount updated successfully")
}

// DeleteProduct обрабатывает DELETE /api/product/delete/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid product ID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Product deleted successfully")
}

// parseProductForm переводит строковые поля формы в типы товара
func parseProductForm(req entity.CreateProductRequest) (entity.CreateProductInput, error) {
	input := entity.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return input, fieldError("price", "price must be a number")
	}
	input.Price = price

	if input.Quantity, err = strconv.ParseInt(strings.TrimSpace(req.Quantity), 10, 64); err != nil {
		return input, fieldError("quantity", "quantity must be an integer")
	}

	if input.CategoryID, err = strconv.ParseInt(strings.TrimSpace(req.CategoryID), 10, 64); err != nil {
		return input, fieldError("category_id", "category_id must be an integer")
	}

	if discount := strings.TrimSpace(req.Discount); discount != "" {
		if input.Discount, err = strconv.ParseFloat(discount, 64); err != nil {
			return input, fieldError("discount", "discount must be a number")
		}
	}

	if coupon := strings.TrimSpace(req.Coupon); coupon != "" {
		input.Coupon = &coupon
	}

	return input, nil
}

func fieldError(field, message string) error {
	return &service.ValidationError{Fields: []string{field}, Message: message}
}
