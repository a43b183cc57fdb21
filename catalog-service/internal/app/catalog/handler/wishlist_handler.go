package handler

import (
	"net/http"
	"strconv"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

const wishlistRequiredMessage = "User ID and Product ID are required"

// WishlistHandler обрабатывает HTTP запросы /api/wishlist
type WishlistHandler struct {
	wishlistService service.WishlistServiceInterface
	validator       *requestValidator
}

func NewWishlistHandler(wishlistService service.WishlistServiceInterface) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		validator:       newRequestValidator(),
	}
}

// Status обрабатывает GET /api/wishlist
func (h *WishlistHandler) Status(c *gin.Context) {
	respondSuccess(c, http.StatusOK, nil, "Wishlist API working!")
}

// ListEntries обрабатывает GET /api/wishlist/fetch?user_id=
func (h *WishlistHandler) ListEntries(c *gin.Context) {
	entries, err := h.wishlistService.ListEntries(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, entries, "")
}

// AddEntry обрабатывает POST /api/wishlist/add (JSON или форма)
func (h *WishlistHandler) AddEntry(c *gin.Context) {
	var req entity.AddWishlistRequest
	if err := c.ShouldBind(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	if err := h.validator.check(req, wishlistRequiredMessage); err != nil {
		respondError(c, err)
		return
	}

	productID, err := strconv.ParseInt(req.ProductID.String(), 10, 64)
	if err != nil {
		respondError(c, fieldError("product_id", "Product ID must be an integer"))
		return
	}

	entry, err := h.wishlistService.AddEntry(c.Request.Context(), entity.AddWishlistInput{
		UserID:    req.UserID,
		ProductID: productID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, entry, "Product added to wishlist successfully")
}
