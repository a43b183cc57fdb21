package handler

import (
	"net/http"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

const reviewRequiredMessage = "pid, stars, and feedback are required"

// ReviewHandler обрабатывает HTTP запросы /api/reviews
type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *requestValidator
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     newRequestValidator(),
	}
}

// Status обрабатывает GET /api/reviews
func (h *ReviewHandler) Status(c *gin.Context) {
	respondSuccess(c, http.StatusOK, nil, "Review API working!")
}

// ListReviews обрабатывает GET /api/reviews/:pid
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context(), c.Param("pid"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, reviews, "")
}

// CreateReview обрабатывает POST /api/reviews/add
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	if err := h.validator.check(req, reviewRequiredMessage); err != nil {
		respondError(c, err)
		return
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), entity.CreateReviewInput{
		PID:      req.PID.String(),
		Stars:    req.Stars,
		Feedback: req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, review, "")
}
