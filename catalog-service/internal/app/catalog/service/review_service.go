package service

import (
	"context"
	"strings"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository"
	"bazaar/pkg/metrics"
)

const (
	MinStars = 1
	MaxStars = 5
)

// ReviewService - отзывы на товары, pid хранится как непрозрачная строка
type ReviewService struct {
	reviews repository.Table[entity.Review]
	events  *EventPublisher
}

func NewReviewService(reviews repository.Table[entity.Review], events *EventPublisher) *ReviewService {
	return &ReviewService{reviews: reviews, events: events}
}

func (s *ReviewService) AddReview(ctx context.Context, input entity.CreateReviewInput) (*entity.Review, error) {
	absent := missing(map[string]bool{
		"pid":      strings.TrimSpace(input.PID) == "",
		"stars":    input.Stars == 0,
		"feedback": strings.TrimSpace(input.Feedback) == "",
	})
	if len(absent) > 0 {
		return nil, &ValidationError{Fields: absent, Message: "pid, stars, and feedback are required"}
	}
	if input.Stars < MinStars || input.Stars > MaxStars {
		return nil, &ValidationError{Fields: []string{"stars"}, Message: "stars must be between 1 and 5"}
	}

	review := &entity.Review{
		PID:      input.PID,
		Stars:    input.Stars,
		Feedback: input.Feedback,
	}
	if err := createRow(ctx, s.reviews, review, "Failed to create review"); err != nil {
		return nil, err
	}
	metrics.ReviewsRating.Observe(float64(review.Stars))

	s.events.Publish(ctx, entity.EventReviewCreated, "review", review.ID)
	return review, nil
}

// ListReviews - пустой список отзывов отдаётся как 404
func (s *ReviewService) ListReviews(ctx context.Context, pid string) ([]entity.Review, error) {
	reviews, err := fetchWhere(ctx, s.reviews, "Failed to fetch reviews", repository.Eq("pid", pid))
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, &NotFoundError{Entity: "review", Message: "No reviews found for this pid"}
	}
	return reviews, nil
}
