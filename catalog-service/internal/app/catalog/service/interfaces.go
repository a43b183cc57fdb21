package service

import (
	"context"

	"bazaar/catalog-service/internal/app/catalog/entity"
)

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, input entity.CreateCategoryInput) (*entity.Category, error)
	ListCategories(ctx context.Context, title string) ([]entity.CategoryWithProducts, error)
	GetCategory(ctx context.Context, id int64) (*entity.CategoryWithProducts, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, input entity.CreateProductInput) (*entity.Product, error)
	ListProducts(ctx context.Context, title string) ([]entity.Product, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]entity.Product, error)
	UpdateCoupon(ctx context.Context, id int64, coupon string) error
	UpdateDiscount(ctx context.Context, id int64, discount float64) error
	DeleteProduct(ctx context.Context, id int64) error
}

type WishlistServiceInterface interface {
	AddEntry(ctx context.Context, input entity.AddWishlistInput) (*entity.WishlistEntry, error)
	ListEntries(ctx context.Context, userID string) ([]entity.WishlistEntry, error)
}

type ReviewServiceInterface interface {
	AddReview(ctx context.Context, input entity.CreateReviewInput) (*entity.Review, error)
	ListReviews(ctx context.Context, pid string) ([]entity.Review, error)
}

// CascadeResumer - то, что нужно фоновому sweeper от координатора
type CascadeResumer interface {
	Pending(ctx context.Context) ([]int64, error)
	Resume(ctx context.Context, id int64) error
	RefreshPending(ctx context.Context)
}

var (
	_ CatalogServiceInterface  = (*CatalogService)(nil)
	_ WishlistServiceInterface = (*WishlistService)(nil)
	_ ReviewServiceInterface   = (*ReviewService)(nil)
	_ CascadeResumer           = (*CascadeCoordinator)(nil)
)
