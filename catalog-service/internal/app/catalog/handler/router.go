package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Catalog Service с использованием Gin
func SetupRoutes(
	categoryHandler *CategoryHandler,
	productHandler *ProductHandler,
	wishlistHandler *WishlistHandler,
	reviewHandler *ReviewHandler,
	healthHandler *HealthCheckHandler,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	// Клиенты ходят с любых доменов, авторизации нет
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          300,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "Welcome, baazar limit app is working well")
	})

	if healthHandler != nil {
		router.GET("/health", healthHandler.HealthCheck)
		router.GET("/health/readiness", healthHandler.Readiness)
		router.GET("/health/liveness", healthHandler.Liveness)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("", func(c *gin.Context) {
		respondSuccess(c, http.StatusOK, nil, "Api route is working")
	})

	categories := api.Group("/category")
	{
		categories.GET("", categoryHandler.Status)
		categories.POST("/add", categoryHandler.CreateCategory)
		categories.GET("/fetch", categoryHandler.ListCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.DELETE("/delete/:id", categoryHandler.DeleteCategory)
	}

	products := api.Group("/product")
	{
		products.GET("", productHandler.Status)
		products.POST("/add", productHandler.CreateProduct)
		products.GET("/fetch", productHandler.ListProducts)
		products.GET("/category/:category_id", productHandler.ListByCategory)
		products.GET("/:id", productHandler.GetProduct)
		products.PUT("/update/coupon/:id", productHandler.UpdateCoupon)
		products.PUT("/update/discount/:id", productHandler.UpdateDiscount)
		products.DELETE("/delete/:id", productHandler.DeleteProduct)
	}

	wishlist := api.Group("/wishlist")
	{
		wishlist.GET("", wishlistHandler.Status)
		wishlist.GET("/fetch", wishlistHandler.ListEntries)
		wishlist.POST("/add", wishlistHandler.AddEntry)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewHandler.Status)
		reviews.GET("/:pid", reviewHandler.ListReviews)
		reviews.POST("/add", reviewHandler.CreateReview)
	}

	return router
}
