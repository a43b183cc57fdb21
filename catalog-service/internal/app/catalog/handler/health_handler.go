package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PendingCascades - источник незавершённых каскадных удалений
type PendingCascades interface {
	Pending(ctx context.Context) ([]int64, error)
}

type HealthCheckHandler struct {
	db          *gorm.DB
	redisClient *redis.Client // nil если ledger выключен
	cascades    PendingCascades
}

func NewHealthCheckHandler(db *gorm.DB, redisClient *redis.Client, cascades PendingCascades) *HealthCheckHandler {
	return &HealthCheckHandler{
		db:          db,
		redisClient: redisClient,
		cascades:    cascades,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthCheck обрабатывает GET /health
// Незавершённые каскады - предупреждение, а не отказ
func (h *HealthCheckHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkDatabase(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks["redis"] = "healthy"
		}
	}

	if h.cascades != nil {
		pending, err := h.cascades.Pending(ctx)
		switch {
		case err != nil:
			checks["pending_cascades"] = "warning: " + err.Error()
		case len(pending) > 0:
			checks["pending_cascades"] = fmt.Sprintf("warning: %d categories awaiting delete", len(pending))
		default:
			checks["pending_cascades"] = "healthy"
		}
	}

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:    overallStatus,
		Service:   "catalog-service",
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

// Readiness обрабатывает GET /health/readiness
func (h *HealthCheckHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkDatabase(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "database not ready")
		return
	}

	c.String(http.StatusOK, "ready")
}

// Liveness обрабатывает GET /health/liveness
func (h *HealthCheckHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "alive")
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
