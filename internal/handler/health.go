package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/infra"
)

type HealthHandler struct {
	db      *gorm.DB
	rdb     *redis.Client
	breaker *infra.CircuitBreaker
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, breaker *infra.CircuitBreaker) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, breaker: breaker}
}

// Health godoc
// @Summary      Service health
// @Description  Pings Postgres and Redis and reports the billing-service circuit breaker state. Degraded dependencies turn the overall status to "degraded" but still answer 200 unless the database is down.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	overall := "ok"

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "down"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "down"
	}
	if dbStatus == "down" {
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "down"
		overall = "degraded"
	}

	breakerState := h.breaker.State().String()
	if breakerState != "closed" {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":          overall,
		"database":        dbStatus,
		"redis":           redisStatus,
		"billing_breaker": breakerState,
		"time":            time.Now().UTC().Format(time.RFC3339),
	})
}
