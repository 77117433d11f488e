package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
	healthCheckTimeout   = 2 * time.Second
)

// healthCheck returns the service health status
func (r *Router) healthCheck(c *gin.Context) {
	health := gin.H{
		"status":  healthStatusHealthy,
		"service": "tickerd",
		"version": r.version,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	dbConnected := true
	if r.db == nil {
		dbConnected = false
	} else if err := r.db.Ping(ctx); err != nil {
		dbConnected = false
	}
	if !dbConnected {
		health["status"] = healthStatusDegraded
	}
	health["database"] = gin.H{"connected": dbConnected}

	health["redis"] = r.checkRedisHealth(ctx, health)

	c.JSON(http.StatusOK, health)
}

// checkRedisHealth checks Redis connectivity and degrades the overall status
// on failure. Redis only backs statistics, so it never fails the check
// outright.
func (r *Router) checkRedisHealth(ctx context.Context, health gin.H) gin.H {
	if r.redis == nil {
		return gin.H{"connected": false, "error": "Redis client not initialized"}
	}

	if err := r.redis.Ping(ctx).Err(); err != nil {
		if health["status"] == healthStatusHealthy {
			health["status"] = healthStatusDegraded
		}
		return gin.H{"connected": false, "error": err.Error()}
	}

	return gin.H{"connected": true}
}
