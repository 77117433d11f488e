package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/tickerd/internal/logger"
)

// getRenderStats returns the aggregated per-channel render statistics.
func (r *Router) getRenderStats(c *gin.Context) {
	if r.tracker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "render statistics not available",
		})
		return
	}

	stats, err := r.tracker.Stats(c.Request.Context())
	if err != nil {
		r.log.Error("Failed to fetch render stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to fetch render stats",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
