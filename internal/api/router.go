package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/metrics"
	"github.com/jonesrussell/tickerd/internal/models"
	"github.com/jonesrussell/tickerd/internal/ticker"
)

// FeedRenderer renders ticker feeds for channels. *ticker.Engine implements
// it; tests substitute a stub.
type FeedRenderer interface {
	Render(ctx context.Context, req ticker.Request) (*models.Document, error)
	CollectImages(ctx context.Context, req ticker.Request) ([]string, error)
}

// Pinger checks a backing store's connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds the API dependencies
type Router struct {
	engine  FeedRenderer
	tracker metrics.RenderTracker
	feed    *metrics.FeedMetrics
	db      Pinger
	redis   *redis.Client
	version string
	log     logger.Logger
}

// NewRouter creates a new API router. The tracker, feed metrics, db, and
// redis dependencies are optional; absent ones degrade the related endpoints
// instead of failing construction.
func NewRouter(
	engine FeedRenderer,
	tracker metrics.RenderTracker,
	feed *metrics.FeedMetrics,
	db Pinger,
	redisClient *redis.Client,
	version string,
	log logger.Logger,
) *Router {
	return &Router{
		engine:  engine,
		tracker: tracker,
		feed:    feed,
		db:      db,
		redis:   redisClient,
		version: version,
		log:     log,
	}
}

// SetupRoutes configures all API routes.
func (r *Router) SetupRoutes(router *gin.Engine) {
	router.GET("/health", r.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ticker/:channel", r.getFeed)
	router.GET("/ticker/:channel/images", r.getImages)

	v1 := router.Group("/api/v1")
	stats := v1.Group("/stats")
	stats.GET("/renders", r.getRenderStats)
}
