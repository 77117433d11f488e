package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
	"github.com/jonesrussell/tickerd/internal/ticker"
)

const (
	contentTypeXML = "application/xml; charset=utf-8"
	// The consuming hardware polls aggressively; stale cached feeds put
	// expired content on air.
	cacheControlNoStore = "no-cache, no-store, must-revalidate"
)

// requestFromContext builds the render request from path and query
// parameters. Gin percent-decodes the channel path segment.
func requestFromContext(c *gin.Context) ticker.Request {
	req := ticker.Request{
		Channel:         c.Param("channel"),
		IncludeInactive: queryFlag(c, "include_inactive"),
		IncludeIDs:      queryFlag(c, "includeIds"),
	}
	if id, ok := queryInt64(c, "region_id"); ok {
		req.RegionID = &id
	}
	if id, ok := queryInt64(c, "zone_id"); ok {
		req.ZoneID = &id
	}
	return req
}

// queryFlag reports whether a boolean query parameter is set truthy.
func queryFlag(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// queryInt64 parses an integer query parameter. Absent or malformed values
// are reported as unset.
func queryInt64(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// getFeed renders a channel's feed and writes it as tickerfeed XML.
func (r *Router) getFeed(c *gin.Context) {
	req := requestFromContext(c)
	start := time.Now()

	doc, err := r.engine.Render(c.Request.Context(), req)
	if err != nil {
		r.recordRender(c, req.Channel, "error", start, 0)
		if errors.Is(err, models.ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			return
		}
		r.log.Error("Failed to render feed",
			logger.String("channel", req.Channel),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to render feed",
			"details": err.Error(),
		})
		return
	}

	out, err := ticker.MarshalDocument(doc, req.IncludeIDs)
	if err != nil {
		r.recordRender(c, req.Channel, "error", start, 0)
		r.log.Error("Failed to serialize feed",
			logger.String("channel", req.Channel),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to serialize feed",
			"details": err.Error(),
		})
		return
	}

	r.recordRender(c, req.Channel, "success", start, countElements(doc))

	c.Header("Cache-Control", cacheControlNoStore)
	c.Data(http.StatusOK, contentTypeXML, out)
}

// getImages returns the deduplicated image URLs a channel's feed references.
func (r *Router) getImages(c *gin.Context) {
	req := requestFromContext(c)

	urls, err := r.engine.CollectImages(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			return
		}
		r.log.Error("Failed to collect images",
			logger.String("channel", req.Channel),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to collect images",
			"details": err.Error(),
		})
		return
	}

	// The cache fetcher expects a flat string array, not an envelope.
	if urls == nil {
		urls = []string{}
	}
	c.JSON(http.StatusOK, urls)
}

// recordRender feeds both the Redis tracker and the Prometheus metrics.
// Tracking failures are already logged by the tracker and never surface to
// the client.
func (r *Router) recordRender(c *gin.Context, channel, status string, start time.Time, elements int) {
	if r.feed != nil {
		r.feed.RecordRender(channel, status, time.Since(start).Seconds(), elements)
	}
	if r.tracker == nil {
		return
	}
	if status == "success" {
		_ = r.tracker.RecordRender(c.Request.Context(), channel, elements)
	} else {
		_ = r.tracker.RecordError(c.Request.Context(), channel)
	}
}

// countElements counts the output elements across the whole document.
func countElements(doc *models.Document) int {
	var n int
	for _, playlist := range doc.Playlists {
		for _, group := range playlist.Groups {
			n += len(group.Elements)
		}
	}
	return n
}
