// Package ticker implements the feed generation engine: it walks the
// schedule-gated content tree for a channel, expands items into output
// elements through component processors, and serializes the result into the
// ticker wire format consumed by broadcast graphics hardware.
package ticker

import (
	"context"
	"time"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/models"
)

// Request names a channel and carries the render options taken from the
// inbound HTTP request.
type Request struct {
	Channel         string
	IncludeInactive bool
	IncludeIDs      bool
	RegionID        *int64
	ZoneID          *int64
}

// Options configures a new Engine.
type Options struct {
	Content   ContentStore
	Weather   WeatherStore
	Elections ElectionStore
	Closings  ClosingsStore

	// DefaultTimezone applies when a channel config carries no timezone.
	DefaultTimezone string
	// ImageCachePath, when set, rewrites stored image URLs into local
	// filesystem paths under this prefix.
	ImageCachePath string

	Logger logger.Logger
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Engine renders ticker feed documents for channels.
type Engine struct {
	content    ContentStore
	registry   *Registry
	images     *ImageRewriter
	defaultLoc *time.Location
	log        logger.Logger
	now        func() time.Time
}

// NewEngine creates an engine with the built-in component processors
// registered: weather cities/locations, weather forecast, image, election,
// and school closings.
func NewEngine(opts Options) (*Engine, error) {
	loc := time.UTC
	if opts.DefaultTimezone != "" {
		parsed, err := time.LoadLocation(opts.DefaultTimezone)
		if err != nil {
			return nil, err
		}
		loc = parsed
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	images := NewImageRewriter(opts.ImageCachePath)

	e := &Engine{
		content:    opts.Content,
		registry:   NewRegistry(),
		images:     images,
		defaultLoc: loc,
		log:        log,
		now:        clock,
	}

	e.registry.RegisterField(models.ComponentImage, &imageProcessor{images: images})
	if opts.Weather != nil {
		cities := &weatherCitiesProcessor{weather: opts.Weather, log: log}
		e.registry.RegisterField(models.ComponentWeatherCities, cities)
		e.registry.RegisterField(models.ComponentWeatherLocations, cities)
		e.registry.RegisterField(models.ComponentWeatherForecast, &weatherForecastProcessor{weather: opts.Weather, log: log})
	}
	if opts.Elections != nil {
		e.registry.RegisterItem(models.ComponentElection, &electionProcessor{elections: opts.Elections, log: log})
	}
	if opts.Closings != nil {
		e.registry.RegisterItem(models.ComponentSchoolClosings, &closingsProcessor{closings: opts.Closings, log: log})
	}

	return e, nil
}

// Registry exposes the processor registry so callers can register
// additional component types.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Render walks the channel's content tree and returns the pruned, populated
// feed document.
func (e *Engine) Render(ctx context.Context, req Request) (*models.Document, error) {
	v := newRenderVisitor(e, ctx, req)
	if err := e.walk(ctx, req, v); err != nil {
		return nil, err
	}
	return v.doc, nil
}

// CollectImages walks the channel's content tree with the same schedule
// gating as Render, but returns the deduplicated image URLs referenced by
// item fields instead of a document.
func (e *Engine) CollectImages(ctx context.Context, req Request) ([]string, error) {
	v := newImageCollector()
	if err := e.walk(ctx, req, v); err != nil {
		return nil, err
	}
	return v.urls, nil
}

// location resolves the time zone a channel's schedules are evaluated in.
// An unloadable zone name falls back to the service default.
func (e *Engine) location(channel *models.ContentNode) *time.Location {
	name := channel.Config().Timezone
	if name == "" {
		return e.defaultLoc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		e.log.Warn("unknown channel timezone, using default",
			logger.String("channel", channel.Name),
			logger.String("timezone", name),
		)
		return e.defaultLoc
	}
	return loc
}
