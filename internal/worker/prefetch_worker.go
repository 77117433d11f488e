// Package worker provides background workers for the tickerd service.
// prefetch_worker.go implements the image prefetch polling worker that keeps
// the local image cache warm for the consuming hardware.
package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonesrussell/tickerd/internal/dedup"
	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/ticker"
)

const (
	defaultSweepInterval  = 5 * time.Minute
	defaultFetchTimeout   = 15 * time.Second
	defaultFilePermission = 0o644
)

// ImageLister lists the image URLs a channel's feed references.
// *ticker.Engine implements it.
type ImageLister interface {
	CollectImages(ctx context.Context, req ticker.Request) ([]string, error)
}

// PrefetchWorker periodically collects the image URLs referenced by the
// configured channels and downloads new ones into the local cache directory.
type PrefetchWorker struct {
	lister    ImageLister
	fetched   *dedup.Tracker
	client    *http.Client
	cachePath string
	channels  []string
	logger    logger.Logger

	sweepInterval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// PrefetchConfig holds configuration options
type PrefetchConfig struct {
	CachePath     string
	Channels      []string
	SweepInterval time.Duration
	FetchTimeout  time.Duration
}

// NewPrefetchWorker creates a new image prefetch worker. The fetched
// tracker is optional; without it every sweep re-checks the filesystem only.
func NewPrefetchWorker(
	lister ImageLister,
	fetched *dedup.Tracker,
	cfg PrefetchConfig,
	log logger.Logger,
) *PrefetchWorker {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}

	return &PrefetchWorker{
		lister:        lister,
		fetched:       fetched,
		client:        &http.Client{Timeout: cfg.FetchTimeout},
		cachePath:     cfg.CachePath,
		channels:      cfg.Channels,
		logger:        log,
		sweepInterval: cfg.SweepInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the prefetch polling loop
func (w *PrefetchWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("image prefetch worker started",
		logger.Duration("sweep_interval", w.sweepInterval),
		logger.Strings("channels", w.channels),
	)
}

// Stop gracefully stops the worker
func (w *PrefetchWorker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("image prefetch worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *PrefetchWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

func (w *PrefetchWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	// Sweep immediately on start
	w.sweepOnce(ctx)

	for {
		select {
		case <-ticker.C:
			w.sweepOnce(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweepOnce collects and downloads the images of every configured channel.
// Failures stay channel-local; the other channels still get their sweep.
func (w *PrefetchWorker) sweepOnce(ctx context.Context) {
	for _, channel := range w.channels {
		urls, err := w.lister.CollectImages(ctx, ticker.Request{Channel: channel})
		if err != nil {
			w.logger.Warn("failed to collect channel images",
				logger.String("channel", channel),
				logger.Error(err),
			)
			continue
		}

		for _, imageURL := range urls {
			w.fetchOne(ctx, channel, imageURL)
		}
	}
}

func (w *PrefetchWorker) fetchOne(ctx context.Context, channel, imageURL string) {
	if w.fetched != nil && w.fetched.HasFetched(ctx, imageURL) {
		return
	}

	dest, err := w.cacheDestination(imageURL)
	if err != nil {
		w.logger.Warn("skipping unparseable image url",
			logger.String("channel", channel),
			logger.String("url", imageURL),
			logger.Error(err),
		)
		return
	}

	if err := w.download(ctx, imageURL, dest); err != nil {
		w.logger.Warn("failed to prefetch image",
			logger.String("channel", channel),
			logger.String("url", imageURL),
			logger.Error(err),
		)
		return
	}

	if w.fetched != nil {
		_ = w.fetched.MarkFetched(ctx, imageURL)
	}

	w.logger.Debug("image prefetched",
		logger.String("url", imageURL),
		logger.String("dest", dest),
	)
}

// cacheDestination maps an image URL onto its local cache path, the same
// mapping the feed renderer emits in rewritten field values.
func (w *PrefetchWorker) cacheDestination(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	return filepath.Join(w.cachePath, path.Base(u.Path)), nil
}

func (w *PrefetchWorker) download(ctx context.Context, imageURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image server returned status %d", resp.StatusCode)
	}

	tmp := dest + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaultFilePermission)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close cache file: %w", err)
	}

	// Rename after a complete write so the hardware never reads a torn file.
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move cache file: %w", err)
	}

	return nil
}
