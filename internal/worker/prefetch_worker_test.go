package worker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/tickerd/internal/logger"
	"github.com/jonesrussell/tickerd/internal/ticker"
	"github.com/jonesrussell/tickerd/internal/worker"
)

type stubLister struct {
	mu     sync.Mutex
	images map[string][]string
	calls  []string
}

func (s *stubLister) CollectImages(_ context.Context, req ticker.Request) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req.Channel)
	return s.images[req.Channel], nil
}

func (s *stubLister) channelsSeen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func TestPrefetchWorker_DefaultConfig(t *testing.T) {
	lister := &stubLister{}
	w := worker.NewPrefetchWorker(lister, nil, worker.PrefetchConfig{}, logger.NewNop())

	if w.IsRunning() {
		t.Error("worker should not be running before Start")
	}
}

func TestPrefetchWorker_StartStop(t *testing.T) {
	lister := &stubLister{images: map[string][]string{}}
	w := worker.NewPrefetchWorker(lister, nil, worker.PrefetchConfig{
		CachePath:     t.TempDir(),
		Channels:      []string{"Main"},
		SweepInterval: time.Hour,
	}, logger.NewNop())

	w.Start(context.Background())
	if !w.IsRunning() {
		t.Error("worker should be running after Start")
	}

	// Start is idempotent
	w.Start(context.Background())

	w.Stop()
}

func TestPrefetchWorker_DownloadsImages(t *testing.T) {
	var requested []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		_, _ = rw.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	lister := &stubLister{images: map[string][]string{
		"Main": {srv.URL + "/storm.jpg", srv.URL + "/radar.png"},
	}}

	w := worker.NewPrefetchWorker(lister, nil, worker.PrefetchConfig{
		CachePath:     cacheDir,
		Channels:      []string{"Main"},
		SweepInterval: time.Hour,
	}, logger.NewNop())

	w.Start(context.Background())
	defer w.Stop()

	waitForFile(t, filepath.Join(cacheDir, "storm.jpg"))
	waitForFile(t, filepath.Join(cacheDir, "radar.png"))

	data, err := os.ReadFile(filepath.Join(cacheDir, "storm.jpg"))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("cached content = %q, want %q", data, "image-bytes")
	}

	seen := lister.channelsSeen()
	if len(seen) == 0 || seen[0] != "Main" {
		t.Errorf("channels swept = %v, want Main first", seen)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(requested) != 2 {
		t.Errorf("server requests = %d, want 2", len(requested))
	}
}

func TestPrefetchWorker_SkipsFailedDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	lister := &stubLister{images: map[string][]string{
		"Main": {srv.URL + "/missing.jpg"},
	}}

	w := worker.NewPrefetchWorker(lister, nil, worker.PrefetchConfig{
		CachePath:     cacheDir,
		Channels:      []string{"Main"},
		SweepInterval: time.Hour,
	}, logger.NewNop())

	w.Start(context.Background())
	defer w.Stop()

	// Give the immediate sweep time to finish
	deadline := time.Now().Add(2 * time.Second)
	for len(lister.channelsSeen()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := os.Stat(filepath.Join(cacheDir, "missing.jpg")); !os.IsNotExist(err) {
		t.Error("failed download should not leave a cache file behind")
	}
}

func waitForFile(t *testing.T, p string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(p); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("file %s never appeared", p)
}
