package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type WatchConfig struct {
	Dir           string
	RetryAttempts uint
	RetryDelay    time.Duration
}

// Watcher processes PDFs as they land in a drop directory. Scanner
// uploads arrive in chunks, so a new file is handed to the process
// function only once it parses as a complete PDF.
type Watcher struct {
	config   WatchConfig
	log      *slog.Logger
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewWatcher(config WatchConfig, log *slog.Logger) *Watcher {
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 5
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{config: config, log: log, inFlight: make(map[string]bool)}
}

// Watch blocks until the context is cancelled, invoking fn for every PDF
// created or modified under the watched directory.
func (w *Watcher) Watch(ctx context.Context, fn ProcessFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.config.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.config.Dir, err)
	}
	w.log.Info("Watching for new PDFs.", "dir", w.config.Dir)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := event.Name
			if !strings.EqualFold(filepath.Ext(path), ".pdf") {
				continue
			}
			if !w.claim(path) {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer w.release(path)
				w.handle(ctx, path, fn)
			}()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string, fn ProcessFunc) {
	if err := w.waitStable(ctx, path); err != nil {
		w.log.Warn("File never became readable, skipping.", "path", path, "error", err)
		return
	}
	w.log.Info("Processing new arrival.", "path", path)
	if err := fn(ctx, path); err != nil {
		w.log.Error("File processing failed", "path", path, "error", err)
	}
}

// waitStable retries until the file parses as a PDF, which a half-written
// upload does not.
func (w *Watcher) waitStable(ctx context.Context, path string) error {
	return retry.Do(
		func() error {
			_, err := api.PageCountFile(path)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(w.config.RetryAttempts),
		retry.Delay(w.config.RetryDelay),
	)
}

func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[path] {
		return false
	}
	w.inFlight[path] = true
	return true
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, path)
}
