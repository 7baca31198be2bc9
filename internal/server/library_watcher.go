package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"jobparser/internal/errors"
	"jobparser/internal/extract"
	"jobparser/internal/observability"
	"jobparser/internal/patterns"
)

// EngineSwapper receives rebuilt engines
type EngineSwapper interface {
	SwapEngine(engine *extract.Engine)
}

// LibraryWatcher rebuilds the pattern library when the overlay file changes
// and hands the new engine to the swapper. A broken overlay is logged and the
// current engine stays in place.
type LibraryWatcher struct {
	mu sync.Mutex

	file        string
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	done       chan struct{}

	swapper EngineSwapper
	metrics *observability.Metrics
	logger  *errors.Logger

	running    bool
	reloads    int
	failures   int
	lastReload time.Time
	lastError  string
}

// NewLibraryWatcher creates a watcher for the overlay at file
func NewLibraryWatcher(file string, debounceDelay time.Duration, swapper EngineSwapper, metrics *observability.Metrics, logger *errors.Logger) *LibraryWatcher {
	if debounceDelay <= 0 {
		debounceDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &LibraryWatcher{
		file:          filepath.Clean(file),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		done:          make(chan struct{}),
		swapper:       swapper,
		metrics:       metrics,
		logger:        logger,
	}
}

// Start begins watching. The directory is watched rather than the file so
// editors that save by rename are still seen.
func (lw *LibraryWatcher) Start() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.running {
		return fmt.Errorf("library watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(lw.file)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			lw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	lw.fsWatcher = watcher

	if stat, err := os.Stat(lw.file); err == nil {
		lw.lastModTime = stat.ModTime()
	}

	lw.running = true
	go lw.watchLoop()

	lw.logger.Info("Pattern library watcher started",
		"file", lw.file,
		"debounce_delay", lw.debounceDelay)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (lw *LibraryWatcher) Stop() error {
	lw.mu.Lock()
	if !lw.running {
		lw.mu.Unlock()
		return nil
	}
	lw.running = false
	close(lw.stopChan)
	if lw.debounceTimer != nil {
		lw.debounceTimer.Stop()
	}
	lw.mu.Unlock()

	<-lw.done

	if err := lw.fsWatcher.Close(); err != nil {
		lw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}
	lw.logger.Info("Pattern library watcher stopped")
	return nil
}

// Reload rebuilds the library from the overlay and swaps the engine
func (lw *LibraryWatcher) Reload() error {
	lib, err := patterns.Load(lw.file)

	lw.mu.Lock()
	lw.reloads++
	lw.lastReload = time.Now()
	if err != nil {
		lw.failures++
		lw.lastError = err.Error()
	} else {
		lw.lastError = ""
	}
	lw.mu.Unlock()

	lw.metrics.RecordLibraryReload(context.Background(), err)
	if err != nil {
		lw.logger.LogError(err, "Pattern overlay rejected, keeping current library", "file", lw.file)
		return err
	}

	lw.swapper.SwapEngine(extract.New(lib))
	return nil
}

func (lw *LibraryWatcher) watchLoop() {
	defer close(lw.done)

	for {
		select {
		case event, ok := <-lw.fsWatcher.Events:
			if !ok {
				return
			}
			if lw.shouldProcessEvent(event) {
				lw.scheduleReload()
			}

		case err, ok := <-lw.fsWatcher.Errors:
			if !ok {
				return
			}
			lw.logger.LogError(err, "File watcher error")

		case <-lw.reloadChan:
			if lw.hasFileChanged() {
				lw.logger.Info("Pattern overlay changed, reloading", "file", lw.file)
				_ = lw.Reload()
			}

		case <-lw.stopChan:
			return
		}
	}
}

func (lw *LibraryWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != lw.file {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged ignores events that leave the modification time alone,
// and deletions: a missing overlay keeps the current library.
func (lw *LibraryWatcher) hasFileChanged() bool {
	stat, err := os.Stat(lw.file)
	if err != nil {
		return false
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()
	if stat.ModTime().Equal(lw.lastModTime) {
		return false
	}
	lw.lastModTime = stat.ModTime()
	return true
}

func (lw *LibraryWatcher) scheduleReload() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.debounceTimer != nil {
		lw.debounceTimer.Stop()
	}
	lw.debounceTimer = time.AfterFunc(lw.debounceDelay, func() {
		select {
		case lw.reloadChan <- struct{}{}:
		default:
		}
	})
}

// Status reports the watcher state for /health
func (lw *LibraryWatcher) Status() map[string]any {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	status := map[string]any{
		"file":     lw.file,
		"running":  lw.running,
		"reloads":  lw.reloads,
		"failures": lw.failures,
	}
	if !lw.lastReload.IsZero() {
		status["last_reload"] = lw.lastReload.UTC().Format(time.RFC3339)
	}
	if lw.lastError != "" {
		status["last_error"] = lw.lastError
	}
	return status
}
