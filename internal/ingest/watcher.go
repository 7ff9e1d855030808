package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots       []string      // directories to watch
	Recursive   bool          // also watch subdirectories, including new ones
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid write/rename bursts
	Logger      *slog.Logger
}

// StartWatcher emits the paths of PDFs created or changed under the roots.
// Both channels are closed when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher start failed: no roots provided")
		return nil, nil, errors.New("no roots provided")
	}
	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	var initial []string
	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != root && (IsHidden(path) || !cfg.Recursive) {
					return filepath.SkipDir
				}
				return w.Add(path)
			}
			if cfg.InitialScan && !IsHidden(path) && AllowedExt(filepath.Ext(path)) {
				initial = append(initial, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			logger.Error("failed to add root directory", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(errCh)
		defer close(evCh)
		defer func(w *fsnotify.Watcher) {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}(w)

		emit := func(p string) bool {
			select {
			case evCh <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range initial {
			if !emit(p) {
				return
			}
		}

		var (
			mu      sync.Mutex
			pending = map[string]struct{}{}
			flushCh = make(chan struct{}, 1)
			timer   *time.Timer
		)
		flush := func() {
			mu.Lock()
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			mu.Unlock()
			for _, p := range batch {
				if !emit(p) {
					return
				}
			}
		}
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-flushCh:
				flush()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if cfg.Recursive && e.Has(fsnotify.Create) {
					watchIfDir(w, e.Name, logger)
				}
				if IsHidden(e.Name) || !AllowedExt(filepath.Ext(e.Name)) {
					continue
				}
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) && !e.Has(fsnotify.Rename) {
					continue
				}
				mu.Lock()
				pending[e.Name] = struct{}{}
				mu.Unlock()
				if cfg.Debounce <= 0 {
					flush()
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(cfg.Debounce, func() {
					select {
					case flushCh <- struct{}{}:
					default:
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

// Rename events also fire for the old name, so the file may be gone.
func watchIfDir(w *fsnotify.Watcher, path string, logger *slog.Logger) {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() || IsHidden(path) {
		return
	}
	if err := w.Add(path); err != nil {
		logger.Warn("failed to add new directory to watcher", "path", path, "error", err)
	}
}

// Watch feeds the PDFs reported by the watcher to the ingestor until ctx is
// done. Rename events for files that no longer exist are ignored.
func Watch(ctx context.Context, cfg WatchConfig, ing Ingestor) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	evCh, errCh, err := StartWatcher(ctx, cfg)
	if err != nil {
		return err
	}
	for {
		select {
		case path, ok := <-evCh:
			if !ok {
				return ctx.Err()
			}
			if _, err := os.Stat(path); err != nil {
				continue
			}
			r, err := ing.IngestPath(ctx, path, false)
			if err != nil {
				logger.Error("watch.ingest.failed", "path", path, "error", err)
				continue
			}
			logger.Info("watch.ingest.ok", "path", path, "queued", r.Queued, "deduplicated", r.Deduplicated)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			logger.Warn("watch.error", "error", err)
		}
	}
}
