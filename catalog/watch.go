package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultWatchDebounce = 300 * time.Millisecond

// Watcher reloads the catalog whenever the data file changes on disk.
type Watcher struct {
	svc      *Service
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(*Catalog, error)

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Watch starts watching the configured data file. onChange runs on the
// watcher goroutine after every debounced change with the reloaded catalog.
func (s *Service) Watch(ctx context.Context, onChange func(*Catalog, error)) (*Watcher, error) {
	return s.watch(ctx, defaultWatchDebounce, onChange)
}

func (s *Service) watch(ctx context.Context, debounce time.Duration, onChange func(*Catalog, error)) (*Watcher, error) {
	path, err := filepath.Abs(s.Config().DataPath)
	if err != nil {
		return nil, fmt.Errorf("resolve data path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		svc:      s,
		watcher:  fw,
		path:     path,
		debounce: debounce,
		onChange: onChange,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	s.logger.Info("watching data file", zap.String("path", path))
	return w, nil
}

// Path returns the absolute path of the watched data file.
func (w *Watcher) Path() string {
	return w.path
}

// Stop ends the watch and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		<-w.done
		if err := w.watcher.Close(); err != nil {
			w.svc.logger.Warn("close watcher", zap.Error(err))
		}
	})
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.svc.logger.Warn("watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.svc.Invalidate()
			cat, err := w.svc.Catalog(ctx)
			if ctx.Err() != nil {
				return
			}
			w.svc.logger.Info("data file changed", zap.String("path", w.path))
			if w.onChange != nil {
				w.onChange(cat, err)
			}
		}
	}
}
