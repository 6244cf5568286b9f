package asset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reports files below a directory tree that were written or replaced.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches root and every directory below it, including
// directories created later. Events carry paths relative to root, slash
// separated.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		root:    root,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addTree watches a directory created after NewWatcher. Files already in it
// were written before the watch existed and are reported as changed.
func (w *Watcher) addTree(dir string, pending map[string]time.Time) {
	now := time.Now()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		if rel, ok := w.rel(path); ok {
			pending[rel] = now
		}
		return nil
	})
	if err != nil {
		select {
		case w.Errors <- err:
		default:
		}
	}
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	ticker := time.NewTicker(reloadDebounce / 2)
	defer ticker.Stop()

	// A file is reported once it has been quiet for reloadDebounce.
	pending := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addTree(event.Name, pending)
					continue
				}
			}
			if rel, ok := w.rel(event.Name); ok {
				pending[rel] = time.Now()
			}
		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) < reloadDebounce {
					continue
				}
				delete(pending, file)
				select {
				case w.Events <- file:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Watch starts reloading requested files when they change on disk.
func (s *Server) Watch() error {
	w, err := NewWatcher(s.root)
	if err != nil {
		return err
	}
	s.watcher = w

	go func() {
		for {
			select {
			case file, ok := <-w.Events:
				if !ok {
					return
				}
				s.logger.Debug("asset changed on disk", "path", file)
				s.Reload(file)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("asset watcher error", "error", err)
			}
		}
	}()
	return nil
}
