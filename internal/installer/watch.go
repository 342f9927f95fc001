package installer

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the delay before a change notification fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports debounced filesystem changes beneath the watched
// paths. A burst of events collapses into one notification carrying the
// last changed path.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	changes chan string
	errs    chan error

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher. A non-positive debounce falls back to
// DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		changes:  make(chan string, 16),
		errs:     make(chan error, 16),
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add watches a single file or directory.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return w.fsw.Add(abs)
}

// AddRecursive watches root and every directory beneath it, skipping
// hidden directories. Watching a plain file falls back to Add.
func (w *Watcher) AddRecursive(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(abs)
	}

	return filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			w.sendError(addErr)
		}
		return nil
	})
}

// Changes returns the debounced change channel.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher. Close is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()

	close(w.changes)
	close(w.errs)

	return w.fsw.Close()
}

// processLoop drains fsnotify events into debounced change
// notifications.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var (
		pending string
		timer   *time.Timer
		timerC  <-chan time.Time
	)

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevantOp(event.Op) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}

			// Directories created under a watched path start being
			// watched as they appear.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(event.Name)
				}
			}

			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			w.sendChange(pending)
			timer = nil
			timerC = nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// relevantOp filters the operations that should trigger a rebuild.
func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

// sendChange delivers a change notification without blocking.
func (w *Watcher) sendChange(path string) {
	select {
	case w.changes <- path:
	default: // nobody draining, drop
	}
}

// sendError delivers an error without blocking.
func (w *Watcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
