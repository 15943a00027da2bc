package watcher

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mpfm/logger"
)

// debounceWindow coalesces bursts of filesystem events (copies, editors
// writing temp files) into a single refresh.
const debounceWindow = 500 * time.Millisecond

// Refresher is the playlist operation triggered on directory changes.
type Refresher interface {
	Refresh() error
}

// Watcher refreshes a playlist when track files appear in, change in or
// leave its directory.
type Watcher struct {
	fsw      *fsnotify.Watcher
	target   Refresher
	exts     []string
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a watcher on dir. exts filters events to recognized track
// files, matched case-insensitively.
func New(dir string, exts []string, target Refresher) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create directory watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		fsw:      fsw,
		target:   target,
		exts:     exts,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop shuts the watcher down and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.fsw.Close()
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	debounce := time.NewTimer(debounceWindow)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("track directory changed",
				logger.String("file", event.Name),
				logger.String("op", event.Op.String()))
			debounce.Reset(debounceWindow)
			pending = true
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("directory watcher error", logger.ErrorField(err))
		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.target.Refresh(); err != nil {
				logger.Error("refresh after directory change failed", logger.ErrorField(err))
			}
		case <-w.stopChan:
			return
		}
	}
}

// relevant reports whether the event concerns a recognized track file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := strings.ToLower(event.Name)
	for _, ext := range w.exts {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
