package rules

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay debounces override-file churn (editors often write a
// file several times in quick succession).
const DefaultReloadDelay = 2 * time.Second

// Watcher invalidates a Loader's cache when override files change, so a
// long-running MCP server picks up edited overrides without a restart.
type Watcher struct {
	loader *Loader
	fw     *fsnotify.Watcher
	delay  time.Duration
	done   chan struct{}
}

// NewWatcher watches the loader's override directory. Returns nil without
// error when no override directory is configured.
func NewWatcher(loader *Loader, delay time.Duration) (*Watcher, error) {
	if loader.overrideDir == "" {
		return nil, nil
	}
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the override root and any existing framework subdirectories.
	// The root must exist; subdirectories created later are picked up via
	// create events on the root.
	if err := fw.Add(loader.overrideDir); err != nil {
		fw.Close()
		return nil, err
	}
	entries, _ := filepath.Glob(filepath.Join(loader.overrideDir, "*"))
	for _, e := range entries {
		fw.Add(e)
	}

	w := &Watcher{loader: loader, fw: fw, delay: delay, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				// A new framework subdirectory needs its own watch.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.fw.Add(ev.Name)
				}
			}
			if !strings.HasSuffix(ev.Name, ".json") && ev.Op&fsnotify.Create == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(w.delay)
			}
		case <-timerC:
			rulesLog.Printf("override change detected, reloading rule sets")
			w.loader.Invalidate()
			timer = nil
			timerC = nil
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			rulesLog.Printf("WARNING: override watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	close(w.done)
	w.fw.Close()
}
