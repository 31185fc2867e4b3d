// Package watcher reports changes to the agent's state files so readers can
// drop cached data as soon as the producer writes.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
)

// EventType identifies which state file changed.
type EventType int

// Event types for state file changes.
const (
	EventStatusChanged EventType = iota
	EventSessionsChanged
	EventHistoryChanged
	EventSubagentLogChanged
	EventActivityChanged
	EventCronChanged
	EventDeliverablesChanged
)

var eventNames = map[EventType]string{
	EventStatusChanged:       "status",
	EventSessionsChanged:     "sessions",
	EventHistoryChanged:      "history",
	EventSubagentLogChanged:  "subagents",
	EventActivityChanged:     "activity",
	EventCronChanged:         "cron",
	EventDeliverablesChanged: "deliverables",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

var fileEvents = map[string]EventType{
	dashboard.StatusFile:       EventStatusChanged,
	dashboard.SessionsFile:     EventSessionsChanged,
	dashboard.SubagentLogFile:  EventSubagentLogChanged,
	dashboard.ActivityFeedFile: EventActivityChanged,
	dashboard.CronJobsFile:     EventCronChanged,
	dashboard.DeliverablesFile: EventDeliverablesChanged,
}

// DebounceInterval coalesces bursts of writes to one file.
const DebounceInterval = 100 * time.Millisecond

// Event represents a state file change.
type Event struct {
	Type       EventType
	SessionKey string // set for EventHistoryChanged
	Path       string
}

// Watcher watches the state roots for changes to known state files.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	roots      map[string]bool
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher over the given state roots.
func New(roots []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		roots:      make(map[string]bool),
		debounce:   make(map[string]*time.Timer),
	}
	for _, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			w.roots[abs] = true
		}
	}
	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start begins watching. Roots that do not exist yet are picked up when they
// are created, as long as their parent directory exists.
func (w *Watcher) Start() error {
	for root := range w.roots {
		w.watchRoot(root)
	}
	go w.processEvents()
	return nil
}

func (w *Watcher) watchRoot(root string) {
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		if err := w.fsWatcher.Add(root); err != nil {
			log.Warn().Str("root", root).Err(err).Msg("failed to watch state root")
			return
		}
		log.Debug().Str("root", root).Msg("watching state root")
		return
	}
	parent := filepath.Dir(root)
	if err := w.fsWatcher.Add(parent); err != nil {
		log.Debug().Str("root", root).Err(err).Msg("state root and parent missing; not watching")
		return
	}
	log.Debug().Str("root", root).Str("parent", parent).Msg("state root missing; watching parent")
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Producers that rewrite snapshots atomically (write temp, rename over
	// target) surface as Create or Rename on the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 && w.roots[event.Name] {
		w.watchRoot(event.Name)
		return
	}

	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(DebounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

func (w *Watcher) processFileChange(path string) {
	if !w.roots[filepath.Dir(path)] {
		return
	}
	ev, ok := Classify(path)
	if !ok {
		return
	}
	log.Debug().Str("path", path).Stringer("type", ev.Type).Msg("state file changed")

	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}

// Classify maps a changed path to an Event by its file name.
func Classify(path string) (Event, bool) {
	name := filepath.Base(path)
	if t, ok := fileEvents[name]; ok {
		return Event{Type: t, Path: path}, true
	}
	if strings.HasPrefix(name, "history_") && strings.HasSuffix(name, ".json") {
		key := strings.TrimSuffix(strings.TrimPrefix(name, "history_"), ".json")
		if key != "" {
			return Event{Type: EventHistoryChanged, SessionKey: key, Path: path}, true
		}
	}
	return Event{}, false
}
