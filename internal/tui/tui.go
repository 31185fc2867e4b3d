// Package tui implements the interactive Mission Control dashboard.
package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/daemon/watcher"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Options configures the dashboard.
type Options struct {
	Store *dashboard.Store
	// RefreshInterval is the auto-refresh period. Zero disables the ticker.
	RefreshInterval time.Duration
	// Watch enables push refresh from filesystem events on the state roots.
	Watch bool
}

// Run launches the dashboard and blocks until the user quits.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("tui: store is required")
	}

	if f, err := config.OpenLogFile("missioncontrol"); err == nil {
		log.SetOutput(f)
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ref := &programRef{}
	model := NewModel(opts.Store, opts.RefreshInterval)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Store program reference for goroutine sends
	ref.Set(p)
	defer ref.Clear()

	if opts.Watch {
		stop, err := watchState(opts.Store.Roots(), ref)
		if err != nil {
			log.Warn().Err(err).Msg("file watcher unavailable; relying on refresh interval")
			// Send blocks until the event loop runs.
			go ref.Send(ErrorMsg{Err: err})
		} else {
			defer stop()
		}
	}

	_, err := p.Run()
	return err
}

// watchState forwards state file changes to the program. The returned func
// stops the watcher.
func watchState(roots []string, ref *programRef) (func(), error) {
	w, err := watcher.New(roots)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case ev := <-w.Events():
				ref.Send(StateChangedMsg{Event: ev})
			}
		}
	}()

	return func() {
		close(done)
		w.Stop()
	}, nil
}
