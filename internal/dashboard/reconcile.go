package dashboard

import "github.com/clawd-ops/missioncontrol/internal/models"

// TaskView is the reconciled state of delegated sub-agent tasks.
type TaskView struct {
	// RunningKeys holds session keys spawned and not yet completed, in
	// order of first spawn.
	RunningKeys []string
	// Running holds every spawned event whose key is still running.
	Running []models.SubagentTaskEvent
	// Completed holds every completed event in log order, including ones
	// whose spawn fell outside the tail window.
	Completed []models.SubagentTaskEvent
	// Tasks maps a session key to the task name of its first spawned event
	// that carries one. Completed events usually omit the task.
	Tasks map[string]string
}

// RunningCount returns the number of in-flight session keys.
func (v TaskView) RunningCount() int {
	return len(v.RunningKeys)
}

// IsRunning reports whether key is in flight.
func (v TaskView) IsRunning(key string) bool {
	for _, k := range v.RunningKeys {
		if k == key {
			return true
		}
	}
	return false
}

// TaskName returns the task name for e, falling back to the name recorded
// when its session key was spawned.
func (v TaskView) TaskName(e models.SubagentTaskEvent) string {
	if e.Task != "" {
		return e.Task
	}
	return v.Tasks[e.SessionKey]
}

// Reconcile pairs spawned and completed events by session key. A key with
// any completed event is finished no matter how many times it was spawned.
// Events of any other kind are ignored.
func Reconcile(events []models.SubagentTaskEvent) TaskView {
	spawned := make(map[string]bool)
	completed := make(map[string]bool)
	tasks := make(map[string]string)
	var order []string

	for _, ev := range events {
		switch ev.Event {
		case models.LifecycleSpawned:
			if ev.Task != "" && tasks[ev.SessionKey] == "" {
				tasks[ev.SessionKey] = ev.Task
			}
			if !spawned[ev.SessionKey] {
				spawned[ev.SessionKey] = true
				order = append(order, ev.SessionKey)
			}
		case models.LifecycleCompleted:
			completed[ev.SessionKey] = true
		}
	}

	view := TaskView{
		RunningKeys: []string{},
		Running:     []models.SubagentTaskEvent{},
		Completed:   []models.SubagentTaskEvent{},
		Tasks:       tasks,
	}
	for _, key := range order {
		if !completed[key] {
			view.RunningKeys = append(view.RunningKeys, key)
		}
	}
	for _, ev := range events {
		switch ev.Event {
		case models.LifecycleSpawned:
			if !completed[ev.SessionKey] {
				view.Running = append(view.Running, ev)
			}
		case models.LifecycleCompleted:
			view.Completed = append(view.Completed, ev)
		}
	}
	return view
}
