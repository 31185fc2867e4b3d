package tui

import (
	"strings"
	"testing"
)

func rows(keys ...string) []listItem {
	items := make([]listItem, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, "#") {
			items = append(items, headerItem(k[1:]))
			continue
		}
		items = append(items, listItem{key: k, text: k, style: plainStyle})
	}
	return items
}

func selectedKey(lv *ListView) string {
	item, ok := lv.Selected()
	if !ok {
		return ""
	}
	return item.key
}

func TestListViewSkipsHeaders(t *testing.T) {
	lv := NewListView("empty")
	lv.SetItems(rows("#Running", "a", "b", "#Done", "c"))

	if got := selectedKey(lv); got != "a" {
		t.Fatalf("initial selection = %q, want %q", got, "a")
	}

	steps := []struct {
		move func()
		want string
	}{
		{lv.MoveDown, "b"},
		{lv.MoveDown, "c"},
		{lv.MoveDown, "c"},
		{lv.MoveUp, "b"},
		{lv.MoveUp, "a"},
		{lv.MoveUp, "a"},
	}
	for i, s := range steps {
		s.move()
		if got := selectedKey(lv); got != s.want {
			t.Errorf("step %d: selection = %q, want %q", i, got, s.want)
		}
	}
}

func TestListViewKeepsSelectionAcrossReload(t *testing.T) {
	lv := NewListView("empty")
	lv.SetItems(rows("a", "b", "c"))
	lv.MoveDown()
	lv.MoveDown()

	lv.SetItems(rows("z", "a", "b", "c"))
	if got := selectedKey(lv); got != "c" {
		t.Errorf("selection after reload = %q, want %q", got, "c")
	}

	lv.SetItems(rows("x", "y"))
	if got := selectedKey(lv); got != "x" {
		t.Errorf("selection after key vanished = %q, want %q", got, "x")
	}
}

func TestListViewHeadersOnly(t *testing.T) {
	lv := NewListView("empty")
	lv.SetItems(rows("#Running (0)", "#Recently completed (0)"))

	if _, ok := lv.Selected(); ok {
		t.Error("Selected() on headers-only list reported a row")
	}
	lv.MoveDown()
	lv.MoveUp()
	if _, ok := lv.Selected(); ok {
		t.Error("Selected() after moving reported a row")
	}
}

func TestListViewScrolls(t *testing.T) {
	lv := NewListView("empty")
	lv.SetHeight(3)
	lv.SetItems(rows("a", "b", "c", "d", "e", "f"))

	for i := 0; i < 4; i++ {
		lv.MoveDown()
	}
	if got := selectedKey(lv); got != "e" {
		t.Fatalf("selection = %q, want %q", got, "e")
	}

	view := lv.View(40)
	if strings.Contains(view, "  a") {
		t.Errorf("View() still shows scrolled-off row:\n%s", view)
	}
	if !strings.Contains(view, "e") || !strings.Contains(view, "▲ more") || !strings.Contains(view, "▼ more") {
		t.Errorf("View() missing selection or scroll indicators:\n%s", view)
	}

	lv.PageUp()
	if got := selectedKey(lv); got != "b" {
		t.Errorf("selection after PageUp = %q, want %q", got, "b")
	}
}

func TestListViewEmpty(t *testing.T) {
	lv := NewListView("No cron jobs.")
	lv.MoveDown()
	if !strings.Contains(lv.View(40), "No cron jobs.") {
		t.Errorf("View() = %q, want empty message", lv.View(40))
	}
}
