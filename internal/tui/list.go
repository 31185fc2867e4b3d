package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// listItem is one row of a ListView. Header rows group the rows after them
// and are skipped by the cursor.
type listItem struct {
	key    string
	text   string
	style  lipgloss.Style
	header bool
	detail *itemDetail
}

func headerItem(text string) listItem {
	return listItem{text: text, header: true}
}

// ListView is a scrollable, cursor-driven list used by every tab.
type ListView struct {
	items        []listItem
	cursor       int
	scrollOffset int
	height       int
	empty        string
}

// NewListView creates a list that shows empty when it has no rows.
func NewListView(empty string) *ListView {
	return &ListView{empty: empty, height: 10}
}

// SetItems replaces the rows, keeping the cursor on the same key if it is
// still present.
func (lv *ListView) SetItems(items []listItem) {
	prevKey := ""
	if sel, ok := lv.Selected(); ok {
		prevKey = sel.key
	}

	lv.items = items
	lv.cursor = 0
	if prevKey != "" {
		for i, it := range items {
			if !it.header && it.key == prevKey {
				lv.cursor = i
				break
			}
		}
	}
	lv.skipHeaders(1)
	lv.clampScroll()
	lv.ensureVisible()
}

// SetHeight sets the visible height.
func (lv *ListView) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	lv.height = h
	lv.clampScroll()
	lv.ensureVisible()
}

// Len returns the number of rows, headers included.
func (lv *ListView) Len() int {
	return len(lv.items)
}

// Selected returns the row under the cursor.
func (lv *ListView) Selected() (listItem, bool) {
	if lv.cursor < 0 || lv.cursor >= len(lv.items) {
		return listItem{}, false
	}
	item := lv.items[lv.cursor]
	if item.header {
		return listItem{}, false
	}
	return item, true
}

// MoveUp moves the cursor up, skipping headers.
func (lv *ListView) MoveUp() {
	lv.move(-1)
}

// MoveDown moves the cursor down, skipping headers.
func (lv *ListView) MoveDown() {
	lv.move(1)
}

// PageUp moves the cursor up by one screen.
func (lv *ListView) PageUp() {
	lv.move(-lv.height)
}

// PageDown moves the cursor down by one screen.
func (lv *ListView) PageDown() {
	lv.move(lv.height)
}

func (lv *ListView) move(delta int) {
	if len(lv.items) == 0 {
		return
	}
	lv.cursor += delta
	if lv.cursor < 0 {
		lv.cursor = 0
	}
	if lv.cursor >= len(lv.items) {
		lv.cursor = len(lv.items) - 1
	}
	dir := 1
	if delta < 0 {
		dir = -1
	}
	lv.skipHeaders(dir)
	lv.ensureVisible()
}

func (lv *ListView) skipHeaders(direction int) {
	for lv.cursor >= 0 && lv.cursor < len(lv.items) && lv.items[lv.cursor].header {
		lv.cursor += direction
	}
	if lv.cursor < 0 {
		lv.cursor = 0
		for lv.cursor < len(lv.items) && lv.items[lv.cursor].header {
			lv.cursor++
		}
	}
	if lv.cursor >= len(lv.items) {
		lv.cursor = len(lv.items) - 1
		for lv.cursor >= 0 && lv.items[lv.cursor].header {
			lv.cursor--
		}
	}
	// A list of only headers leaves the cursor parked at the top.
	if lv.cursor < 0 {
		lv.cursor = 0
	}
}

func (lv *ListView) ensureVisible() {
	if lv.cursor < lv.scrollOffset {
		lv.scrollOffset = lv.cursor
	}
	if lv.cursor >= lv.scrollOffset+lv.height {
		lv.scrollOffset = lv.cursor - lv.height + 1
	}
	// Show the header above the first selectable row.
	if lv.height > 1 && lv.scrollOffset > 0 && lv.cursor == lv.scrollOffset && lv.items[lv.scrollOffset-1].header {
		lv.scrollOffset--
	}
}

func (lv *ListView) clampScroll() {
	maxOffset := len(lv.items) - lv.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if lv.scrollOffset > maxOffset {
		lv.scrollOffset = maxOffset
	}
}

// View renders the visible rows.
func (lv *ListView) View(width int) string {
	if len(lv.items) == 0 {
		return dimStyle.Render(lv.empty)
	}

	var lines []string
	end := lv.scrollOffset + lv.height
	if end > len(lv.items) {
		end = len(lv.items)
	}

	for i := lv.scrollOffset; i < end; i++ {
		item := lv.items[i]

		if item.header {
			lines = append(lines, sectionHeaderStyle.Render(item.text))
			continue
		}

		// 2 for indent prefix
		text := item.text
		if maxWidth := width - 2; maxWidth > 0 {
			text = ansi.Truncate(text, maxWidth, "…")
		}

		line := item.style.Render(text)
		if i == lv.cursor {
			line = selectedItemStyle.Width(width - 2).Render(text)
		}
		lines = append(lines, "  "+line)
	}

	// Scroll indicators
	if lv.scrollOffset > 0 {
		lines = append([]string{dimStyle.Render("  ▲ more")}, lines...)
	}
	if end < len(lv.items) {
		lines = append(lines, dimStyle.Render("  ▼ more"))
	}

	return strings.Join(lines, "\n")
}
