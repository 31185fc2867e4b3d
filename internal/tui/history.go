package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// HistoryViewer shows the message history of one session.
type HistoryViewer struct {
	session  *models.Session
	messages []models.Message
	viewport viewport.Model
	width    int
	height   int
}

// NewHistoryViewer creates an empty history viewer.
func NewHistoryViewer() *HistoryViewer {
	return &HistoryViewer{
		viewport: viewport.New(80, 24),
	}
}

// SetSize updates dimensions and re-wraps the content.
func (h *HistoryViewer) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.viewport.Width = width
	h.viewport.Height = h.viewportHeight()
	if h.session != nil {
		h.viewport.SetContent(renderMessages(h.messages, width))
	}
}

// SetHistory shows the given session's messages, scrolled to the newest.
func (h *HistoryViewer) SetHistory(session models.Session, messages []models.Message) {
	reload := h.session != nil && h.session.Key == session.Key
	h.session = &session
	h.messages = messages
	h.viewport.Height = h.viewportHeight()
	h.viewport.SetContent(renderMessages(messages, h.width))
	if !reload {
		h.viewport.GotoBottom()
	}
}

// SessionKey returns the key of the session on display, or "".
func (h *HistoryViewer) SessionKey() string {
	if h.session == nil {
		return ""
	}
	return h.session.Key
}

// Close clears the viewer.
func (h *HistoryViewer) Close() {
	h.session = nil
	h.messages = nil
	h.viewport.SetContent("")
}

// ScrollUp scrolls one line up.
func (h *HistoryViewer) ScrollUp() {
	h.viewport.LineUp(1)
}

// ScrollDown scrolls one line down.
func (h *HistoryViewer) ScrollDown() {
	h.viewport.LineDown(1)
}

// PageUp scrolls half a page up.
func (h *HistoryViewer) PageUp() {
	h.viewport.HalfViewUp()
}

// PageDown scrolls half a page down.
func (h *HistoryViewer) PageDown() {
	h.viewport.HalfViewDown()
}

// infoLines is the header height above the viewport.
const infoLines = 3

func (h *HistoryViewer) viewportHeight() int {
	if h.height-infoLines < 1 {
		return 1
	}
	return h.height - infoLines
}

// View renders the viewer.
func (h *HistoryViewer) View() string {
	if h.session == nil {
		return lipgloss.NewStyle().Foreground(colorDim).Width(h.width).Align(lipgloss.Center).
			Render("\nSelect a session and press Enter to view its history.")
	}

	title := fmt.Sprintf("%s %s", kindIcon(h.session.Kind), h.session.Key)
	headerLine := lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render(title)
	countLine := dimStyle.Render(fmt.Sprintf("%d messages · Esc to go back · PgUp/PgDn to scroll", len(h.messages)))
	rule := dimStyle.Render(strings.Repeat("─", max(h.width, 1)))

	return headerLine + "\n" + countLine + "\n" + rule + "\n" + h.viewport.View()
}

// renderMessages lays out messages for the viewport, wrapping content to
// width and capping each at dashboard.ContentLimit runes.
func renderMessages(messages []models.Message, width int) string {
	if len(messages) == 0 {
		return dimStyle.Render("No messages in this session.")
	}

	body := lipgloss.NewStyle()
	if width > 2 {
		body = body.Width(width - 2)
	}

	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		head := roleStyle(m.Role).Render(roleLabel(m.Role)) + "  " +
			dimStyle.Render(dashboard.FormatClock(m.Timestamp))
		content := body.Render(dashboard.Truncate(m.Content, dashboard.ContentLimit))
		blocks = append(blocks, head+"\n"+indent(content, "  "))
	}
	return strings.Join(blocks, "\n\n")
}

func roleStyle(role models.MessageRole) lipgloss.Style {
	switch role {
	case models.RoleUser:
		return roleUserStyle
	case models.RoleAssistant:
		return roleAssistantStyle
	default:
		return roleOtherStyle
	}
}

func roleLabel(role models.MessageRole) string {
	switch role {
	case models.RoleUser:
		return "You"
	case models.RoleAssistant:
		return "Agent"
	case "":
		return "Other"
	default:
		return capitalizeFirst(string(role))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
