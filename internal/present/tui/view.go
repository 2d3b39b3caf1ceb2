package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/ticketlist/internal/listview"
)

const maxExpandedLines = 8

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// chrome is the number of rows taken by the search box, status line and help.
const chrome = 3

func (m model) termWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m model) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(1, m.height-chrome)
}

// itemLines renders one ticket: a summary row plus its content when expanded.
func (m model) itemLines(it listview.Item, selected bool) []string {
	w := m.termWidth()
	pin := "  "
	if it.Pinned {
		pin = "★ "
	}
	fold := "▸ "
	if it.Expanded {
		fold = "▾ "
	}
	meta := it.Ticket.UserEmail + "  " + it.Ticket.Created().Format("02/01/2006 15:04")
	title := oneLine(it.Ticket.Title)
	labels := joinLabels(it.Ticket.Labels)

	room := w - len([]rune(pin+fold)) - len([]rune(meta)) - 2
	if labels != "" {
		room -= len([]rune(labels)) + 1
	}
	title = truncate(title, max(8, room))
	row := pin + fold + title
	if labels != "" {
		row += " " + labelStyle.Render(labels)
	}
	gap := max(2, w-lipgloss.Width(row)-len([]rune(meta)))
	row += strings.Repeat(" ", gap) + dimStyle.Render(meta)
	if selected {
		row = selectedStyle.Render(row)
	}
	lines := []string{row}
	if !it.Expanded {
		return lines
	}

	body := lipgloss.NewStyle().Width(max(10, w-4)).Render(strings.TrimSpace(it.Ticket.Content))
	content := strings.Split(body, "\n")
	if len(content) > maxExpandedLines {
		content = append(content[:maxExpandedLines-1], "…")
	}
	for _, l := range content {
		lines = append(lines, "    "+l)
	}
	return lines
}

func (m model) itemHeight(it listview.Item) int {
	if !it.Expanded {
		return 1
	}
	return len(m.itemLines(it, false))
}

// clampScroll keeps the cursor inside the view and the window around it.
func (m *model) clampScroll() {
	view := m.state.View()
	if len(view) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor, 0), len(view)-1)
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	h := m.listHeight()
	for m.offset < m.cursor {
		used := 0
		for i := m.offset; i <= m.cursor; i++ {
			used += m.itemHeight(view[i])
		}
		if used <= h {
			break
		}
		m.offset++
	}
}

// lastVisible returns the index of the last item starting inside the window.
func (m model) lastVisible(view []listview.Item) int {
	h := m.listHeight()
	used := 0
	last := m.offset
	for i := m.offset; i < len(view); i++ {
		if used >= h {
			break
		}
		last = i
		used += m.itemHeight(view[i])
	}
	return last
}

// sentinelVisible reports whether the end of the list is within the
// prefetch distance of the rendered window.
func (m model) sentinelVisible() bool {
	view := m.state.View()
	if len(view) == 0 {
		return true
	}
	return len(view)-1-m.lastVisible(view) <= m.prefetch
}

func (m model) statusLine(count int) string {
	parts := []string{fmt.Sprintf("Showing %d results", count)}
	if m.state.Loading {
		parts = append(parts, m.spin.View()+" Loading..")
	}
	if m.state.Err != nil {
		parts = append(parts, errStyle.Render("error: "+m.state.Err.Error()+" (r to retry)"))
	} else if m.state.Exhausted && count > 0 {
		parts = append(parts, dimStyle.Render("end of results"))
	}
	if m.lastDuration > 0 {
		parts = append(parts, dimStyle.Render(m.lastDuration.Round(time.Millisecond).String()))
	}
	return strings.Join(parts, " • ")
}

func (m model) View() string {
	view := m.state.View()
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteByte('\n')
	b.WriteString(m.statusLine(len(view)))
	b.WriteByte('\n')

	h := m.listHeight()
	rows := 0
	for i := m.offset; i < len(view) && rows < h; i++ {
		for _, l := range m.itemLines(view[i], i == m.cursor) {
			if rows >= h {
				break
			}
			b.WriteString(l)
			b.WriteByte('\n')
			rows++
		}
	}
	if len(view) == 0 && !m.state.Loading {
		b.WriteString(dimStyle.Render("(no tickets)"))
		b.WriteByte('\n')
		rows++
	}
	for ; rows < h && m.height > 0; rows++ {
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))

	base := b.String()
	if m.detail != nil {
		return m.renderOverlay(base, m.detail.View())
	}
	return base
}
