package tui

import (
	"bytes"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/ticketlist/internal/present/format"
	"github.com/mithrel/ticketlist/pkg/api"
)

// ticketModal is a foreground modal showing the full rendered ticket
// using Glamour inside a scrollable viewport.
type ticketModal struct {
	t       api.Ticket
	vp      viewport.Model
	width   int
	height  int
	padX    int
	padY    int
	box     lipglossv2.Style
	content string
}

func newTicketModal(t api.Ticket, termW, termH int) *ticketModal {
	m := &ticketModal{t: t, padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *ticketModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	// 60% width, or nearly full width if terminal is small (<80 cols)
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.7)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	innerH := max(5, h-2-m.padY*2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.render(innerW)
}

// render wraps the ticket markdown to the inner width of the box.
func (m *ticketModal) render(width int) {
	var buf bytes.Buffer
	if err := format.WritePrettyTicket(&buf, m.t, width); err != nil {
		m.content = format.TicketMarkdown(m.t)
	} else {
		m.content = buf.String()
	}
	m.vp.SetContent(m.content)
}

func (m *ticketModal) update(msg tea.Msg) (*ticketModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *ticketModal) View() string { return m.box.Render(m.vp.View()) }
