package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay centers fg over a dimmed base view.
func (m model) renderOverlay(base, fg string) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	fgW, fgH := lipgloss.Width(fg), lipgloss.Height(fg)
	x := max(0, (termW-fgW)/2)
	y := max(0, (termH-fgH)/2)

	dimBase := lipgloss.NewStyle().Faint(true).Render(base)
	baseLayer := lipgloss.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipgloss.NewLayer(fg).
		Width(fgW).
		Height(fgH).
		X(x).
		Y(y)

	return lipgloss.NewCanvas(baseLayer, fgLayer).Render()
}
