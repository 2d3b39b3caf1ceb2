package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/ticketlist/pkg/api"
)

const createdLayout = "02/01/2006 15:04"

// TicketMarkdown renders a ticket as a markdown document.
func TicketMarkdown(t api.Ticket) string {
	labels := strings.Join(t.Labels, ", ")
	if labels == "" {
		labels = "-"
	}
	return fmt.Sprintf(`# %s

> **ID:** %s | **By:** %s | **Created:** %s
>
> **Labels:** %s

---

%s
`, t.Title, t.ID, t.UserEmail, t.Created().Format(createdLayout), labels, strings.TrimSpace(t.Content))
}

func newRenderer(width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r, nil
}

// WritePrettyTicket renders a single ticket with glamour, wrapped at width.
func WritePrettyTicket(w io.Writer, t api.Ticket, width int) error {
	r, err := newRenderer(width)
	if err != nil {
		return err
	}
	out, err := r.Render(TicketMarkdown(t))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// PrettyStreamWriter renders each ticket as its own glamour document.
type PrettyStreamWriter struct {
	w     io.Writer
	r     *glamour.TermRenderer
	count int
}

func NewPrettyStreamWriter(w io.Writer, width int) (*PrettyStreamWriter, error) {
	r, err := newRenderer(width)
	if err != nil {
		return nil, err
	}
	return &PrettyStreamWriter{w: w, r: r}, nil
}

func (pw *PrettyStreamWriter) WriteTickets(tickets []api.Ticket) error {
	for _, t := range tickets {
		out, err := pw.r.Render(TicketMarkdown(t))
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		if _, err := io.WriteString(pw.w, out); err != nil {
			return err
		}
		pw.count++
	}
	return nil
}

// Close writes the result count footer.
func (pw *PrettyStreamWriter) Close() error {
	_, err := fmt.Fprintf(pw.w, "Showing %d results\n", pw.count)
	return err
}
