package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/ticketlist/internal/listview"
	"github.com/mithrel/ticketlist/pkg/api"
)

// Fetcher retrieves one page of tickets.
type Fetcher interface {
	Fetch(ctx context.Context, f api.SearchFilter, page int) ([]api.Ticket, error)
}

// pageMsg conveys the outcome of a page fetch back to Update.
type pageMsg struct {
	req     listview.Request
	tickets []api.Ticket
	err     error
	dur     time.Duration
}

// debounceMsg fires when the search quiet window elapses.
type debounceMsg struct {
	token uint64
}

func fetchCmd(ctx context.Context, f Fetcher, req listview.Request) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		tickets, err := f.Fetch(ctx, req.Filter, req.Page)
		return pageMsg{req: req, tickets: tickets, err: err, dur: time.Since(start)}
	}
}

func debounceCmd(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}
