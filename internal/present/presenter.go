package present

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mithrel/ticketlist/internal/present/format"
	"github.com/mithrel/ticketlist/internal/present/tui"
	"github.com/mithrel/ticketlist/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

// ErrTUIStream is returned when a stream writer is requested for the TUI.
var ErrTUIStream = errors.New("tui mode has no stream writer")

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Width wraps pretty output; 0 means 80 columns.
	Width int
	TUI   tui.Options
}

// ParseMode parses "plain", "pretty", "json", "ndjson" or "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModeTUI, false
	}
}

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModePretty:
		return "pretty"
	case ModeJSON:
		return "json"
	case ModeNDJSON:
		return "ndjson"
	default:
		return "tui"
	}
}

// NewStreamWriter returns the batch writer for a non-interactive mode.
func NewStreamWriter(w io.Writer, opts Options) (format.StreamWriter, error) {
	switch opts.Mode {
	case ModeJSON:
		return format.NewJSONStreamWriter(w, opts.JSONIndent), nil
	case ModeNDJSON:
		return format.NewNDJSONStreamWriter(w), nil
	case ModePlain:
		return format.NewPlainStreamWriter(w, opts.Headers), nil
	case ModePretty:
		return format.NewPrettyStreamWriter(w, opts.Width)
	case ModeTUI:
		return nil, ErrTUIStream
	default:
		return nil, fmt.Errorf("unknown output mode %d", opts.Mode)
	}
}

// RenderTickets writes an already fetched result set.
func RenderTickets(w io.Writer, tickets []api.Ticket, opts Options) error {
	sw, err := NewStreamWriter(w, opts)
	if err != nil {
		return err
	}
	if err := sw.WriteTickets(tickets); err != nil {
		return err
	}
	return sw.Close()
}

// Browse runs the interactive list against fetcher.
func Browse(ctx context.Context, fetcher tui.Fetcher, opts Options) error {
	return tui.Run(ctx, fetcher, opts.TUI)
}
