package format

import (
	"io"
	"text/tabwriter"

	"github.com/mithrel/ticketlist/pkg/api"
)

// PlainStreamWriter incrementally writes tickets in the plain TSV format.
// Column widths are computed per batch.
type PlainStreamWriter struct {
	tw          *tabwriter.Writer
	headers     bool
	wroteHeader bool
}

func NewPlainStreamWriter(w io.Writer, headers bool) *PlainStreamWriter {
	return &PlainStreamWriter{
		tw:      tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// WriteTickets writes a batch of tickets and flushes.
func (pw *PlainStreamWriter) WriteTickets(tickets []api.Ticket) error {
	if pw.headers && !pw.wroteHeader {
		_, _ = io.WriteString(pw.tw, headerLine)
		pw.wroteHeader = true
	}
	for _, t := range tickets {
		_, _ = io.WriteString(pw.tw, plainLine(t))
	}
	return pw.tw.Flush()
}

func (pw *PlainStreamWriter) Close() error {
	return pw.tw.Flush()
}
