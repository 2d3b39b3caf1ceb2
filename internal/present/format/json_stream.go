package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/ticketlist/pkg/api"
)

// JSONStreamWriter incrementally writes tickets as a JSON array.
type JSONStreamWriter struct {
	w        io.Writer
	indent   bool
	wroteAny bool
}

func NewJSONStreamWriter(w io.Writer, indent bool) *JSONStreamWriter {
	return &JSONStreamWriter{w: w, indent: indent}
}

// WriteTickets writes a batch of tickets.
func (jw *JSONStreamWriter) WriteTickets(tickets []api.Ticket) error {
	for _, t := range tickets {
		var (
			b   []byte
			err error
		)
		if jw.indent {
			b, err = json.MarshalIndent(t, "  ", "  ")
		} else {
			b, err = json.Marshal(t)
		}
		if err != nil {
			return err
		}
		sep := "["
		if jw.wroteAny {
			sep = ","
		}
		if jw.indent {
			sep += "\n  "
		}
		if _, err := io.WriteString(jw.w, sep); err != nil {
			return err
		}
		if _, err := jw.w.Write(b); err != nil {
			return err
		}
		jw.wroteAny = true
	}
	return nil
}

// Close finishes the JSON array.
func (jw *JSONStreamWriter) Close() error {
	switch {
	case !jw.wroteAny:
		_, err := io.WriteString(jw.w, "[]\n")
		return err
	case jw.indent:
		_, err := io.WriteString(jw.w, "\n]\n")
		return err
	default:
		_, err := io.WriteString(jw.w, "]\n")
		return err
	}
}
