package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/ticketlist/pkg/api"
)

// NDJSONStreamWriter incrementally writes tickets as NDJSON.
type NDJSONStreamWriter struct {
	enc *json.Encoder
}

func NewNDJSONStreamWriter(w io.Writer) *NDJSONStreamWriter {
	return &NDJSONStreamWriter{enc: json.NewEncoder(w)}
}

func (nw *NDJSONStreamWriter) WriteTickets(tickets []api.Ticket) error {
	for _, t := range tickets {
		if err := nw.enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for NDJSON output.
func (nw *NDJSONStreamWriter) Close() error { return nil }
