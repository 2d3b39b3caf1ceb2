package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/ticketlist/pkg/api"
)

// WriteNDJSONTickets writes tickets as newline-delimited JSON objects.
func WriteNDJSONTickets(w io.Writer, tickets []api.Ticket) error {
	enc := json.NewEncoder(w)
	for _, t := range tickets {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}
