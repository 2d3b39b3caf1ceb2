package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/ticketlist/pkg/api"
)

// WriteJSONTickets writes tickets as one JSON array. A nil slice is
// written as [].
func WriteJSONTickets(w io.Writer, tickets []api.Ticket, indent bool) error {
	if tickets == nil {
		tickets = []api.Ticket{}
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(tickets)
}

func WriteJSONTicket(w io.Writer, t api.Ticket, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(t)
}
