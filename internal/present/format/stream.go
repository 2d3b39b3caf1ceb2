package format

import "github.com/mithrel/ticketlist/pkg/api"

// StreamWriter writes tickets batch by batch as pages arrive.
type StreamWriter interface {
	WriteTickets(tickets []api.Ticket) error
	Close() error
}

var (
	_ StreamWriter = (*JSONStreamWriter)(nil)
	_ StreamWriter = (*NDJSONStreamWriter)(nil)
	_ StreamWriter = (*PlainStreamWriter)(nil)
	_ StreamWriter = (*PrettyStreamWriter)(nil)
)
