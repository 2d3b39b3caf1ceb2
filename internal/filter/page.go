package filter

import "github.com/mithrel/ticketlist/pkg/api"

// Page returns the 1-based page of size elements. Out-of-range pages,
// page < 1 and size <= 0 all yield an empty, non-nil slice.
func Page(tickets []api.Ticket, page, size int) []api.Ticket {
	if page < 1 || size <= 0 {
		return []api.Ticket{}
	}
	start := (page - 1) * size
	if start >= len(tickets) || start < 0 {
		return []api.Ticket{}
	}
	end := start + size
	if end > len(tickets) {
		end = len(tickets)
	}
	out := make([]api.Ticket, end-start)
	copy(out, tickets[start:end])
	return out
}
