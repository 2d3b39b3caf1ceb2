// Package listview holds the ticket list state machine: a reducer over
// State, the search debounce policy and the incremental load trigger.
// Nothing in here touches the network or a timer; the caller issues the
// returned Requests and feeds the results back as events.
package listview

import (
	"github.com/mithrel/ticketlist/internal/filter"
	"github.com/mithrel/ticketlist/pkg/api"
)

// Item is a loaded ticket plus its view-local flags.
type Item struct {
	Ticket   api.Ticket
	Pinned   bool
	Expanded bool
}

// Request is a fetch the caller must issue. Its Epoch and Page must be
// echoed back in the PageAppended or FetchFailed event.
type Request struct {
	Epoch  int
	Filter api.SearchFilter
	Page   int
}

// State is the list view state. The zero value is an unmounted list.
type State struct {
	Items  []Item
	Filter api.SearchFilter
	Raw    string

	// Page is the last page appended; 0 before the first page arrives.
	Page      int
	Loading   bool
	Exhausted bool
	// Err is the last retrieval failure for the current filter.
	Err error

	epoch   int
	pending *Request
	failed  *Request
}

// Mounted reports whether the list has issued its first request.
func (s State) Mounted() bool { return s.epoch > 0 }

// Epoch identifies the current filter generation.
func (s State) Epoch() int { return s.epoch }

// Pending returns the in-flight request, if any.
func (s State) Pending() (Request, bool) {
	if s.pending == nil {
		return Request{}, false
	}
	return *s.pending, true
}

// Lookup returns the loaded item with the given id.
func (s State) Lookup(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.Ticket.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// View derives the rendered list: items matching the current free text,
// pinned ones first, each group in load order.
func (s State) View() []Item {
	m, _ := filter.Compile(api.SearchFilter{FreeText: s.Filter.FreeText})
	pinned := make([]Item, 0, len(s.Items))
	rest := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if !m.Match(it.Ticket) {
			continue
		}
		if it.Pinned {
			pinned = append(pinned, it)
		} else {
			rest = append(rest, it)
		}
	}
	return append(pinned, rest...)
}
