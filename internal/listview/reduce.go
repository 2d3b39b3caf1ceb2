package listview

import (
	"github.com/mithrel/ticketlist/internal/query"
	"github.com/mithrel/ticketlist/pkg/api"
)

// Event is an input to Reduce.
type Event interface{ event() }

type (
	// Mounted starts the list with an empty filter.
	Mounted struct{}
	// SearchChanged carries a settled (already debounced) search string.
	SearchChanged struct{ Raw string }
	// NearEnd is emitted by the LoadTrigger when the end of the list is visible.
	NearEnd struct{}
	// PageAppended is a successful fetch result.
	PageAppended struct {
		Epoch   int
		Page    int
		Tickets []api.Ticket
	}
	// FetchFailed is a failed fetch.
	FetchFailed struct {
		Epoch int
		Page  int
		Err   error
	}
	PinToggled    struct{ ID string }
	ExpandToggled struct{ ID string }
	// Retry re-issues the last failed request.
	Retry struct{}
)

func (Mounted) event()       {}
func (SearchChanged) event() {}
func (NearEnd) event()       {}
func (PageAppended) event()  {}
func (FetchFailed) event()   {}
func (PinToggled) event()    {}
func (ExpandToggled) event() {}
func (Retry) event()         {}

// Reduce applies ev to s and returns the new state plus the fetch to issue,
// if any. s is not modified.
func Reduce(s State, ev Event) (State, *Request) {
	switch e := ev.(type) {
	case Mounted:
		return reset(s, "", api.SearchFilter{})
	case SearchChanged:
		f := query.Parse(e.Raw)
		if s.Mounted() && f == s.Filter && s.failed == nil {
			s.Raw = e.Raw
			return s, nil
		}
		return reset(s, e.Raw, f)
	case NearEnd:
		if !s.Mounted() || s.Loading || s.Exhausted || s.failed != nil {
			return s, nil
		}
		return issue(s, Request{Epoch: s.epoch, Filter: s.Filter, Page: s.Page + 1})
	case PageAppended:
		if !s.matchesPending(e.Epoch, e.Page) {
			return s, nil
		}
		s.Items = appendTickets(s.Items, e.Tickets)
		s.Page = e.Page
		s.Exhausted = len(e.Tickets) < api.PageSize
		s.Loading = false
		s.Err = nil
		s.pending = nil
		return s, nil
	case FetchFailed:
		if !s.matchesPending(e.Epoch, e.Page) {
			return s, nil
		}
		s.failed = s.pending
		s.pending = nil
		s.Loading = false
		s.Err = e.Err
		return s, nil
	case Retry:
		if s.failed == nil || s.Loading {
			return s, nil
		}
		req := *s.failed
		s.failed = nil
		s.Err = nil
		return issue(s, req)
	case PinToggled:
		s.Items = toggle(s.Items, e.ID, func(it *Item) { it.Pinned = !it.Pinned })
		return s, nil
	case ExpandToggled:
		s.Items = toggle(s.Items, e.ID, func(it *Item) { it.Expanded = !it.Expanded })
		return s, nil
	}
	return s, nil
}

func reset(s State, raw string, f api.SearchFilter) (State, *Request) {
	next := State{
		Items:  []Item{},
		Filter: f,
		Raw:    raw,
		epoch:  s.epoch + 1,
	}
	return issue(next, Request{Epoch: next.epoch, Filter: f, Page: 1})
}

func issue(s State, req Request) (State, *Request) {
	s.Loading = true
	s.pending = &req
	out := req
	return s, &out
}

func (s State) matchesPending(epoch, page int) bool {
	return s.pending != nil && s.pending.Epoch == epoch && s.pending.Page == page
}

// appendTickets adds tickets not already loaded with default flags.
func appendTickets(items []Item, tickets []api.Ticket) []Item {
	seen := make(map[string]struct{}, len(items)+len(tickets))
	out := make([]Item, 0, len(items)+len(tickets))
	for _, it := range items {
		seen[it.Ticket.ID] = struct{}{}
		out = append(out, it)
	}
	for _, t := range tickets {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, Item{Ticket: t})
	}
	return out
}

func toggle(items []Item, id string, flip func(*Item)) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Ticket.ID == id {
			flip(&out[i])
			break
		}
	}
	return out
}
