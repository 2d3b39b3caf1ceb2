// Package filter applies a SearchFilter to tickets and slices the result
// into pages. Both ticket stores and the list view use it, so the server
// and the client agree on what a query matches.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mithrel/ticketlist/pkg/api"
)

// ErrBadDate reports an after/before bound that is not DD/MM/YYYY.
var ErrBadDate = errors.New("bad date bound")

// Matcher is a compiled SearchFilter.
type Matcher struct {
	text      string // lower-cased free text, "" matches all
	from      string // lower-cased email, "" matches all
	after     time.Time
	before    time.Time
	hasAfter  bool
	hasBefore bool
}

// Compile prepares f for matching. An unparseable date bound is dropped
// and reported through the error; the returned Matcher is usable either way.
func Compile(f api.SearchFilter) (Matcher, error) {
	m := Matcher{
		text: strings.ToLower(strings.TrimSpace(f.FreeText)),
		from: strings.ToLower(strings.TrimSpace(f.From)),
	}
	var errs []error
	if f.After != "" {
		if t, ok := api.ParseDate(f.After); ok {
			m.after, m.hasAfter = t, true
		} else {
			errs = append(errs, fmt.Errorf("after %q: %w", f.After, ErrBadDate))
		}
	}
	if f.Before != "" {
		if t, ok := api.ParseDate(f.Before); ok {
			m.before, m.hasBefore = t, true
		} else {
			errs = append(errs, fmt.Errorf("before %q: %w", f.Before, ErrBadDate))
		}
	}
	return m, errors.Join(errs...)
}

// Match reports whether t satisfies every constraint of the matcher.
func (m Matcher) Match(t api.Ticket) bool {
	if !matchText(t, m.text) {
		return false
	}
	ms := t.CreationTime
	if m.hasAfter && !(ms > m.after.UnixMilli()) {
		return false
	}
	if m.hasBefore && !(ms < m.before.UnixMilli()) {
		return false
	}
	if m.from != "" && strings.ToLower(t.UserEmail) != m.from {
		return false
	}
	return true
}

// Apply returns the tickets matching m in input order. The result is never nil.
func (m Matcher) Apply(tickets []api.Ticket) []api.Ticket {
	out := make([]api.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if m.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Apply compiles f and filters tickets, ignoring unparseable date bounds.
func Apply(tickets []api.Ticket, f api.SearchFilter) []api.Ticket {
	m, _ := Compile(f)
	return m.Apply(tickets)
}

// MatchText reports whether text occurs, case-insensitively, in the
// concatenation of title and content. A match may span the two fields.
func MatchText(t api.Ticket, text string) bool {
	return matchText(t, strings.ToLower(strings.TrimSpace(text)))
}

func matchText(t api.Ticket, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title+t.Content), lowered)
}
