package api

import (
	"strings"
	"time"
)

// PageSize is the fixed number of tickets per page. The store enforces it;
// clients infer exhaustion from a shorter page.
const PageSize = 20

// DateLayout is the wire format of the after/before bounds (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Ticket is the authoritative ticket record as served by the store.
type Ticket struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	CreationTime int64    `json:"creationTime"` // epoch millis
	UserEmail    string   `json:"userEmail"`
	Labels       []string `json:"labels,omitempty"`
}

// Created returns CreationTime as a time.Time in UTC.
func (t Ticket) Created() time.Time {
	return time.UnixMilli(t.CreationTime).UTC()
}

// SearchFilter is a parsed search query. After and Before carry the literal
// DD/MM/YYYY text; empty means unset.
type SearchFilter struct {
	FreeText string `json:"search"`
	After    string `json:"after"`
	Before   string `json:"before"`
	From     string `json:"from"`
}

// IsZero reports whether the filter matches everything.
func (f SearchFilter) IsZero() bool {
	return strings.TrimSpace(f.FreeText) == "" && f.After == "" && f.Before == "" && f.From == ""
}

// PageRequest addresses one 1-based page of a filtered result set.
type PageRequest struct {
	Filter SearchFilter
	Page   int
}

// ParseDate parses a DD/MM/YYYY bound as midnight UTC. Both the query parser
// and the store use it so the two ends agree on the wire contract.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
