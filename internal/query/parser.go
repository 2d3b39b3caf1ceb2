// Package query parses the ticket search box syntax.
//
// A query is free text mixed with structured tokens:
//
//	printer after:01/02/2020 before:31/12/2020 from:bob@example.com
//
// Tokens may appear anywhere, including next to punctuation or inside a
// word. Keywords are case-sensitive. A date token takes exactly a
// DD/MM/YYYY value and stays in the free text when that is not a real
// calendar date; a from: token takes the run up to the next whitespace.
package query

import (
	"regexp"
	"strings"

	"github.com/mithrel/ticketlist/pkg/api"
)

const (
	keyAfter  = "after"
	keyBefore = "before"
	keyFrom   = "from"
)

var tokenRe = regexp.MustCompile(`(after|before):(\d{2}/\d{2}/\d{4})|(from):(\S+)`)

// Parse turns a raw search string into a SearchFilter. When a keyword is
// repeated the first valid occurrence wins; every valid occurrence is cut
// out of the free text exactly, then the remaining whitespace is collapsed.
func Parse(raw string) api.SearchFilter {
	var f api.SearchFilter
	matches := tokenRe.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		f.FreeText = collapse(raw)
		return f
	}

	var rest strings.Builder
	last := 0
	for _, m := range matches {
		// Groups 1-2 hold a date token, groups 3-4 a from: token.
		k, v := 2, 4
		if m[2] < 0 {
			k, v = 6, 8
		}
		if !accept(&f, raw[m[k]:m[k+1]], raw[m[v]:m[v+1]]) {
			continue
		}
		rest.WriteString(raw[last:m[0]])
		last = m[1]
	}
	rest.WriteString(raw[last:])
	f.FreeText = collapse(rest.String())
	return f
}

// accept records a token value on f and reports whether the token matched.
func accept(f *api.SearchFilter, key, val string) bool {
	switch key {
	case keyAfter:
		if _, ok := api.ParseDate(val); !ok {
			return false
		}
		if f.After == "" {
			f.After = val
		}
	case keyBefore:
		if _, ok := api.ParseDate(val); !ok {
			return false
		}
		if f.Before == "" {
			f.Before = val
		}
	case keyFrom:
		if f.From == "" {
			f.From = val
		}
	default:
		return false
	}
	return true
}

// Format renders a filter back into query syntax.
func Format(f api.SearchFilter) string {
	parts := make([]string, 0, 4)
	if t := collapse(f.FreeText); t != "" {
		parts = append(parts, t)
	}
	if f.After != "" {
		parts = append(parts, keyAfter+":"+f.After)
	}
	if f.Before != "" {
		parts = append(parts, keyBefore+":"+f.Before)
	}
	if f.From != "" {
		parts = append(parts, keyFrom+":"+f.From)
	}
	return strings.Join(parts, " ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
