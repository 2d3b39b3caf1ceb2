package tui

import (
	"strings"
	"unicode/utf8"
)

// truncate cuts s to at most w runes, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:w-1]) + "…"
}

// oneLine flattens newlines and tabs so a field fits in a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return "[" + strings.Join(labels, "] [") + "]"
}
