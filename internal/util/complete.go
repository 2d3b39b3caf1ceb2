package util

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

const fromPrefix = "from:"

// CompleteFrom returns up to n emails fuzzily matching input, best first.
// Input may carry the from: token prefix; it is kept on the results so the
// completion can replace the whole word. An empty pattern returns the
// candidates in their given order. n <= 0 means no limit.
func CompleteFrom(input string, emails []string, n int) []string {
	prefix := ""
	pattern := input
	if strings.HasPrefix(input, fromPrefix) {
		prefix, pattern = fromPrefix, input[len(fromPrefix):]
	}

	var out []string
	if pattern == "" {
		out = append(out, emails...)
	} else {
		for _, m := range fuzzy.Find(strings.ToLower(pattern), emails) {
			out = append(out, m.Str)
		}
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	for i := range out {
		out[i] = prefix + out[i]
	}
	return out
}
