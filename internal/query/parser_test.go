package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mithrel/ticketlist/pkg/api"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want api.SearchFilter
	}{
		{"empty", "", api.SearchFilter{}},
		{"free text only", "  printer   jam ", api.SearchFilter{FreeText: "printer jam"}},
		{"from in the middle", "hello from:bob@x.com world", api.SearchFilter{FreeText: "hello world", From: "bob@x.com"}},
		{"all tokens", "after:01/02/2020 login before:31/12/2020 from:a@b.c fails",
			api.SearchFilter{FreeText: "login fails", After: "01/02/2020", Before: "31/12/2020", From: "a@b.c"}},
		{"malformed date stays free text", "after:2020-01-01 crash", api.SearchFilter{FreeText: "after:2020-01-01 crash"}},
		{"impossible date stays free text", "before:31/02/2020", api.SearchFilter{FreeText: "before:31/02/2020"}},
		{"keyword is case-sensitive", "After:01/02/2020", api.SearchFilter{FreeText: "After:01/02/2020"}},
		{"token inside a word", "xfrom:bob", api.SearchFilter{FreeText: "x", From: "bob"}},
		{"date followed by punctuation", "a after:01/02/2020, b", api.SearchFilter{FreeText: "a , b", After: "01/02/2020"}},
		{"date preceded by punctuation", "x,before:31/12/2020", api.SearchFilter{FreeText: "x,", Before: "31/12/2020"}},
		{"from keeps the whole run", "(from:bob@x.com)", api.SearchFilter{FreeText: "(", From: "bob@x.com)"}},
		{"date glued to invalid repeat", "after:01/02/2020after:bad", api.SearchFilter{FreeText: "after:bad", After: "01/02/2020"}},
		{"token glued between words", "fooafter:01/02/2020bar", api.SearchFilter{FreeText: "foobar", After: "01/02/2020"}},
		{"invalid glued repeat before valid one", "x:after:31/02/2020;after:01/03/2020!",
			api.SearchFilter{FreeText: "x:after:31/02/2020;!", After: "01/03/2020"}},
		{"empty value is not a token", "from: bob", api.SearchFilter{FreeText: "from: bob"}},
		{"first repeated token wins", "after:01/01/2020 a after:02/02/2021 b",
			api.SearchFilter{FreeText: "a b", After: "01/01/2020"}},
		{"invalid repeat does not shadow valid one", "after:bad after:03/03/2022",
			api.SearchFilter{FreeText: "after:bad", After: "03/03/2022"}},
		{"tabs and newlines separate tokens", "a\tfrom:x@y.z\nb", api.SearchFilter{FreeText: "a b", From: "x@y.z"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Parse(tc.in))
		})
	}
}

func TestParseRemovesExactAfterToken(t *testing.T) {
	dates := []string{"01/01/2000", "29/02/2024", "31/12/1999", "15/06/2019"}
	prefixes := []string{"", "foo ", "foo bar ", "x  ", "(", "a,", "word"}
	suffixes := []string{"", " baz", "  qux quux", ")", ", next", "tail"}
	for _, d := range dates {
		for _, p := range prefixes {
			for _, s := range suffixes {
				raw := p + "after:" + d + s
				got := Parse(raw)
				require.Equal(t, d, got.After, raw)
				require.NotContains(t, got.FreeText, "after:", raw)
				// The exact matched span is removed and nothing else.
				want := strings.Join(strings.Fields(p+s), " ")
				require.Equal(t, want, got.FreeText, raw)
			}
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	f := api.SearchFilter{FreeText: "disk full", After: "01/01/2021", From: "ops@example.com"}
	require.Equal(t, "disk full after:01/01/2021 from:ops@example.com", Format(f))
	require.Equal(t, f, Parse(Format(f)))
	require.Equal(t, "", Format(api.SearchFilter{}))
}
