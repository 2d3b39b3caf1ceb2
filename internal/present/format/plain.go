package format

import (
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/ticketlist/pkg/api"
)

// TSV columns: id, title, user_email, created_unix_ms, labels
var headerLine = "id\ttitle\tuser_email\tcreated_unix_ms\tlabels\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// JoinLabels joins labels with commas, no spaces.
func JoinLabels(labels []string) string {
	return strings.Join(labels, ",")
}

func plainLine(t api.Ticket) string {
	return esc(t.ID) + "\t" + esc(t.Title) + "\t" + esc(t.UserEmail) + "\t" +
		strconv.FormatInt(t.CreationTime, 10) + "\t" + esc(JoinLabels(t.Labels)) + "\n"
}

func WritePlainTickets(w io.Writer, tickets []api.Ticket, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, t := range tickets {
		_, _ = io.WriteString(tw, plainLine(t))
	}
	return tw.Flush()
}
