package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/ticketlist/internal/present"
	"github.com/mithrel/ticketlist/internal/present/tui"
	"github.com/mithrel/ticketlist/internal/query"
)

func newListCmd() *cobra.Command {
	var outputMode, apiURL string
	var noHeaders, indent bool
	var maxPages int
	cmd := &cobra.Command{
		Use:   "list [query...]",
		Short: "Browse tickets matching a search query",
		Long: `Browse tickets matching a search query.

The query is free text mixed with structured tokens:

  after:DD/MM/YYYY   created strictly after the date (midnight UTC)
  before:DD/MM/YYYY  created strictly before the date
  from:EMAIL         reported by EMAIL (case-insensitive)

Without --output the interactive browser starts when stdout is a terminal.`,
		Example: `  ticketlist list printer after:01/02/2020 from:bob@example.com
  ticketlist list --output json --max-pages 2 vpn`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			raw := strings.Join(args, " ")

			if outputMode == "" {
				outputMode = "plain"
				if isTerminal(cmd.OutOrStdout()) {
					outputMode = "tui"
				}
			}
			mode, ok := present.ParseMode(strings.ToLower(outputMode))
			if !ok {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			opts := present.Options{
				Mode:       mode,
				JSONIndent: indent,
				Headers:    !noHeaders,
				TUI: tui.Options{
					Query:        raw,
					Debounce:     app.Cfg.GetDuration("tui.debounce"),
					PrefetchRows: app.Cfg.GetInt("tui.prefetch_rows"),
					Logger:       app.Log,
				},
			}
			if mode == present.ModeTUI {
				return present.Browse(cmd.Context(), app.Client(), opts)
			}

			f := query.Parse(raw)
			app.Log.Debug("list", "query", query.Format(f), "endpoint", app.Client().Endpoint())
			tickets, fetchErr := app.Client().FetchAll(cmd.Context(), f, maxPages)
			err := withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderTickets(w, tickets, opts)
			})
			if fetchErr != nil {
				return fetchErr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "", "output mode: tui|plain|pretty|json|ndjson (default tui on a terminal, plain otherwise)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"tui", "plain", "pretty", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = until exhausted)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent json output")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "retrieval endpoint (override config api.url)")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
