package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/ticketlist/internal/util"
)

const completionLimit = 20

func newCompleteFromCmd() *cobra.Command {
	var dbURL string
	cmd := &cobra.Command{
		Use:   "complete-from [input]",
		Short: "Fuzzy-complete user emails for the from: search token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			store, err := getApp(cmd).Store(cmd.Context())
			if err != nil {
				return err
			}
			emails, err := store.Emails(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range util.CompleteFrom(input, emails, completionLimit) {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", "store url (override config db_url)")
	return cmd
}
