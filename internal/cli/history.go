package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved drawings",
	}

	cmd.AddCommand(newHistoryListCmd(opts))
	cmd.AddCommand(newHistoryDeleteCmd(opts))

	return cmd
}

func newHistoryListCmd(opts *options) *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent drawings, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st, err := opts.openStudio(cmd.Context())
			if err != nil {
				return err
			}

			records := st.History(limit)
			if all {
				records = st.Ledger().All()
			}
			if len(records) == 0 {
				printInfo(out, "No saved drawings")
				printDetail(out, "Directory: %s", st.Ledger().Dir())
				return nil
			}

			printTitle(out, fmt.Sprintf("Drawings (%d of %d)", len(records), st.Ledger().Len()))
			for i, rec := range records {
				printRecord(out, i, rec.Title, rec.Timestamp.Local().Format("2006-01-02 15:04"), rec.Filename)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of drawings to show (default from config)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show every saved drawing")
	return cmd
}

func newHistoryDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete INDEX",
		Short: "Delete a drawing by its index in history list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}

			st, err := opts.openStudio(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := st.DeleteFromHistory(i)
			if err != nil {
				return noticeError(err)
			}
			printSuccess(out, "Deleted %q", rec.Title)
			printFile(out, rec.Path)
			return nil
		},
	}
}
