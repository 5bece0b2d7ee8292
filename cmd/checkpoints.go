package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Manage saved run checkpoints",
}

// -- checkpoints list --

var checkpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs with their latest checkpoint stage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.RunFilter{})
		if err != nil {
			return eris.Wrap(err, "checkpoints list")
		}

		type entry struct {
			run model.Run
			cp  *model.Checkpoint
		}
		var entries []entry
		for _, r := range runs {
			cp, err := st.LatestCheckpoint(ctx, r.ID)
			if err != nil {
				return eris.Wrap(err, "checkpoints list")
			}
			if cp == nil {
				continue
			}
			entries = append(entries, entry{run: r, cp: cp})
		}

		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No checkpoints found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "RUN\tSTATUS\tLAST_STAGE\tPLACES\tGROUPS\tLEADS\tSAVED")
		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				truncateID(e.run.ID),
				e.run.Status,
				e.cp.Stage,
				len(e.cp.Payload.Places),
				len(e.cp.Payload.Groups),
				len(e.cp.Payload.Leads),
				e.cp.CreatedAt.Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

// -- checkpoints delete --

var checkpointsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and all of its checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteRun(ctx, args[0]); err != nil {
			return eris.Wrap(err, "checkpoints delete")
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

func init() {
	checkpointsCmd.AddCommand(checkpointsListCmd)
	checkpointsCmd.AddCommand(checkpointsDeleteCmd)
	rootCmd.AddCommand(checkpointsCmd)
}
