package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect discovery run history",
	Long:  "Commands for listing and viewing discovery runs and their checkpoints.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovery runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		checkpoints, err := st.ListCheckpoints(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		out := struct {
			Run         *model.Run         `json:"run"`
			Checkpoints []checkpointDigest `json:"checkpoints"`
		}{Run: run}
		for _, cp := range checkpoints {
			out.Checkpoints = append(out.Checkpoints, digestCheckpoint(cp))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// checkpointDigest is the checkpoint summary shown by runs show. The full
// payload can run to megabytes, so only the record counts are printed.
type checkpointDigest struct {
	Stage     string    `json:"stage"`
	Places    int       `json:"places,omitempty"`
	Groups    int       `json:"groups,omitempty"`
	Leads     int       `json:"leads,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func digestCheckpoint(cp model.Checkpoint) checkpointDigest {
	return checkpointDigest{
		Stage:     cp.Stage,
		Places:    len(cp.Payload.Places),
		Groups:    len(cp.Payload.Groups),
		Leads:     len(cp.Payload.Leads),
		CreatedAt: cp.CreatedAt,
	}
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tVERTICALS\tCOUNTRIES\tCITIES\tSTATUS\tCREATED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t---------\t---------\t------\t------\t-------\t--------")

	for _, r := range runs {
		dur := r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String()

		verticals := strings.Join(r.Params.Verticals, ",")
		if len(verticals) > 30 {
			verticals = verticals[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			truncateID(r.ID),
			verticals,
			strings.Join(r.Params.Countries, ","),
			r.Params.CitiesSearched,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
