package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voxley/voxley/internal/config"
	"github.com/voxley/voxley/internal/db"
	"github.com/voxley/voxley/internal/interview"
	"github.com/voxley/voxley/internal/report"
	"github.com/voxley/voxley/internal/session"
)

var (
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Generate the assessment report for a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		exitOnError(err)

		database, err := db.Open(filepath.Join(cfg.DataDir, "voxley.db"))
		exitOnError(err)
		defer database.Close()

		store := session.NewStore(database)
		state, err := store.Get(context.Background(), args[0])
		exitOnError(err)
		if state == nil {
			exitOnError(fmt.Errorf("session %s not found", args[0]))
		}

		progress := progressFromState(state)
		gen := report.NewGenerator()

		var out string
		if reportFormat == "html" {
			out, err = gen.HTML(state, progress)
			exitOnError(err)
		} else {
			out = gen.Markdown(state, progress)
		}

		if reportOut == "" {
			fmt.Print(out)
			return
		}
		exitOnError(os.WriteFile(reportOut, []byte(out), 0o644))
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportOut)
	},
}

// progressFromState recomputes the aggregate counts for a persisted
// session without reactivating it.
func progressFromState(state *interview.SessionState) interview.Progress {
	var completed, inProgress int
	for _, step := range state.StepData {
		for _, ap := range step.Artifacts {
			switch ap.Status {
			case interview.StatusCompleted:
				completed++
			case interview.StatusInProgress:
				inProgress++
			}
		}
	}
	pct := int(math.Round(float64(completed*100+inProgress*50) / float64(interview.TotalArtifacts)))
	return interview.Progress{
		CompletedArtifacts:  completed,
		InProgressArtifacts: inProgress,
		TotalArtifacts:      interview.TotalArtifacts,
		ProgressPercentage:  pct,
		CurrentPhase:        string(state.Phase),
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "markdown", "output format: markdown or html")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
