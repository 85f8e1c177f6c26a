package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/voxley/voxley/internal/api"
	"github.com/voxley/voxley/internal/config"
	"github.com/voxley/voxley/internal/db"
	"github.com/voxley/voxley/internal/interview"
	"github.com/voxley/voxley/internal/progress"
	"github.com/voxley/voxley/internal/research"
	"github.com/voxley/voxley/internal/session"
)

var (
	interviewCompany string
	interviewSession string
	interviewMemory  bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a strategy interview in the terminal",
	Long: `Conducts the full strategy interview interactively in the terminal,
typing answers instead of speaking them. Type "quit" to pause; resume
later with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		opts := api.Options{
			CheckpointInterval: time.Duration(cfg.CheckpointSecs) * time.Second,
		}

		if interviewMemory {
			store := session.NewMemoryStore()
			opts.Store = store
			opts.Recovery = session.NewManager(store, 0)
		} else {
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return fmt.Errorf("creating data dir: %w", err)
			}
			database, err := db.Open(filepath.Join(cfg.DataDir, "voxley.db"))
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			store := session.NewStore(database)
			researchStore := research.NewStore(database)
			opts.Store = store
			opts.Recovery = session.NewManager(store, time.Duration(cfg.SessionTTLHours)*time.Hour)
			opts.Research = research.NewSource(researchStore)
			opts.Generator = researchGenerator(cfg)
			opts.Saver = researchStore
		}

		svc := api.NewService(opts)
		ctx := cmd.Context()

		var sessionID string
		var question interview.Question
		if interviewSession != "" {
			sessionID, question, err = svc.ResumeSession(ctx, interviewSession)
		} else {
			sessionID, question, err = svc.CreateSession(ctx, interviewCompany)
		}
		if err != nil {
			return err
		}
		defer svc.Pause(context.Background(), sessionID)

		fmt.Fprintf(os.Stderr, "Session %s\n\n", sessionID)

		reporter := progress.NewReporter()
		reporter.Start(interview.TotalArtifacts)
		defer reporter.Finish()

		return runTerminalLoop(ctx, svc, sessionID, question, reporter)
	},
}

func runTerminalLoop(ctx context.Context, svc *api.Service, sessionID string, question interview.Question, reporter progress.Reporter) error {
	for {
		fmt.Printf("\nInterviewer: %s\n", question.Text)

		prompt := promptui.Prompt{Label: "You"}
		answer, err := prompt.Run()
		if err != nil {
			// Ctrl-C or closed stdin pauses the session.
			fmt.Fprintln(os.Stderr, "\nPausing interview. Resume with --session", sessionID)
			return nil
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		if answer == "quit" || answer == "exit" {
			fmt.Fprintln(os.Stderr, "Pausing interview. Resume with --session", sessionID)
			return nil
		}

		result, err := svc.Submit(ctx, sessionID, answer)
		if err != nil {
			return fmt.Errorf("processing answer: %w", err)
		}

		p, err := svc.Progress(sessionID)
		if err != nil {
			return err
		}
		label := result.ArtifactID
		if artifact, aerr := interview.ArtifactByID(result.ArtifactID); aerr == nil {
			label = artifact.Name
		}
		reporter.Update(p.CompletedArtifacts, label)

		if result.Phase == interview.PhaseCompleted {
			fmt.Printf("\nInterviewer: %s\n", result.Question.Text)
			return nil
		}
		question = result.Question
	}
}

func init() {
	interviewCmd.Flags().StringVar(&interviewCompany, "company", "", "company website URL for pre-interview research")
	interviewCmd.Flags().StringVar(&interviewSession, "session", "", "resume an existing session by ID")
	interviewCmd.Flags().BoolVar(&interviewMemory, "memory", false, "keep the session in memory only")
	rootCmd.AddCommand(interviewCmd)
}
