package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxley/voxley/internal/api"
	"github.com/voxley/voxley/internal/config"
	"github.com/voxley/voxley/internal/db"
	"github.com/voxley/voxley/internal/research"
	"github.com/voxley/voxley/internal/server"
	"github.com/voxley/voxley/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview server",
	Long:  `Starts the voxley server with the REST API and the WebSocket voice endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "voxley.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := session.NewStore(database)
		manager := session.NewManager(store, time.Duration(cfg.SessionTTLHours)*time.Hour)
		researchStore := research.NewStore(database)

		svc := api.NewService(api.Options{
			Store:              store,
			Recovery:           manager,
			Research:           research.NewSource(researchStore),
			Generator:          researchGenerator(cfg),
			Saver:              researchStore,
			CheckpointInterval: time.Duration(cfg.CheckpointSecs) * time.Second,
		})

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, svc)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "voxley server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

// researchGenerator builds the analysis generator for the configured
// provider, or nil when research is disabled or the API key is absent.
func researchGenerator(cfg *config.Config) research.Generator {
	if cfg.ResearchProvider != config.ProviderOpenAI {
		return nil
	}
	key := os.Getenv(config.APIKeyEnvVar(cfg.ResearchProvider))
	if key == "" {
		fmt.Fprintf(os.Stderr, "Warning: %s not set, interviews will run without company research\n",
			config.APIKeyEnvVar(cfg.ResearchProvider))
		return nil
	}
	return research.NewOpenAIGenerator(key, cfg.ResearchModel)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
