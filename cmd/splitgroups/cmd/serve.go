package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitgroups/internal/config"
	"github.com/mmynk/splitgroups/internal/server"
	"github.com/mmynk/splitgroups/internal/storage"
	"github.com/mmynk/splitgroups/internal/storage/memory"
	"github.com/mmynk/splitgroups/pkg/logging"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Long: `Run the group and expense APIs over Connect RPC (HTTP/1.1 and h2c).

Settings come from defaults, the --config file, SPLITGROUPS_* environment
variables (a .env file is loaded if present) and flags, in increasing
priority. Data is kept in memory only.

Examples:
  splitgroups serve                 # port 8080 with demo data
  splitgroups serve --port 9090 --seed=false`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().Int("port", 8080, "Port to listen on")
	c.Flags().Bool("seed", true, "Load the demo groups and expenses at startup")
	return c
}

// loadServeConfig resolves the configuration for the serve command.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	loader := config.NewLoader()
	bindings := map[string]string{
		"server.port":    "port",
		"seed_demo_data": "seed",
		"log.level":      "log-level",
	}
	for key, flag := range bindings {
		if err := loader.BindFlag(key, cmd.Flag(flag)); err != nil {
			return nil, err
		}
	}

	path, _ := cmd.Flags().GetString("config")
	return loader.Load(path)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	logging.SetupWith(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := memory.New()
	defer store.Close()
	if cfg.SeedDemoData {
		if err := storage.SeedDemo(ctx, store); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		slog.Info("Demo data loaded")
	}

	slog.Info("Storage initialized", "backend", "memory", "metrics", cfg.Metrics.Enabled)
	return server.New(cfg, store).ListenAndServe(ctx)
}
