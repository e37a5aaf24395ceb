package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/labworks/tracker/internal/app"
	"github.com/labworks/tracker/internal/config"
	"github.com/labworks/tracker/internal/logger"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "labctl",
		Short:        "Admin tools for the lab goal tracker",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(AddUserCmd())
	rootCmd.AddCommand(DelUserCmd())
	rootCmd.AddCommand(FeedCmd())
	rootCmd.AddCommand(GoalCmd())
	return rootCmd
}

func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), "", cfg.AppEnv)
	return cfg
}

// openApp applies pending migrations and wires the services.
func openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, loadConfig())
}
