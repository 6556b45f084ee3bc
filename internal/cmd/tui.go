package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanpelt/catnip-tui/internal/api"
	"github.com/vanpelt/catnip-tui/internal/config"
	"github.com/vanpelt/catnip-tui/internal/logger"
	"github.com/vanpelt/catnip-tui/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive workspace browser",
	Long: `# 🖥️ TUI

Open the interactive workspace browser. This is also what running
**catnip-tui** without a subcommand does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.ConfigureFile(cfg.LogFile, logger.GetLogLevelFromEnv()); err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logger.Close()

	client := api.NewClient(cfg.ServerURL)
	app := tui.NewApp(client, cfg, version)
	return app.Run(context.Background())
}

func loadConfig(cmd *cobra.Command) (*config.RuntimeConfig, error) {
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		_ = os.Setenv("CATNIP_URL", url)
	}
	return config.Load()
}
