package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/codementor/internal/core/config"
)

var (
	cfgPath   string
	isDebug   bool
	serverURL string

	appCfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "codementor",
	Short: "CodeMentor AI service and client",
	Long: `CodeMentor serves the learning API (auth, learning plans, AI explanations)
and talks to it from the command line, falling back to demo content when
the backend cannot be reached.`,
	PersistentPreRunE: initConfig,
	Run:               runServe,
	SilenceUsage:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL for client commands (overrides client.base_url)")
}

func initConfig(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	// A missing file is fine for client commands; defaults apply.
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		return err
	}
	if serverURL != "" {
		cfg.Client.BaseURL = serverURL
	}

	setupLogging(cfg.Logging, isDebug)
	appCfg = cfg
	return nil
}
