// @title           Hoarding Dashboard BFF
// @version         1.0
// @description     Session, search and resource API in front of the hoarding management backend.
// @BasePath        /
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hoardly/dashboard/internal/infrastructure/config"
	"github.com/hoardly/dashboard/pkg/logger"
)

var (
	// Global flags
	jsonOut  bool
	logLevel string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Hoarding management dashboard",
	Long: `dashboard runs the hoarding management BFF and talks to the backend from
the terminal.

Examples:
  dashboard serve
  dashboard login --email owner@example.com
  dashboard search --interactive
  dashboard list hoardings --status available`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		opts := logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: "hoarding-dashboard",
		}
		// Only the server logs to stdout; CLI output stays clean.
		if cmd != serveCmd {
			opts.Output = os.Stderr
			if logLevel == "" {
				opts.Level = "warn"
			}
		}
		log = logger.Init(opts)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
