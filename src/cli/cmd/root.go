package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sofmeright/packcfg/src/logger"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool
	settings  Settings
)

var rootCmd = &cobra.Command{
	Use:   "packcfg",
	Short: "Bundler build config resolver",
	Long:  "packcfg — validate, normalize and hand off bundler build declarations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = loadSettings()
		if err != nil {
			return err
		}
		if cfgFile != "" {
			settings.Config = cfgFile
		}
		if logLevel != "" {
			settings.LogLevel = logLevel
		}
		if verbose {
			settings.LogLevel = "debug"
		}
		if logFormat != "" {
			settings.LogFormat = logFormat
		}

		l, err := logger.Setup(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
		if err != nil {
			return err
		}
		log.Logger = l
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: packcfg.yml, env PACKCFG_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (env PACKCFG_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (default: console on a terminal, json otherwise; env PACKCFG_LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command. SIGINT cancels in-flight builds.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
