package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/packcfg/src/config"
	"github.com/sofmeright/packcfg/src/output"
)

var (
	resolveMode   string
	resolveFormat string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Print the resolved build config",
	Long: `Load a declaration, apply defaults and print the resolved config.

Formats:
  text   framed summary (default)
  yaml   re-encoded declaration with absolute output path
  json   same as yaml, as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveMode, "mode", "", "override mode (development or production)")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "text", "output format: text, yaml or json")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := configPath(args)
	_, cfg, err := loadConfig(path, resolveMode)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch resolveFormat {
	case "text":
		output.ConfigSection(w, path, cfg, config.Lint(cfg), output.UseColor())
	case "yaml":
		data, err := yaml.Marshal(config.Encode(cfg))
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		fmt.Fprint(w, string(data))
	case "json":
		data, err := json.MarshalIndent(config.Encode(cfg), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default:
		return fmt.Errorf("unknown format %q (supported: text, yaml, json)", resolveFormat)
	}
	return nil
}
