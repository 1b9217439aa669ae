package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sofmeright/packcfg/src/config"
)

var (
	normalizeInPlace     bool
	normalizeOutput      string
	normalizeMigrateOnly bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Rewrite a declaration in canonical form",
	Long: `Rewrite a declaration in canonical, fully-defaulted form.

The declaration is resolved (extends merged, defaults applied, version
stamped) and written back in the same format it was read in. By default
the result goes to stdout. Use --in-place to overwrite the file, or
--output to write to a different path; relative paths in the result are
then rewritten against the output file's directory.

--migrate-only upgrades the schema version of a YAML declaration without
touching anything else, keeping comments and key order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().BoolVarP(&normalizeInPlace, "in-place", "i", false, "overwrite the config file in place")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "write the result to this path")
	normalizeCmd.Flags().BoolVar(&normalizeMigrateOnly, "migrate-only", false, "only migrate the schema version (YAML only)")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	inputPath := configPath(args)

	var (
		data []byte
		err  error
	)
	if normalizeMigrateOnly {
		data, err = migrateFile(inputPath)
	} else {
		data, err = normalizeFile(inputPath)
	}
	if err != nil {
		return err
	}

	switch {
	case normalizeInPlace:
		if err := os.WriteFile(inputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", inputPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "  normalized %s (in-place)\n", inputPath)

	case normalizeOutput != "":
		if err := os.WriteFile(normalizeOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", normalizeOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "  normalized %s → %s\n", inputPath, normalizeOutput)

	default:
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	}
	return nil
}

func migrateFile(path string) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
	default:
		return nil, fmt.Errorf("--migrate-only supports YAML declarations only, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return config.MigrateToLatest(data)
}

func normalizeFile(path string) ([]byte, error) {
	doc, cfg, err := loadConfig(path, "")
	if err != nil {
		return nil, err
	}

	target := doc.Dir
	if normalizeOutput != "" && !normalizeInPlace {
		abs, err := filepath.Abs(normalizeOutput)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", normalizeOutput, err)
		}
		target = filepath.Dir(abs)
	}

	d := config.Relocate(config.Encode(cfg), doc.Dir, target)
	d.Requires = doc.Declaration.Requires

	data, err := config.Marshal(d, filepath.Ext(doc.Path))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return data, nil
}
