package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sofmeright/packcfg/src/config"
	"github.com/sofmeright/packcfg/src/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate one or more build declarations",
	Long: `Resolve every given declaration and report which ones are invalid.

Files are checked concurrently. Warnings do not fail the command; any
file that does not resolve does.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{configPath(nil)}
	}

	start := time.Now()
	results := make([]output.FileStatus, len(paths))
	warnings := make([][]string, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			t0 := time.Now()
			results[i] = output.FileStatus{Path: p}

			_, cfg, err := loadConfig(p, "")
			if err != nil {
				results[i].Err = err
				results[i].Elapsed = time.Since(t0)
				return nil
			}

			warnings[i] = config.Lint(cfg)
			results[i].Warnings = len(warnings[i])
			results[i].Elapsed = time.Since(t0)
			return nil
		})
	}
	_ = g.Wait()

	for i, ws := range warnings {
		for _, w := range ws {
			log.Warn().Str("file", paths[i]).Msg(w)
		}
	}

	if !output.ValidationSummary(cmd.OutOrStdout(), results, time.Since(start), output.UseColor()) {
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		return fmt.Errorf("%d of %d config(s) invalid", failed, len(results))
	}
	return nil
}
