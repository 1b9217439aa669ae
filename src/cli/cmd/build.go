package cmd

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sofmeright/packcfg/src/config"
	"github.com/sofmeright/packcfg/src/engine"
	"github.com/sofmeright/packcfg/src/output"
)

var (
	buildMode   string
	buildEngine string
	buildDryRun bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Resolve a declaration and run it through a bundler engine",
	Long: `Resolve a declaration and hand it to a bundler engine.

Engines:
  esbuild    bundle in-process with esbuild (default)
  manifest   write packcfg.manifest.json for an external bundler`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildMode, "mode", "", "override mode (development or production)")
	buildCmd.Flags().StringVar(&buildEngine, "engine", "", "bundler engine (env PACKCFG_ENGINE, default esbuild)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "plan only, do not execute")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	name := settings.Engine
	if buildEngine != "" {
		name = buildEngine
	}

	path := configPath(args)
	doc, cfg, err := loadConfig(path, buildMode)
	if err != nil {
		return err
	}
	for _, w := range config.Lint(cfg) {
		log.Warn().Str("file", path).Msg(w)
	}

	w := cmd.OutOrStdout()
	color := output.UseColor()
	opts := engine.Options{WorkDir: doc.Dir}

	if buildDryRun {
		return printPlan(cmd, name, cfg, opts, color)
	}

	log.Info().Str("engine", name).Str("entry", cfg.EntryPath).Str("mode", string(cfg.Mode)).Msg("building")
	res, err := engine.Run(cmd.Context(), name, cfg, opts)
	if err != nil {
		return err
	}

	sec := output.NewSection(w, "Build · "+name, res.Duration, color)
	for _, out := range res.Outputs {
		sec.Row("%s %s", output.StatusIcon("success", color), displayPath(out))
	}
	for _, warn := range res.Warnings {
		sec.Row("%s %s", output.StatusIcon("warning", color), warn)
	}
	sec.Close()
	return nil
}

// printPlan renders the loader table an engine would use without running it.
func printPlan(cmd *cobra.Command, name string, cfg *config.BuildConfig, opts engine.Options, color bool) error {
	e, err := engine.Get(name)
	if err != nil {
		return err
	}
	plan, err := e.Plan(cmd.Context(), cfg, opts)
	if err != nil {
		return fmt.Errorf("%s: planning: %w", name, err)
	}

	sec := output.NewSection(cmd.OutOrStdout(), "Plan · "+name, 0, color)
	exts := make([]string, 0, len(plan.Loaders))
	for ext := range plan.Loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		sec.Row("%-10s%s", ext, plan.Loaders[ext])
	}
	for _, warn := range plan.Warnings {
		sec.Row("%s %s", output.StatusIcon("warning", color), warn)
	}
	sec.Close()
	return nil
}
