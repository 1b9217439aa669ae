package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"

	"github.com/sofmeright/packcfg/src/config"
	"github.com/sofmeright/packcfg/src/version"
)

// Settings are process-level knobs read from the environment. Command-line
// flags override them.
type Settings struct {
	Config    string `env:"CONFIG"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`
	Engine    string `env:"ENGINE" envDefault:"esbuild"`
}

func loadSettings() (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: "PACKCFG_"}); err != nil {
		return Settings{}, fmt.Errorf("error getting env settings: %w", err)
	}
	return s, nil
}

// configPath picks the declaration file: positional arg, then --config /
// PACKCFG_CONFIG, then the default.
func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if settings.Config != "" {
		return settings.Config
	}
	return config.DefaultConfigFile
}

// loadConfig loads and resolves one declaration. A non-empty mode replaces
// the declared one.
func loadConfig(path, mode string) (*config.Document, *config.BuildConfig, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := config.CheckRequires(doc.Declaration, version.Version); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if mode != "" {
		doc.Declaration.Mode = mode
	}

	cfg, err := doc.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("file", displayPath(doc.Path)).
		Str("mode", string(cfg.Mode)).
		Int("rules", len(cfg.AssetRules)).
		Msg("resolved config")
	return doc, cfg, nil
}

// displayPath shortens p relative to the working directory when it lies
// below it.
func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
