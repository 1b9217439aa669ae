package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sofmeright/packcfg/src/config"
)

// ManifestFile is written into the output directory by the manifest engine.
const ManifestFile = "packcfg.manifest.json"

func init() {
	Register("manifest", func() Engine { return &manifestEngine{} })
}

// Manifest is the JSON document an external bundler reads. Paths are
// absolute so the consumer does not need to know where the config lived.
type Manifest struct {
	Entry    string         `json:"entry"`
	Output   ManifestOutput `json:"output"`
	Mode     string         `json:"mode"`
	Rules    []ManifestRule `json:"rules"`
	Resolved string         `json:"resolved"`
}

// ManifestOutput is the absolute output directory plus the bundle filename.
type ManifestOutput struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// ManifestRule is one asset rule in declaration order. Test is the pattern as
// written; exactly one of Use and Type is set, the other is omitted.
type ManifestRule struct {
	Test string   `json:"test"`
	Use  []string `json:"use,omitempty"`
	Type string   `json:"type,omitempty"`
}

// manifestEngine hands the config to an out-of-process bundler by writing it
// as JSON. It does not bundle anything itself.
type manifestEngine struct {
	now func() time.Time
}

func (e *manifestEngine) Name() string { return "manifest" }

func (e *manifestEngine) Plan(ctx context.Context, cfg *config.BuildConfig, opts Options) (*Plan, error) {
	entry := cfg.EntryPath
	if opts.WorkDir != "" {
		entry = filepath.Join(opts.WorkDir, entry)
	}

	now := time.Now
	if e.now != nil {
		now = e.now
	}

	m := Manifest{
		Entry:    entry,
		Output:   ManifestOutput{Path: cfg.OutputDirectory, Filename: cfg.OutputFilename},
		Mode:     string(cfg.Mode),
		Rules:    make([]ManifestRule, 0, len(cfg.AssetRules)),
		Resolved: now().UTC().Format(time.RFC3339),
	}

	plan := &Plan{Engine: e.Name(), Config: cfg, Loaders: map[string]string{}}
	for _, r := range cfg.AssetRules {
		m.Rules = append(m.Rules, ManifestRule{Test: r.Match.String(), Use: r.Handlers, Type: r.AssetType})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	plan.payload = append(data, '\n')
	return plan, nil
}

func (e *manifestEngine) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	data, ok := plan.payload.([]byte)
	if !ok {
		return nil, errors.New("plan was not produced by the manifest engine")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	dir := plan.Config.OutputDirectory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	log.Debug().Str("file", path).Msg("Wrote manifest")

	return &Result{
		Engine:   e.Name(),
		Outputs:  []string{path},
		Warnings: append([]string(nil), plan.Warnings...),
		Duration: time.Since(start),
	}, nil
}
