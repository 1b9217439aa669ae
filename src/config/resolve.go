package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Mode selects the bundler's optimization profile.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Output defaults, matching the bundler's own.
const (
	DefaultOutputPath     = "dist"
	DefaultOutputFilename = "main.js"
)

// Asset types accepted in a rule's type field.
const (
	AssetAuto     = "asset"
	AssetResource = "asset/resource"
	AssetInline   = "asset/inline"
	AssetSource   = "asset/source"
)

var validAssetTypes = map[string]bool{
	AssetAuto:     true,
	AssetResource: true,
	AssetInline:   true,
	AssetSource:   true,
}

// BuildConfig is a validated, normalized declaration. It is built once per
// build invocation and not modified afterwards.
type BuildConfig struct {
	EntryPath       string
	OutputDirectory string
	OutputFilename  string
	Mode            Mode
	AssetRules      []LoaderRule
}

// LoaderRule maps matching input files to either a handler pipeline or an
// asset type. Exactly one of Handlers and AssetType is set.
type LoaderRule struct {
	Match     Pattern
	Handlers  []string
	AssetType string
}

// OutputPath is the full path of the emitted bundle.
func (c *BuildConfig) OutputPath() string {
	return filepath.Join(c.OutputDirectory, c.OutputFilename)
}

// RuleFor returns the first rule whose pattern matches path.
func (c *BuildConfig) RuleFor(path string) (LoaderRule, bool) {
	for _, r := range c.AssetRules {
		if r.Match.MatchString(path) {
			return r, true
		}
	}
	return LoaderRule{}, false
}

// Resolve validates raw and normalizes it into a BuildConfig. baseDir is the
// directory of the declaration file; relative output paths are joined onto
// it. Resolve performs no I/O and returns either a complete config or an
// error, never a partial config.
func Resolve(raw Declaration, baseDir string) (*BuildConfig, error) {
	entry := strings.TrimSpace(raw.Entry)
	if entry == "" {
		return nil, MissingEntryError{}
	}
	// The entry is kept as written; trimming only decides emptiness.
	if filepath.IsAbs(entry) {
		return nil, InvalidEntryError{Entry: raw.Entry}
	}

	mode, err := parseMode(raw.Mode)
	if err != nil {
		return nil, err
	}

	outDir := raw.Output.Path
	if outDir == "" {
		outDir = DefaultOutputPath
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(baseDir, outDir)
	}
	outDir = filepath.Clean(outDir)

	filename := raw.Output.Filename
	if filename == "" {
		filename = DefaultOutputFilename
	}

	rules := make([]LoaderRule, 0, len(raw.Module.Rules))
	for i, rr := range raw.Module.Rules {
		rule, err := ValidateRule(rr)
		if err != nil {
			ire := err.(InvalidRuleError)
			ire.Index = i
			return nil, ire
		}
		rules = append(rules, rule)
	}

	return &BuildConfig{
		EntryPath:       raw.Entry,
		OutputDirectory: outDir,
		OutputFilename:  filename,
		Mode:            mode,
		AssetRules:      rules,
	}, nil
}

func parseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "":
		return "", AmbiguousModeError{}
	case ModeDevelopment:
		return ModeDevelopment, nil
	case ModeProduction:
		return ModeProduction, nil
	default:
		return "", InvalidModeError{Mode: s}
	}
}

// ValidateRule checks a single rule. The returned error is always an
// InvalidRuleError with Index -1.
func ValidateRule(raw RawRule) (LoaderRule, error) {
	hasUse := len(raw.Use) > 0
	hasType := raw.Type != ""

	switch {
	case hasUse && hasType:
		return LoaderRule{}, InvalidRuleError{Index: -1, Reason: "use and type are mutually exclusive; set exactly one"}
	case !hasUse && !hasType:
		return LoaderRule{}, InvalidRuleError{Index: -1, Reason: "one of use or type is required"}
	}

	pat, err := ParsePattern(raw.Test)
	if err != nil {
		return LoaderRule{}, InvalidRuleError{Index: -1, Reason: err.Error()}
	}

	if hasType {
		if !validAssetTypes[raw.Type] {
			return LoaderRule{}, InvalidRuleError{Index: -1, Reason: fmt.Sprintf("unknown asset type %q (supported: asset, asset/resource, asset/inline, asset/source)", raw.Type)}
		}
		return LoaderRule{Match: pat, AssetType: raw.Type}, nil
	}

	for j, h := range raw.Use {
		if strings.TrimSpace(h) == "" {
			return LoaderRule{}, InvalidRuleError{Index: -1, Reason: fmt.Sprintf("use[%d] is empty", j)}
		}
	}
	return LoaderRule{Match: pat, Handlers: slices.Clone(raw.Use)}, nil
}

// Encode turns a resolved config back into a Declaration. Resolving the
// result against the same base directory yields an equal BuildConfig.
func Encode(cfg *BuildConfig) Declaration {
	d := Declaration{
		Version: CurrentVersion,
		Entry:   cfg.EntryPath,
		Output: OutputDecl{
			Path:     cfg.OutputDirectory,
			Filename: cfg.OutputFilename,
		},
		Mode: string(cfg.Mode),
	}
	for _, r := range cfg.AssetRules {
		d.Module.Rules = append(d.Module.Rules, RawRule{
			Test: r.Match.String(),
			Use:  slices.Clone(r.Handlers),
			Type: r.AssetType,
		})
	}
	return d
}
