package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productionDecl is the variant with asset rules.
func productionDecl() Declaration {
	return Declaration{
		Entry:  "./src/index.js",
		Output: OutputDecl{Path: "dist", Filename: "bundle.js"},
		Mode:   "production",
		Module: ModuleDecl{Rules: []RawRule{
			{Test: `/\.css$/i`, Use: []string{"style-loader", "css-loader"}},
			{Test: `/\.(png|jpg)$/i`, Type: "asset/resource"},
		}},
	}
}

// developmentDecl is the variant without asset rules.
func developmentDecl() Declaration {
	return Declaration{
		Entry:  "./src/index.js",
		Output: OutputDecl{Path: "dist", Filename: "bundle.js"},
		Mode:   "development",
	}
}

func TestResolve_ProductionScenario(t *testing.T) {
	base := t.TempDir()

	cfg, err := Resolve(productionDecl(), base)
	require.NoError(t, err)

	assert.Equal(t, "./src/index.js", cfg.EntryPath)
	assert.Equal(t, filepath.Join(base, "dist"), cfg.OutputDirectory)
	assert.Equal(t, "bundle.js", cfg.OutputFilename)
	assert.Equal(t, ModeProduction, cfg.Mode)

	require.Len(t, cfg.AssetRules, 2)
	assert.Equal(t, []string{"style-loader", "css-loader"}, cfg.AssetRules[0].Handlers)
	assert.Empty(t, cfg.AssetRules[0].AssetType)
	assert.Equal(t, "asset/resource", cfg.AssetRules[1].AssetType)
	assert.Empty(t, cfg.AssetRules[1].Handlers)
}

func TestResolve_DevelopmentVariant(t *testing.T) {
	cfg, err := Resolve(developmentDecl(), "/work/app")
	require.NoError(t, err)

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.Empty(t, cfg.AssetRules)
	assert.Equal(t, filepath.Join("/work/app", "dist", "bundle.js"), cfg.OutputPath())
}

func TestResolve_EntryAndModeRoundTrip(t *testing.T) {
	for _, entry := range []string{"./src/index.js", "main.ts", "web/app.jsx", "../shared/entry.js"} {
		for _, mode := range []Mode{ModeDevelopment, ModeProduction} {
			cfg, err := Resolve(Declaration{Entry: entry, Mode: string(mode)}, "/base")
			require.NoError(t, err, "entry=%s mode=%s", entry, mode)
			assert.Equal(t, entry, cfg.EntryPath)
			assert.Equal(t, mode, cfg.Mode)
		}
	}
}

func TestResolve_EntryKeptVerbatim(t *testing.T) {
	cfg, err := Resolve(Declaration{Entry: " ./src/index.js ", Mode: "production"}, "/base")
	require.NoError(t, err)
	assert.Equal(t, " ./src/index.js ", cfg.EntryPath)

	_, err = Resolve(Declaration{Entry: " /abs/index.js", Mode: "production"}, "/base")
	var target InvalidEntryError
	require.ErrorAs(t, err, &target)
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(Declaration{Entry: "./src/index.js", Mode: "development"}, "/proj")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/proj", DefaultOutputPath), cfg.OutputDirectory)
	assert.Equal(t, DefaultOutputFilename, cfg.OutputFilename)
}

func TestResolve_AbsoluteOutputPathIsKept(t *testing.T) {
	d := developmentDecl()
	d.Output.Path = "/srv/www/../static"

	cfg, err := Resolve(d, "/proj")
	require.NoError(t, err)
	assert.Equal(t, "/srv/static", cfg.OutputDirectory)
}

func TestResolve_MissingMode(t *testing.T) {
	d := productionDecl()
	d.Mode = ""

	cfg, err := Resolve(d, "/proj")
	assert.Nil(t, cfg)

	var target AmbiguousModeError
	require.ErrorAs(t, err, &target)
}

func TestResolve_UnknownMode(t *testing.T) {
	d := productionDecl()
	d.Mode = "none"

	_, err := Resolve(d, "/proj")

	var target InvalidModeError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "none", target.Mode)
}

func TestResolve_EmptyEntry(t *testing.T) {
	for _, entry := range []string{"", "   "} {
		d := productionDecl()
		d.Entry = entry

		cfg, err := Resolve(d, "/proj")
		assert.Nil(t, cfg)

		var target MissingEntryError
		require.ErrorAs(t, err, &target)
	}
}

func TestResolve_AbsoluteEntry(t *testing.T) {
	d := productionDecl()
	d.Entry = "/src/index.js"

	_, err := Resolve(d, "/proj")

	var target InvalidEntryError
	require.ErrorAs(t, err, &target)
}

func TestResolve_BadRuleAbortsWholeConfig(t *testing.T) {
	d := productionDecl()
	d.Module.Rules = append(d.Module.Rules, RawRule{Test: `/\.svg$/`})

	cfg, err := Resolve(d, "/proj")
	assert.Nil(t, cfg)

	var target InvalidRuleError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 2, target.Index)
	assert.Contains(t, err.Error(), "module.rules[2]")
}

func TestResolve_ReEncodeIsIdempotent(t *testing.T) {
	base := t.TempDir()

	for name, d := range map[string]Declaration{
		"production":  productionDecl(),
		"development": developmentDecl(),
	} {
		t.Run(name, func(t *testing.T) {
			first, err := Resolve(d, base)
			require.NoError(t, err)

			second, err := Resolve(Encode(first), base)
			require.NoError(t, err)

			assert.Equal(t, Encode(first), Encode(second))
		})
	}
}

func TestResolve_DoesNotAliasInput(t *testing.T) {
	d := productionDecl()
	cfg, err := Resolve(d, "/proj")
	require.NoError(t, err)

	d.Module.Rules[0].Use[0] = "mutated"
	assert.Equal(t, "style-loader", cfg.AssetRules[0].Handlers[0])
}

func TestRuleFor_FirstMatchWins(t *testing.T) {
	d := productionDecl()
	d.Module.Rules = append(d.Module.Rules, RawRule{Test: `\.png$`, Type: "asset/inline"})

	cfg, err := Resolve(d, "/proj")
	require.NoError(t, err)

	rule, ok := cfg.RuleFor("img/logo.PNG")
	require.True(t, ok)
	assert.Equal(t, "asset/resource", rule.AssetType)

	rule, ok = cfg.RuleFor("styles/site.css")
	require.True(t, ok)
	assert.Equal(t, []string{"style-loader", "css-loader"}, rule.Handlers)

	_, ok = cfg.RuleFor("src/index.js")
	assert.False(t, ok)
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    RawRule
		wantErr string
	}{
		{name: "handlers", rule: RawRule{Test: `/\.css$/i`, Use: []string{"style-loader", "css-loader"}}},
		{name: "asset type", rule: RawRule{Test: `/\.(png|jpg)$/i`, Type: "asset/resource"}},
		{name: "bare regex", rule: RawRule{Test: `\.txt$`, Type: "asset/source"}},
		{name: "both set", rule: RawRule{Test: `\.css$`, Use: []string{"css-loader"}, Type: "asset"}, wantErr: "mutually exclusive"},
		{name: "neither set", rule: RawRule{Test: `\.css$`}, wantErr: "one of use or type"},
		{name: "empty use counts as unset", rule: RawRule{Test: `\.css$`, Use: []string{}}, wantErr: "one of use or type"},
		{name: "empty test", rule: RawRule{Type: "asset"}, wantErr: "empty"},
		{name: "malformed regex", rule: RawRule{Test: `/\.(png$/`, Type: "asset"}, wantErr: "not a valid regular expression"},
		{name: "unknown flag", rule: RawRule{Test: `/\.css$/I`, Use: []string{"css-loader"}}, wantErr: "unknown flag"},
		{name: "repeated flag", rule: RawRule{Test: `/\.css$/ii`, Use: []string{"css-loader"}}, wantErr: "repeats flag"},
		{name: "empty literal body", rule: RawRule{Test: `//i`, Use: []string{"css-loader"}}, wantErr: "empty body"},
		{name: "unknown asset type", rule: RawRule{Test: `\.png$`, Type: "asset/url"}, wantErr: "unknown asset type"},
		{name: "blank handler", rule: RawRule{Test: `\.css$`, Use: []string{"style-loader", " "}}, wantErr: "use[1] is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ValidateRule(tt.rule)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.rule.Test, rule.Match.String())
				assert.True(t, (len(rule.Handlers) > 0) != (rule.AssetType != ""))
				return
			}

			require.Error(t, err)
			var ire InvalidRuleError
			require.True(t, errors.As(err, &ire))
			assert.Equal(t, -1, ire.Index)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
