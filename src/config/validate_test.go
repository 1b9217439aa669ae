package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint_CleanConfig(t *testing.T) {
	cfg, err := Resolve(productionDecl(), "/proj")
	require.NoError(t, err)

	assert.Empty(t, Lint(cfg))
}

func TestLint_Warnings(t *testing.T) {
	d := productionDecl()
	d.Output.Filename = "js/bundle.js"
	d.Module.Rules = append(d.Module.Rules,
		RawRule{Test: `/\.css$/i`, Use: []string{"css-loader", "css-loader"}},
		RawRule{Test: `\.js$`, Type: "asset/source"},
	)

	cfg, err := Resolve(d, "/proj")
	require.NoError(t, err)

	warnings := Lint(cfg)
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], "output.filename")
	assert.Contains(t, warnings[1], "duplicates module.rules[0]")
	assert.Contains(t, warnings[2], `handler "css-loader" listed more than once`)
	assert.Contains(t, warnings[3], "matches the entry")
}
