package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const productionYAML = `entry: ./src/index.js
output:
  path: dist
  filename: bundle.js
mode: production
module:
  rules:
    - test: '/\.css$/i'
      use: [style-loader, css-loader]
    - test: '/\.(png|jpg|jpeg|gif|svg)$/i'
      type: asset/resource
`

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packcfg.yml", productionYAML)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, doc.Dir)

	cfg, err := doc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.OutputDirectory)
	assert.Equal(t, ModeProduction, cfg.Mode)
	require.Len(t, cfg.AssetRules, 2)
	assert.Equal(t, `/\.(png|jpg|jpeg|gif|svg)$/i`, cfg.AssetRules[1].Match.String())
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packcfg.toml", `entry = "./src/index.js"
mode = "development"

[output]
path = "build"
filename = "app.js"

[[module.rules]]
test = '/\.css$/i'
use = ["style-loader", "css-loader"]
`)

	doc, err := Load(path)
	require.NoError(t, err)

	cfg, err := doc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "build", "app.js"), cfg.OutputPath())
	assert.Equal(t, ModeDevelopment, cfg.Mode)
	require.Len(t, cfg.AssetRules, 1)
	assert.Equal(t, []string{"style-loader", "css-loader"}, cfg.AssetRules[0].Handlers)
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packcfg.json", `{
  "entry": "./src/index.js",
  "output": {"path": "dist", "filename": "bundle.js"},
  "mode": "production",
  "module": {"rules": [{"test": "/\\.png$/i", "type": "asset/resource"}]}
}`)

	doc, err := Load(path)
	require.NoError(t, err)

	cfg, err := doc.Resolve()
	require.NoError(t, err)
	require.Len(t, cfg.AssetRules, 1)
	assert.True(t, cfg.AssetRules[0].Match.MatchString("logo.PNG"))
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packcfg.yml", "entry: ./src/index.js\nmode: production\nplugins: []\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugins")
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "webpack.config.js", "module.exports = {}")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_EmptyFileFailsResolution(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packcfg.yml", "")

	doc, err := Load(path)
	require.NoError(t, err)

	_, err = doc.Resolve()
	var target MissingEntryError
	require.ErrorAs(t, err, &target)
}

func TestLoad_UnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "packcfg.yml", "version: 7\nentry: ./a.js\nmode: production\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version: must be 1, got 7")
}

func TestLoad_Extends(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config/base.yml", productionYAML)
	path := writeConfig(t, dir, "apps/web/packcfg.yml", `extends: ../../config/base.yml
mode: development
output:
  filename: dev.js
`)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Declaration.Extends)

	cfg, err := doc.Resolve()
	require.NoError(t, err)

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.Equal(t, filepath.Join(dir, "config", "dist"), cfg.OutputDirectory)
	assert.Equal(t, "dev.js", cfg.OutputFilename)
	assert.Equal(t, filepath.Join("..", "..", "config", "src", "index.js"), cfg.EntryPath)
	assert.Len(t, cfg.AssetRules, 2)
}

func TestLoad_ExtendsChildRulesReplaceBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yml", productionYAML)
	path := writeConfig(t, dir, "packcfg.yml", `extends: base.yml
module:
  rules:
    - test: '\.txt$'
      type: asset/source
`)

	doc, err := Load(path)
	require.NoError(t, err)

	cfg, err := doc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "./src/index.js", cfg.EntryPath)
	assert.Equal(t, ModeProduction, cfg.Mode)
	require.Len(t, cfg.AssetRules, 1)
	assert.Equal(t, AssetSource, cfg.AssetRules[0].AssetType)
}

func TestLoad_ExtendsCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yml", "extends: b.yml\n")
	path := writeConfig(t, dir, "b.yml", "extends: a.yml\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}
