package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Marshal writes a declaration in the format selected by ext, the
// counterpart of Decode.
func Marshal(d Declaration, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yml", ".yaml", "":
		return yaml.Marshal(d)
	case ".toml":
		return toml.Marshal(d)
	case ".json":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q (supported: .yml, .yaml, .toml, .json)", ext)
	}
}

// Portable rewrites an encoded declaration's output path relative to dir
// when it lies inside dir, so the result can be committed next to the
// project instead of carrying a machine-specific absolute path.
func Portable(d Declaration, dir string) Declaration {
	if !filepath.IsAbs(d.Output.Path) {
		return d
	}
	rel, err := filepath.Rel(dir, d.Output.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return d
	}
	d.Output.Path = rel
	return d
}

// Relocate prepares an encoded declaration read from fromDir to be written
// into toDir. The relative entry is rebased so it names the same file, and
// the output path is made Portable against toDir.
func Relocate(d Declaration, fromDir, toDir string) Declaration {
	if filepath.Clean(fromDir) != filepath.Clean(toDir) && d.Entry != "" && !filepath.IsAbs(d.Entry) {
		d.Entry = relTo(toDir, filepath.Join(fromDir, d.Entry))
	}
	return Portable(d, toDir)
}
