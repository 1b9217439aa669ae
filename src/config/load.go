package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no path is given.
const DefaultConfigFile = "packcfg.yml"

// Document is a loaded declaration together with where it came from.
type Document struct {
	// Path is the absolute path of the declaration file.
	Path string
	// Dir is the directory relative output paths resolve against.
	Dir         string
	Declaration Declaration
}

// Resolve resolves the document's declaration against its directory.
func (d *Document) Resolve() (*BuildConfig, error) {
	return Resolve(d.Declaration, d.Dir)
}

// Load reads a declaration from a YAML, TOML or JSON file, chosen by
// extension. If path is empty, it tries the default file. Unlike most
// settings files a missing declaration is an error: there is no default
// entry point to fall back to.
//
// A declaration that names a base via extends is merged over it; fields the
// child leaves empty are inherited.
func Load(path string) (*Document, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	return load(path, map[string]bool{})
}

func load(path string, seen map[string]bool) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("extends: cycle detected at %s", abs)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	decl, err := Decode(data, filepath.Ext(abs))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := checkVersion(decl.Version); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	doc := &Document{Path: abs, Dir: filepath.Dir(abs), Declaration: decl}
	if decl.Extends == "" {
		return doc, nil
	}

	basePath := decl.Extends
	if !filepath.IsAbs(basePath) {
		basePath = filepath.Join(doc.Dir, basePath)
	}
	base, err := load(basePath, seen)
	if err != nil {
		return nil, fmt.Errorf("extends %s: %w", decl.Extends, err)
	}

	inherited := rebase(base.Declaration, base.Dir, doc.Dir)
	if err := mergo.Merge(&doc.Declaration, inherited); err != nil {
		return nil, fmt.Errorf("extends %s: merging: %w", decl.Extends, err)
	}
	doc.Declaration.Extends = ""
	return doc, nil
}

// Decode parses a declaration. ext selects the format (".yml", ".yaml",
// ".toml", ".json"); unknown fields are rejected in every format.
func Decode(data []byte, ext string) (Declaration, error) {
	var d Declaration

	switch strings.ToLower(ext) {
	case ".yml", ".yaml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return Declaration{}, err
		}

	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Declaration{}, err
		}

	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return Declaration{}, err
		}

	default:
		return Declaration{}, fmt.Errorf("unsupported config format %q (supported: .yml, .yaml, .toml, .json)", ext)
	}

	return d, nil
}

// rebase rewrites a base declaration's relative paths so they point at the
// same files when read from childDir.
func rebase(d Declaration, baseDir, childDir string) Declaration {
	if d.Entry != "" && !filepath.IsAbs(d.Entry) {
		d.Entry = relTo(childDir, filepath.Join(baseDir, d.Entry))
	}
	if d.Output.Path != "" && !filepath.IsAbs(d.Output.Path) {
		d.Output.Path = relTo(childDir, filepath.Join(baseDir, d.Output.Path))
	}
	d.Extends = ""
	return d
}

func relTo(dir, target string) string {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return target
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return rel
	}
	return "." + string(filepath.Separator) + rel
}
