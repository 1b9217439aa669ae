package config

// Declaration is the raw, user-authored build declaration as it appears in
// a packcfg.yml (or .toml / .json) file. Nothing here is validated; Resolve
// turns a Declaration into a BuildConfig.
type Declaration struct {
	// Version is the schema version. 0 (absent) and 1 are accepted.
	Version int `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty"`

	// Requires is a semver constraint on the packcfg version, e.g. ">= 0.2".
	Requires string `yaml:"requires,omitempty" toml:"requires,omitempty" json:"requires,omitempty"`

	// Extends names a base declaration, relative to this file.
	Extends string `yaml:"extends,omitempty" toml:"extends,omitempty" json:"extends,omitempty"`

	Entry  string     `yaml:"entry,omitempty" toml:"entry,omitempty" json:"entry,omitempty"`
	Output OutputDecl `yaml:"output,omitempty" toml:"output,omitempty" json:"output,omitempty"`
	Mode   string     `yaml:"mode,omitempty" toml:"mode,omitempty" json:"mode,omitempty"`
	Module ModuleDecl `yaml:"module,omitempty" toml:"module,omitempty" json:"module,omitempty"`
}

// OutputDecl holds where the bundle is emitted.
type OutputDecl struct {
	// Path is the output directory. Relative paths are resolved against the
	// directory holding the declaration file.
	Path     string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
	Filename string `yaml:"filename,omitempty" toml:"filename,omitempty" json:"filename,omitempty"`
}

// ModuleDecl wraps the loader rules.
type ModuleDecl struct {
	Rules []RawRule `yaml:"rules,omitempty" toml:"rules,omitempty" json:"rules,omitempty"`
}

// RawRule is an unvalidated loader rule. Exactly one of Use and Type must be
// set; ValidateRule enforces it.
type RawRule struct {
	// Test is a regex literal ("/\.css$/i") or a bare regular expression.
	Test string   `yaml:"test" toml:"test" json:"test"`
	Use  []string `yaml:"use,omitempty" toml:"use,omitempty" json:"use,omitempty"`
	Type string   `yaml:"type,omitempty" toml:"type,omitempty" json:"type,omitempty"`
}
