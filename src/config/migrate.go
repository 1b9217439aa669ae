package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the latest declaration schema version.
const CurrentVersion = 1

// MigrateToLatest takes raw YAML data and migrates it to the current schema version.
// Returns the migrated YAML bytes ready for writing.
//
// Migration chain:
//
//	version 0 (absent) → 1: stamp version: 1, no field changes
//	version 1          → current (no-op)
func MigrateToLatest(data []byte) ([]byte, error) {
	ver, err := peekVersion(data)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	switch ver {
	case CurrentVersion:
		return data, nil
	case 0:
		return stampVersion(data)
	default:
		return nil, fmt.Errorf("migrate: unknown config version %d (latest supported: %d)", ver, CurrentVersion)
	}
}

// peekVersion extracts the version field from raw YAML without full parsing.
// Returns 0 if no version field is present.
func peekVersion(data []byte) (int, error) {
	var head struct {
		Version int `yaml:"version"`
	}

	if err := yaml.Unmarshal(data, &head); err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}

	return head.Version, nil
}

// stampVersion prepends "version: 1" to the document's top-level mapping,
// keeping comments and key order intact.
func stampVersion(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("migrate: top level of config must be a mapping")
	}

	root := doc.Content[0]
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "version"}
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(CurrentVersion)}
	root.Content = append([]*yaml.Node{key, val}, root.Content...)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return out, nil
}

func checkVersion(v int) error {
	if v != 0 && v != CurrentVersion {
		return fmt.Errorf("version: must be %d, got %d", CurrentVersion, v)
	}
	return nil
}
