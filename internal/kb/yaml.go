package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region yaml-file

// file is the on-disk YAML shape for a curated Q&A source.
type file struct {
	Entries []Entry `yaml:"entries"`
}

// LoadYAMLFile parses a curated Q&A YAML file into raw entries.
// Canonicalization and validation happen in NewStore.
func LoadYAMLFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kb file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse kb yaml: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("kb file %s has no entries", path)
	}
	return f.Entries, nil
}

// #endregion yaml-file
