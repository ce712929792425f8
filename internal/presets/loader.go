// Package presets loads named output scenes from JSON files and applies
// them to the amplifier. A preset names outputs by their wire string and
// sources by the input display name the amplifier reports, so preset files
// stay readable next to the INPUT? table.
package presets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Preset is one named scene.
type Preset struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Outputs     []OutputSetting `json:"outputs"`
}

// OutputSetting is the desired state of one output. Nil fields are left
// untouched when the preset is applied.
type OutputSetting struct {
	Output string `json:"output"`           // wire string: Z1..Z8, DXOa, DXOb
	Source string `json:"source,omitempty"` // input display name, e.g. "Digital In A"
	Volume *int   `json:"volume,omitempty"`
	Power  *bool  `json:"power,omitempty"`
}

type Loader struct {
	cache       sync.Map
	validator   *Validator
	searchPaths []string
}

func NewLoader(searchPaths []string) (*Loader, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &Loader{
		validator:   validator,
		searchPaths: searchPaths,
	}, nil
}

// Load reads and validates the preset <name>.json from the search paths.
func (l *Loader) Load(name string) (*Preset, error) {
	// Cache-Check
	if cached, ok := l.cache.Load(name); ok {
		return cached.(*Preset), nil
	}

	var data []byte
	var foundPath string

	for _, searchPath := range l.searchPaths {
		fullPath := filepath.Join(searchPath, name+".json")
		if b, err := os.ReadFile(fullPath); err == nil {
			data = b
			foundPath = fullPath
			break
		}
	}

	if data == nil {
		return nil, fmt.Errorf("preset not found: %s (searched in: %v)", name, l.searchPaths)
	}

	if err := l.validator.ValidatePreset(data); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", foundPath, err)
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset: %w", err)
	}

	l.cache.Store(name, &preset)

	return &preset, nil
}

// List returns the preset names available across the search paths.
func (l *Loader) List() []string {
	seen := make(map[string]bool)
	var names []string

	for _, searchPath := range l.searchPaths {
		entries, err := os.ReadDir(searchPath)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".json")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// ClearCache drops cached presets so edited files are re-read.
func (l *Loader) ClearCache() {
	l.cache.Range(func(key, value interface{}) bool {
		l.cache.Delete(key)
		return true
	})
}
