package presets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePreset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "movie-night", `{
		"name": "movie night",
		"outputs": [
			{"output": "Z1", "source": "Digital In A", "volume": 40, "power": true},
			{"output": "DXOa", "power": false}
		]
	}`)

	loader, err := NewLoader([]string{dir})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	preset, err := loader.Load("movie-night")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if preset.Name != "movie night" {
		t.Errorf("name = %q", preset.Name)
	}
	if len(preset.Outputs) != 2 {
		t.Fatalf("len(outputs) = %d, want 2", len(preset.Outputs))
	}
	if preset.Outputs[0].Volume == nil || *preset.Outputs[0].Volume != 40 {
		t.Errorf("volume = %v, want 40", preset.Outputs[0].Volume)
	}
	if preset.Outputs[1].Volume != nil {
		t.Error("volume should be unset for DXOa")
	}
}

func TestLoaderRejectsInvalidPreset(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad-output", `{"name": "x", "outputs": [{"output": "Z9"}]}`},
		{"bad-volume", `{"name": "x", "outputs": [{"output": "Z1", "volume": 150}]}`},
		{"no-outputs", `{"name": "x", "outputs": []}`},
		{"missing-name", `{"outputs": [{"output": "Z1"}]}`},
		{"stray-field", `{"name": "x", "outputs": [{"output": "Z1", "bass": 3}]}`},
	}

	loader, err := NewLoader([]string{dir})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	for _, tt := range tests {
		writePreset(t, dir, tt.name, tt.content)
		if _, err := loader.Load(tt.name); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		} else if !strings.Contains(err.Error(), "validation failed") {
			t.Errorf("%s: error = %v, want validation failure", tt.name, err)
		}
	}
}

func TestLoaderMissingPreset(t *testing.T) {
	loader, err := NewLoader([]string{t.TempDir()})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	if _, err := loader.Load("nope"); err == nil {
		t.Error("expected error for missing preset")
	}
}

func TestLoaderList(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writePreset(t, dirA, "party", `{"name": "party", "outputs": [{"output": "Z1"}]}`)
	writePreset(t, dirB, "party", `{"name": "party copy", "outputs": [{"output": "Z1"}]}`)
	writePreset(t, dirB, "quiet", `{"name": "quiet", "outputs": [{"output": "Z2"}]}`)

	loader, err := NewLoader([]string{dirA, dirB})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	names := loader.List()
	if len(names) != 2 {
		t.Errorf("List() = %v, want 2 unique names", names)
	}
}
