// Package manifest reads unit and spell definition files. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexclash/internal/units"
)

// Decode unmarshals data into v using the format implied by name.
func Decode(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode yaml %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode json %s: %w", name, err)
		}
	}
	return nil
}

// Load reads and decodes the file at path into v.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	return Decode(path, data, v)
}

// UnitFile is the on-disk layout of a unit manifest.
type UnitFile struct {
	Units []units.Stats `json:"units" yaml:"units"`
}

// LoadUnits reads a unit manifest. A missing or malformed file yields an
// empty catalogue and a warning.
func LoadUnits(path string) units.Catalog {
	cat := units.Catalog{}
	if path == "" {
		return cat
	}
	var f UnitFile
	if err := Load(path, &f); err != nil {
		slog.Warn("unit manifest unavailable", "path", path, "error", err)
		return cat
	}
	for _, s := range f.Units {
		if s.Name == "" {
			slog.Warn("unit manifest entry without name skipped", "path", path)
			continue
		}
		cat[s.Name] = s.Normalize()
	}
	slog.Info("unit manifest loaded", "path", path, "units", len(cat))
	return cat
}
