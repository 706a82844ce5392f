package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mprgeom/internal/models"
)

// Manifest describes a series as produced by the metadata layer.
type Manifest struct {
	// Series is a free-form identifier used in output
	Series string `yaml:"series"`

	Frames []models.Frame `yaml:"frames"`
}

// LoadManifest reads a YAML series manifest
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	if len(m.Frames) == 0 {
		return nil, fmt.Errorf("manifest %s has no frames", path)
	}
	return &m, nil
}

// Frame returns the frame with the given index
func (m *Manifest) Frame(index int) (models.Frame, bool) {
	for _, f := range m.Frames {
		if f.Index == index {
			return f, true
		}
	}
	return models.Frame{}, false
}
