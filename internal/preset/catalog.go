// Package preset holds the fixed set of brochure style presets. A preset
// selects the visual conditioning for hero image generation, the tonal
// hint for copy generation, and the tint used for placeholder imagery.
package preset

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/presets.yaml
var configFiles embed.FS

// Default is applied when a generation request omits the preset.
const Default = "editorial_luxury"

// Preset describes one entry of the fixed style set.
type Preset struct {
	Key        string `yaml:"key"`
	Name       string `yaml:"name"`
	Tone       string `yaml:"tone"`
	ImageStyle string `yaml:"image_style"`
	Tint       string `yaml:"tint"` // hex, placeholder background
}

type catalogFile struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog is the immutable preset registry loaded from the embedded YAML.
type Catalog struct {
	byKey map[string]Preset
	order []string
}

// NewCatalog loads the embedded preset definitions.
func NewCatalog() (*Catalog, error) {
	data, err := configFiles.ReadFile("config/presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("read preset catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal preset catalog: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("preset catalog is empty")
	}

	c := &Catalog{byKey: make(map[string]Preset, len(file.Presets))}
	for _, p := range file.Presets {
		if p.Key == "" {
			return nil, fmt.Errorf("preset with empty key in catalog")
		}
		if _, dup := c.byKey[p.Key]; dup {
			return nil, fmt.Errorf("duplicate preset key %q", p.Key)
		}
		c.byKey[p.Key] = p
		c.order = append(c.order, p.Key)
	}

	if _, ok := c.byKey[Default]; !ok {
		return nil, fmt.Errorf("preset catalog missing default %q", Default)
	}

	return c, nil
}

// Valid reports whether key names a member of the fixed preset set.
func (c *Catalog) Valid(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Get returns the preset for key, or the default preset when key is
// unknown. Callers that must reject unknown keys use Valid first.
func (c *Catalog) Get(key string) Preset {
	if p, ok := c.byKey[key]; ok {
		return p
	}
	return c.byKey[Default]
}

// Keys returns preset keys in catalog order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
