package openai

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var defaultCatalog []byte

// Catalog maps caller-facing short model keys to backend model ids.
type Catalog struct {
	Default string            `yaml:"default"`
	Models  map[string]string `yaml:"models"`
}

// DefaultCatalog returns the embedded key table.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded model catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path. Keys it does not define are
// inherited from the embedded table.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read model catalog: %w", err)
	}
	override, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, err
	}

	c := DefaultCatalog()
	if override.Default != "" {
		c.Default = override.Default
	}
	for k, v := range override.Models {
		c.Models[k] = v
	}
	return c, nil
}

func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse model catalog: %w", err)
	}
	if c.Models == nil {
		c.Models = make(map[string]string)
	}
	return c, nil
}

// Resolve returns the model id for key, or the default for empty and unknown keys.
func (c Catalog) Resolve(key string) string {
	if id, ok := c.Models[key]; ok && id != "" {
		return id
	}
	return c.Default
}

// Keys returns the known short keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Models))
	for k := range c.Models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
