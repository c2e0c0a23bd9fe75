package prompt

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alanyang/stlc-manager/internal/domain/process"
)

//go:embed seeds.yaml
var seedsYAML []byte

type seedEntry struct {
	ProcessType  string `yaml:"process_type"`
	Description  string `yaml:"description"`
	PromptText   string `yaml:"prompt_text"`
	SystemSuffix string `yaml:"system_suffix"`
}

// Seeds returns the built-in base templates.
func Seeds() ([]Template, error) {
	return ParseSeeds(seedsYAML)
}

// ParseSeeds decodes a YAML list of templates.
func ParseSeeds(data []byte) ([]Template, error) {
	var entries []seedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse seed templates: %w", err)
	}
	out := make([]Template, 0, len(entries))
	for i, e := range entries {
		if e.ProcessType == "" || e.PromptText == "" {
			return nil, fmt.Errorf("seed template %d: process_type and prompt_text are required", i)
		}
		out = append(out, New(process.Type(e.ProcessType), e.PromptText, e.SystemSuffix, e.Description))
	}
	return out, nil
}
