package process

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Type identifies one STLC step. The value doubles as the storage key for
// templates and for the per-process field of a session record.
type Type string

const (
	TypeCodeReview          Type = "code_review"
	TypeRequirementAnalysis Type = "requirement_analysis"
	TypeTestPlanning        Type = "test_planning"
	TypeEnvironmentSetup    Type = "environment_setup"

	// TypeTestScenarioGeneration is not a template-driven process; it has its
	// own service but shares the session namespace.
	TypeTestScenarioGeneration Type = "test_scenario_generation"
)

// Reserved type tag that routes an uploaded file into the requirement bucket.
const TagRequirementDocument = "Requirement Document"

// Placeholder names substituted into assembled prompts.
const (
	PlaceholderCode                = "code"
	PlaceholderRequirementDocument = "requirement_document"
	PlaceholderToday               = "today"
)

var ErrUnknownProcess = errors.New("unknown process")

// Bucket is where a classified upload lands.
type Bucket int

const (
	BucketCode Bucket = iota
	BucketRequirement
)

// Classifier decides the bucket for one uploaded file given its name and
// declared type tag (empty when the caller supplied none).
type Classifier func(filename, tag string) Bucket

// ClassifyAllCode treats every upload as source.
func ClassifyAllCode(string, string) Bucket { return BucketCode }

// ClassifyByTag routes on an exact match against TagRequirementDocument.
func ClassifyByTag(_ string, tag string) Bucket {
	if tag == TagRequirementDocument {
		return BucketRequirement
	}
	return BucketCode
}

// ClassifyByFilename is the heuristic used where callers do not declare types:
// names mentioning "requirement" or "spec", and .md/.txt files, are requirements.
func ClassifyByFilename(filename, _ string) Bucket {
	name := strings.ToLower(filepath.Base(filename))
	if strings.Contains(name, "requirement") || strings.Contains(name, "spec") ||
		strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".txt") {
		return BucketRequirement
	}
	return BucketCode
}

// Config parameterises the single Process Runner for one process type.
type Config struct {
	Type Type
	Slug string // path segment, e.g. "code-review"

	Placeholders  []string
	RequiresTypes bool
	Classify      Classifier

	// AppendSuffix controls whether the system suffix is concatenated to the
	// template before substitution. Processes whose base template already
	// carries its placeholders leave it off.
	AppendSuffix  bool
	DefaultSuffix string

	CombineHeading string

	// Response shape: {ResultField: [{files, OutputField}]}; the session
	// output stores the result under SessionOutputKey.
	ResultField      string
	OutputField      string
	SessionOutputKey string
}

// HasPlaceholder reports whether name is substituted for this process.
func (c Config) HasPlaceholder(name string) bool {
	for _, p := range c.Placeholders {
		if p == name {
			return true
		}
	}
	return false
}

// Registry maps process types to their runner configuration.
type Registry struct {
	byType map[Type]Config
	bySlug map[string]Type
}

func NewRegistry(configs ...Config) *Registry {
	r := &Registry{
		byType: make(map[Type]Config, len(configs)),
		bySlug: make(map[string]Type, len(configs)),
	}
	for _, c := range configs {
		r.byType[c.Type] = c
		r.bySlug[c.Slug] = c.Type
	}
	return r
}

// Lookup accepts either the slug ("code-review") or the type ("code_review").
func (r *Registry) Lookup(name string) (Config, error) {
	if t, ok := r.bySlug[name]; ok {
		return r.byType[t], nil
	}
	if c, ok := r.byType[Type(strings.ReplaceAll(name, "-", "_"))]; ok {
		return c, nil
	}
	return Config{}, fmt.Errorf("%w: %s", ErrUnknownProcess, name)
}

// All returns the registered configs ordered by type.
func (r *Registry) All() []Config {
	out := make([]Config, 0, len(r.byType))
	for _, c := range r.byType {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
