package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidOutput = errors.New("invalid scenario output")

// Request describes what kind of scenarios to generate. Element maps hold
// checkbox state from the UI; only enabled keys are rendered.
type Request struct {
	TestType            string          `json:"test_type" binding:"required"`
	TestCategory        string          `json:"test_category" binding:"required"`
	ScoringElements     map[string]bool `json:"scoring_elements"`
	InstructionElements map[string]bool `json:"instruction_elements"`
}

// Scenario is one generated test scenario.
type Scenario struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites"`
	Steps         []string `json:"steps"`
}

type Result struct {
	Scenarios []Scenario `json:"scenarios"`
}

const outputContract = `Output should be in JSON format with the following structure:
{
    "scenarios": [
        {
            "id": "TS-001",
            "title": "Test Scenario Title",
            "description": "Detailed description of the scenario",
            "prerequisites": ["List of prerequisites"],
            "steps": ["Step 1", "Step 2", "..."]
        }
    ]
}`

// BuildPrompt renders the generation instructions for req.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Test Scenario Generation Requirements:\n")
	fmt.Fprintf(&b, "Category: %s\n", req.TestCategory)
	fmt.Fprintf(&b, "Type: %s\n\n", req.TestType)
	b.WriteString("Scoring Elements:\n")
	writeEnabled(&b, req.ScoringElements)
	b.WriteString("\nTesting Instructions:\n")
	writeEnabled(&b, req.InstructionElements)
	b.WriteString("\nPlease generate test scenarios following these guidelines and requirements.\n")
	b.WriteString(outputContract)
	b.WriteString("\n")
	return b.String()
}

func writeEnabled(b *strings.Builder, elems map[string]bool) {
	keys := make([]string, 0, len(elems))
	for k, on := range elems {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s\n", k)
	}
}

// Parse extracts and validates the scenario document from a model reply.
// Models often wrap JSON in prose or code fences, so the outermost object is
// located first.
func Parse(reply string) (Result, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return Result{}, fmt.Errorf("%w: no JSON object in reply", ErrInvalidOutput)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if _, ok := raw["scenarios"]; !ok {
		return Result{}, fmt.Errorf("%w: missing required key: scenarios", ErrInvalidOutput)
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw["scenarios"], &items); err != nil {
		return Result{}, fmt.Errorf("%w: scenarios should be an array", ErrInvalidOutput)
	}

	res := Result{Scenarios: make([]Scenario, 0, len(items))}
	for i, item := range items {
		for _, key := range []string{"id", "title", "description", "prerequisites", "steps"} {
			if _, ok := item[key]; !ok {
				return Result{}, fmt.Errorf("%w: scenario %d missing required key: %s", ErrInvalidOutput, i, key)
			}
		}
		var s Scenario
		b, _ := json.Marshal(item)
		if err := json.Unmarshal(b, &s); err != nil {
			return Result{}, fmt.Errorf("%w: scenario %d: %v", ErrInvalidOutput, i, err)
		}
		res.Scenarios = append(res.Scenarios, s)
	}
	return res, nil
}
