package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
)

func TestIsEdited(t *testing.T) {
	tests := []struct {
		name   string
		custom string
		base   string
		want   bool
	}{
		{"no custom prompt", "", "Review: {code}", false},
		{"no custom and no base", "", "", false},
		{"custom without base", "Review: {code}", "", true},
		{"identical", "Review: {code}", "Review: {code}", false},
		{"whitespace and case only", "  review:\n\t{CODE} ", "Review: {code}", false},
		{"different text", "Audit: {code}", "Review: {code}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainprompt.IsEdited(tt.custom, tt.base))
		})
	}
}

func TestSubstitute(t *testing.T) {
	values := map[string]string{"code": "x := 1", "today": "2026-10-16"}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"single placeholder", "Review: {code}", "Review: x := 1"},
		{"repeated placeholder", "{code}|{code}", "x := 1|x := 1"},
		{"unknown placeholder kept", "{code} {requirement_document}", "x := 1 {requirement_document}"},
		{"escaped braces", "{{\"a\": 1}} on {today}", "{\"a\": 1} on 2026-10-16"},
		{"code braces survive", "func f() { return }", "func f() { return }"},
		{"unterminated brace", "tail {code", "tail {code"},
		{"empty template", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainprompt.Substitute(tt.tmpl, values))
		})
	}
}

func TestSeeds(t *testing.T) {
	seeds, err := domainprompt.Seeds()
	require.NoError(t, err)

	types := map[process.Type]domainprompt.Template{}
	for _, s := range seeds {
		types[s.ProcessType] = s
	}
	require.Contains(t, types, process.TypeCodeReview)
	require.Contains(t, types, process.TypeRequirementAnalysis)
	assert.Contains(t, types[process.TypeCodeReview].PromptText, "{code}")
	assert.Contains(t, types[process.TypeRequirementAnalysis].SystemSuffix, "{requirement_document}")
}

func TestParseSeeds_RejectsIncompleteEntry(t *testing.T) {
	_, err := domainprompt.ParseSeeds([]byte("- process_type: code_review\n"))
	require.Error(t, err)
}
