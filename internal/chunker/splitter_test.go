package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyang/stlc-manager/internal/chunker"
)

func TestRecursiveSplitter_PrefersParagraphs(t *testing.T) {
	s := chunker.NewRecursiveSplitter(20, 0)
	got := s.Split("first para\n\nsecond para\n\nthird para")
	assert.Equal(t, []string{"first para", "second para", "third para"}, got)
}

func TestRecursiveSplitter_FallsBackToWords(t *testing.T) {
	s := chunker.NewRecursiveSplitter(12, 0)
	got := s.Split("alpha beta gamma delta")
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, got)
}

func TestRecursiveSplitter_HardCutsLongWords(t *testing.T) {
	s := chunker.NewRecursiveSplitter(4, 0)
	got := s.Split("abcdefghij")
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, got)
}

func TestRecursiveSplitter_Overlap(t *testing.T) {
	s := chunker.NewRecursiveSplitter(11, 5)
	got := s.Split("aa bb cc dd ee ff")
	assert.Equal(t, []string{"aa bb cc dd", "dd ee ff"}, got)
}

func TestRecursiveSplitter_MultibyteLength(t *testing.T) {
	s := chunker.NewRecursiveSplitter(3, 0)
	got := s.Split("çğüşöı")
	assert.Equal(t, []string{"çğü", "şöı"}, got)
	assert.Equal(t, "çğüşöı", strings.Join(got, ""))
}
