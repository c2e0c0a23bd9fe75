package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators try paragraph, line, then word boundaries before falling
// back to single characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveSplitter cuts text into pieces of at most ChunkSize characters,
// preferring the earliest separator in Separators that occurs in the text and
// recursing with the remaining separators on pieces that are still too long.
// Consecutive pieces share up to Overlap characters of trailing context.
// Lengths are measured in runes.
type RecursiveSplitter struct {
	ChunkSize  int
	Overlap    int
	Separators []string
}

func NewRecursiveSplitter(chunkSize, overlap int) *RecursiveSplitter {
	return &RecursiveSplitter{
		ChunkSize:  chunkSize,
		Overlap:    overlap,
		Separators: DefaultSeparators,
	}
}

// Split returns the ordered, whitespace-trimmed pieces of text.
func (s *RecursiveSplitter) Split(text string) []string {
	return s.split(text, s.Separators)
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge packs consecutive small pieces into chunks, carrying a tail of at
// most Overlap characters into the next chunk. Separators are already
// attached to the pieces, so pieces are joined directly.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var (
		docs    []string
		current []string
		total   int
	)
	for _, p := range pieces {
		n := runeLen(p)
		if total+n > s.ChunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.Overlap || (total+n > s.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}
	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on sep and re-attaches each separator to
// the start of the piece that follows it. An empty sep splits into runes.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	if parts[0] != "" {
		out = append(out, parts[0])
	}
	for _, p := range parts[1:] {
		out = append(out, sep+p)
	}
	return out
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
