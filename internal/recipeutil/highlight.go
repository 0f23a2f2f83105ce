package recipeutil

import (
	"strings"
	"unicode"
)

// Segment is a run of text that is either a literal slice of the input or a
// case-insensitive match of the search term, for rendering emphasis.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text into literal and matched segments around every
// case-insensitive occurrence of term. A blank term yields a single literal
// segment equal to the input.
func Highlight(text, term string) []Segment {
	if strings.TrimSpace(term) == "" {
		return []Segment{{Text: text}}
	}

	src := []rune(text)
	needle := lowerRunes([]rune(term))

	var segs []Segment
	start := 0
	for i := 0; i+len(needle) <= len(src); {
		if !foldEqual(src[i:i+len(needle)], needle) {
			i++
			continue
		}
		if i > start {
			segs = append(segs, Segment{Text: string(src[start:i])})
		}
		segs = append(segs, Segment{Text: string(src[i : i+len(needle)]), Match: true})
		i += len(needle)
		start = i
	}
	if start < len(src) {
		segs = append(segs, Segment{Text: string(src[start:])})
	}
	if len(segs) == 0 {
		segs = append(segs, Segment{Text: text})
	}
	return segs
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// foldEqual compares a candidate window against an already-lowered needle.
func foldEqual(window, loweredNeedle []rune) bool {
	for i, r := range window {
		if unicode.ToLower(r) != loweredNeedle[i] {
			return false
		}
	}
	return true
}
