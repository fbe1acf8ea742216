package render

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns heading text into an identifier: accents are stripped,
// letters lower-cased, and runs of anything else collapsed to a single '-'.
// Text without letters or digits yields "section".
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}
	var sb strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
	}
	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}

// Slugger hands out slugs that are unique within one document. Repeated
// slugs get a numeric suffix: "setup", "setup-1", "setup-2".
type Slugger struct {
	used   map[string]bool
	counts map[string]int
}

// NewSlugger creates an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{
		used:   make(map[string]bool),
		counts: make(map[string]int),
	}
}

// Slug returns a unique slug for text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	slug := base
	n := s.counts[base]
	for s.used[slug] {
		n++
		slug = base + "-" + strconv.Itoa(n)
	}
	s.counts[base] = n
	s.used[slug] = true
	return slug
}
