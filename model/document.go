package model

import (
	"strings"
	"time"
)

// Document represents a complete parsed document
type Document struct {
	Metadata Metadata
	Blocks   []Block
}

// Metadata contains document-level information taken from the front matter
type Metadata struct {
	Title       string
	Description string
	Date        time.Time // calendar date, UTC midnight
	Banner      AssetRef
	Tags        []string
	// Custom metadata
	Custom map[string]string
}

// NewDocument creates a new document without blocks
func NewDocument(meta Metadata) *Document {
	if meta.Custom == nil {
		meta.Custom = make(map[string]string)
	}
	return &Document{
		Metadata: meta,
		Blocks:   make([]Block, 0),
	}
}

// AddBlock appends a block in reading order
func (d *Document) AddBlock(b Block) {
	d.Blocks = append(d.Blocks, b)
}

// HasTag reports whether the document carries the given tag (case-insensitive).
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DateString returns the date in YYYY-MM-DD form, or "" for a zero date
func (m Metadata) DateString() string {
	if m.Date.IsZero() {
		return ""
	}
	return m.Date.Format(DateLayout)
}

// DateLayout is the canonical calendar date layout used in documents.
const DateLayout = "2006-01-02"

// WalkBlocks visits every block depth-first in reading order, descending into
// component children and block-valued attributes. Returning false from fn
// skips the children of that block.
func (d *Document) WalkBlocks(fn func(b Block, depth int) bool) {
	walkBlocks(d.Blocks, 0, fn)
}

func walkBlocks(blocks []Block, depth int, fn func(b Block, depth int) bool) {
	for _, b := range blocks {
		if !fn(b, depth) {
			continue
		}
		c, ok := b.(*Component)
		if !ok {
			continue
		}
		for _, name := range c.Attrs.Names() {
			if nested, ok := c.Attrs.Blocks(name); ok {
				walkBlocks(nested, depth+1, fn)
			}
		}
		walkBlocks(c.Children, depth+1, fn)
	}
}

// Headings returns all headings in reading order, including those nested in
// components.
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	d.WalkBlocks(func(b Block, _ int) bool {
		if h, ok := b.(*Heading); ok {
			headings = append(headings, h)
		}
		return true
	})
	return headings
}

// Components returns the names of all invoked components, in order of first use.
func (d *Document) Components() []string {
	seen := make(map[string]bool)
	var names []string
	d.WalkBlocks(func(b Block, _ int) bool {
		if c, ok := b.(*Component); ok && !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
		return true
	})
	return names
}

// Text returns all text content concatenated, one block per paragraph
func (d *Document) Text() string {
	var sb strings.Builder
	d.WalkBlocks(func(b Block, _ int) bool {
		if te, ok := b.(TextBlock); ok {
			if t := te.GetText(); t != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(t)
			}
		}
		return true
	})
	return sb.String()
}

// TableOfContents returns headings organized as a document outline
func (d *Document) TableOfContents() []TOCEntry {
	var toc []TOCEntry
	for _, h := range d.Headings() {
		toc = append(toc, TOCEntry{
			Level: h.Level,
			Text:  h.Text,
			Line:  h.Line(),
		})
	}
	return toc
}

// TOCEntry represents an entry in the table of contents
type TOCEntry struct {
	Level int    // Heading level (1-6)
	Text  string // Heading text
	Line  int    // Source line of the heading
}
