package index

import (
	"fmt"
	"image"
	_ "image/gif"  // banner formats
	_ "image/jpeg" // banner formats
	_ "image/png"  // banner formats
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp" // banner formats

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/render"
)

// RecordConfig holds configuration for record extraction
type RecordConfig struct {
	// WordsPerMinute for reading time estimation (default: 200)
	WordsPerMinute int

	// AssetDir is the directory banner references are resolved against.
	// Empty disables reading banner dimensions.
	AssetDir string

	// IncludeCode counts words inside code blocks
	IncludeCode bool
}

// DefaultRecordConfig returns sensible defaults
func DefaultRecordConfig() RecordConfig {
	return RecordConfig{
		WordsPerMinute: 200,
	}
}

// Record is the listing entry of one document.
type Record struct {
	Title          string            `json:"title" yaml:"title"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	Date           string            `json:"date" yaml:"date"`
	Tags           []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Banner         *Banner           `json:"banner,omitempty" yaml:"banner,omitempty"`
	Slug           string            `json:"slug" yaml:"slug"`
	Source         string            `json:"source,omitempty" yaml:"source,omitempty"`
	Headings       []Heading         `json:"headings,omitempty" yaml:"headings,omitempty"`
	WordCount      int               `json:"word_count" yaml:"word_count"`
	ReadingMinutes int               `json:"reading_minutes" yaml:"reading_minutes"`
	Components     []string          `json:"components,omitempty" yaml:"components,omitempty"`
	Custom         map[string]string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Banner describes the banner image of a document.
type Banner struct {
	Ref    string `json:"ref" yaml:"ref"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Heading is an outline entry with the anchor id the renderer assigns.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	ID    string `json:"id" yaml:"id"`
}

// NewRecord summarizes doc. An unreadable banner is an error only when an
// asset directory is configured.
func NewRecord(doc *model.Document, config RecordConfig) (*Record, error) {
	if doc == nil {
		return nil, fmt.Errorf("index: nil document")
	}
	meta := doc.Metadata
	rec := &Record{
		Title:       meta.Title,
		Description: meta.Description,
		Date:        meta.DateString(),
		Tags:        meta.Tags,
		Slug:        meta.Custom["slug"],
		Components:  doc.Components(),
	}
	if rec.Slug == "" {
		rec.Slug = render.Slugify(meta.Title)
	}
	if len(meta.Custom) > 0 {
		rec.Custom = make(map[string]string, len(meta.Custom))
		for k, v := range meta.Custom {
			rec.Custom[k] = v
		}
	}

	slugs := render.NewSlugger()
	for _, entry := range doc.TableOfContents() {
		rec.Headings = append(rec.Headings, Heading{
			Level: entry.Level,
			Text:  entry.Text,
			ID:    slugs.Slug(entry.Text),
		})
	}

	rec.WordCount = countWords(doc, config.IncludeCode)
	rec.ReadingMinutes = readingMinutes(rec.WordCount, config.WordsPerMinute)

	if !meta.Banner.IsZero() {
		banner := &Banner{Ref: string(meta.Banner)}
		if config.AssetDir != "" {
			if err := banner.decode(config.AssetDir); err != nil {
				return nil, err
			}
		}
		rec.Banner = banner
	}
	tracer().Debugf("record %q: %d words, %d headings", rec.Slug, rec.WordCount, len(rec.Headings))
	return rec, nil
}

// decode reads the image dimensions of the banner file.
func (b *Banner) decode(dir string) error {
	path := filepath.Join(dir, filepath.FromSlash(b.Ref))
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("index: banner: %w", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("index: banner %s: %w", b.Ref, err)
	}
	b.Width, b.Height, b.Format = cfg.Width, cfg.Height, format
	return nil
}

// countWords counts words of headings and prose, including text nested in
// components.
func countWords(doc *model.Document, includeCode bool) int {
	n := 0
	doc.WalkBlocks(func(b model.Block, _ int) bool {
		switch b := b.(type) {
		case *model.Heading:
			n += len(strings.Fields(b.Text))
		case *model.Paragraph:
			n += len(strings.Fields(b.Text))
		case *model.CodeBlock:
			if includeCode {
				n += len(strings.Fields(b.Source))
			}
		}
		return true
	})
	return n
}

// readingMinutes rounds up; any text reads in at least one minute.
func readingMinutes(words, wordsPerMinute int) int {
	if words == 0 {
		return 0
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = 200
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// ReadingTimeString returns a human-readable reading time
func (r *Record) ReadingTimeString() string {
	if r.ReadingMinutes <= 1 {
		return "1 min read"
	}
	return fmt.Sprintf("%d min read", r.ReadingMinutes)
}

// HasTag reports whether the record carries tag, ignoring case.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
