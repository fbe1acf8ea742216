package folio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/frontmatter"
	"github.com/tsawler/folio/highlight"
	"github.com/tsawler/folio/index"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/render"
	"github.com/tsawler/folio/tokenizer"
)

// Source provides a fluent interface for parsing and rendering a document.
// Each configuration method returns a new Source instance, making it
// safe for concurrent use and allowing method chaining.
type Source struct {
	// Input
	name   string
	format format.Format
	data   []byte
	loaded bool // true once data holds the document text

	// Configuration
	options RenderOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Source with a deep copy of options.
// The document bytes are shared; they are never modified.
func (s *Source) clone() *Source {
	return &Source{
		name:    s.name,
		format:  s.format,
		data:    s.data,
		loaded:  s.loaded,
		options: s.options.clone(),
		err:     s.err,
	}
}

// Name returns the file name the source was opened with.
func (s *Source) Name() string {
	return s.name
}

// Format returns the detected source format.
func (s *Source) Format() format.Format {
	return s.format
}

// ============================================================================
// Configuration Methods (return new Source instance)
// ============================================================================

// Registry selects the component set used for rendering. Unfrozen
// registries are frozen here.
//
// Example:
//
//	reg := component.Defaults().Extend()
//	reg.MustRegister("Box", box)
//	html, err := folio.Open("post.mdx").Registry(reg).HTML()
func (s *Source) Registry(reg *component.Registry) *Source {
	newSrc := s.clone()
	if reg != nil {
		reg.Freeze()
	}
	newSrc.options.registry = reg
	return newSrc
}

// MaxDepth bounds component nesting. Values below one are rejected by the
// first terminal operation.
func (s *Source) MaxDepth(n int) *Source {
	newSrc := s.clone()
	if n < 1 && newSrc.err == nil {
		newSrc.err = fmt.Errorf("folio: max depth must be positive, got %d", n)
	}
	newSrc.options.maxDepth = n
	return newSrc
}

// Assets maps asset references to URLs. Multiple calls are cumulative.
// Once set, references missing from the map fail rendering.
//
// Example:
//
//	html, err := folio.Open("post.mdx").
//	    Assets(map[string]string{"dominik": "/img/dominik.webp"}).
//	    HTML()
func (s *Source) Assets(assets map[string]string) *Source {
	newSrc := s.clone()
	if newSrc.options.assets == nil {
		newSrc.options.assets = make(map[string]string, len(assets))
	}
	for k, v := range assets {
		newSrc.options.assets[k] = v
	}
	return newSrc
}

// AssetDir sets the directory banner images are read from by Record.
func (s *Source) AssetDir(dir string) *Source {
	newSrc := s.clone()
	newSrc.options.assetDir = dir
	return newSrc
}

// RawHTML lets HTML embedded in prose through a sanitizing policy instead of
// dropping it.
func (s *Source) RawHTML() *Source {
	newSrc := s.clone()
	newSrc.options.rawHTML = true
	return newSrc
}

// HeadingIDs toggles id attributes on rendered headings (default on).
func (s *Source) HeadingIDs(on bool) *Source {
	newSrc := s.clone()
	newSrc.options.headingIDs = on
	return newSrc
}

// Style selects the highlight style written by CSS.
func (s *Source) Style(name string) *Source {
	newSrc := s.clone()
	if name != "" {
		newSrc.options.style = name
	}
	return newSrc
}

// ============================================================================
// Terminal Operations
// ============================================================================

// load reads the file on first use.
func (s *Source) load() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.loaded {
		return s.data, nil
	}
	data, err := os.ReadFile(s.name)
	if err != nil {
		return nil, fmt.Errorf("folio: %w", err)
	}
	return data, nil
}

// parse runs the front matter parser and the tokenizer.
func (s *Source) parse(id string) (*model.Document, error) {
	raw, err := s.load()
	if err != nil {
		return nil, err
	}
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, s.wrap(err)
	}
	blocks, err := tokenizer.Tokenize(body,
		tokenizer.WithMaxDepth(s.options.maxDepth),
		tokenizer.WithLineOffset(frontmatter.BodyLine(raw)),
	)
	if err != nil {
		return nil, s.wrap(err)
	}
	doc := model.NewDocument(meta)
	doc.Blocks = blocks
	tracer().Debugf("[%s] parsed %s: %d blocks", id, s.label(), len(blocks))
	return doc, nil
}

// wrap prefixes err with the source name.
func (s *Source) wrap(err error) error {
	if s.name == "" {
		return err
	}
	return fmt.Errorf("%s: %w", s.name, err)
}

func (s *Source) label() string {
	if s.name == "" {
		return "<bytes>"
	}
	return s.name
}

// requestID tags the trace lines of one terminal operation.
func requestID() string {
	return uuid.NewString()
}

// Document parses the source into its block tree.
//
// Example:
//
//	doc, err := folio.Open("post.mdx").Document()
//	for _, h := range doc.Headings() {
//	    fmt.Println(h.Level, h.Text)
//	}
func (s *Source) Document() (*model.Document, error) {
	return s.parse(requestID())
}

// HTML parses and renders the source.
//
// Example:
//
//	html, err := folio.Open("post.mdx").HTML()
func (s *Source) HTML() (string, error) {
	var buf bytes.Buffer
	if err := s.WriteHTML(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML parses and renders the source to w. Nothing is written when
// parsing or rendering fails.
func (s *Source) WriteHTML(w io.Writer) error {
	id := requestID()
	doc, err := s.parse(id)
	if err != nil {
		tracer().Debugf("[%s] %v", id, err)
		return err
	}
	if err := s.options.renderer().RenderTo(w, doc); err != nil {
		tracer().Debugf("[%s] %v", id, err)
		return s.wrap(err)
	}
	tracer().Debugf("[%s] rendered %s", id, s.label())
	return nil
}

// Record parses the source and summarizes it for an index.
func (s *Source) Record() (*index.Record, error) {
	id := requestID()
	doc, err := s.parse(id)
	if err != nil {
		return nil, err
	}
	rec, err := index.NewRecord(doc, s.options.recordConfig())
	if err != nil {
		return nil, s.wrap(err)
	}
	rec.Source = s.name
	return rec, nil
}

// Markdown parses the source and serializes it back to canonical source
// form.
func (s *Source) Markdown() ([]byte, error) {
	doc, err := s.parse(requestID())
	if err != nil {
		return nil, err
	}
	return render.Markdown(doc)
}

// CSS writes the highlight stylesheet for the configured style.
func (s *Source) CSS(w io.Writer) error {
	return highlight.CSS(w, s.options.style)
}
