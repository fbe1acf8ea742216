package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/highlight"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/tokenizer"
)

// ErrUnknownAsset is returned by AssetMap for references it does not hold.
var ErrUnknownAsset = errors.New("render: unknown asset")

// AssetResolver maps asset references to URLs.
type AssetResolver interface {
	ResolveAsset(ref model.AssetRef) (string, error)
}

// AssetMap resolves references from a fixed table.
type AssetMap map[string]string

// ResolveAsset implements AssetResolver.
func (m AssetMap) ResolveAsset(ref model.AssetRef) (string, error) {
	if u, ok := m[string(ref)]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAsset, string(ref))
}

// identity uses the reference itself as URL.
type identity struct{}

func (identity) ResolveAsset(ref model.AssetRef) (string, error) {
	return string(ref), nil
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHighlighter sets the code block highlighter.
func WithHighlighter(h *highlight.Highlighter) Option {
	return func(r *Renderer) {
		if h != nil {
			r.highlighter = h
		}
	}
}

// WithAssets sets the asset resolver. Without it, references are used as
// URLs unchanged.
func WithAssets(a AssetResolver) Option {
	return func(r *Renderer) {
		if a != nil {
			r.assets = a
		}
	}
}

// WithRawHTML keeps raw HTML in paragraphs. The resulting markup is passed
// through a user generated content sanitizing policy.
func WithRawHTML() Option {
	return func(r *Renderer) {
		r.rawHTML = true
	}
}

// WithHeadingIDs controls whether headings get id attributes. Default true.
func WithHeadingIDs(on bool) Option {
	return func(r *Renderer) {
		r.headingIDs = on
	}
}

// WithMaxDepth bounds component nesting during rendering. Values < 1 are
// ignored.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) {
		if n >= 1 {
			r.maxDepth = n
		}
	}
}

// Renderer renders documents to HTML. It is immutable after New and may be
// used by several goroutines, provided its registry is frozen.
type Renderer struct {
	registry    *component.Registry
	highlighter *highlight.Highlighter
	assets      AssetResolver
	rawHTML     bool
	headingIDs  bool
	maxDepth    int
	md          goldmark.Markdown
	policy      *bluemonday.Policy
}

// New creates a Renderer dispatching components to reg. A nil reg means
// component.Defaults().
func New(reg *component.Registry, opts ...Option) *Renderer {
	if reg == nil {
		reg = component.Defaults()
	}
	r := &Renderer{
		registry:    reg,
		highlighter: highlight.New(),
		assets:      identity{},
		headingIDs:  true,
		maxDepth:    tokenizer.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	var rendererOpts []goldmark.Option
	if r.rawHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
		r.policy = bluemonday.UGCPolicy()
	}
	r.md = goldmark.New(append([]goldmark.Option{
		goldmark.WithParser(paragraphParser()),
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.TaskList),
	}, rendererOpts...)...)
	return r
}

// paragraphParser parses the text of a single Paragraph block. Headings,
// thematic breaks and code blocks belong to the tokenizer, so a paragraph
// never renders as one of them. Lists, quotes and HTML blocks stay.
func paragraphParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewBlockquoteParser(), 800),
			util.Prioritized(parser.NewHTMLBlockParser(), 900),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

// Registry returns the component registry used for dispatch.
func (r *Renderer) Registry() *component.Registry {
	return r.registry
}

// Render renders the body of doc.
func (r *Renderer) Render(doc *model.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo renders doc into w. Nothing is written unless the whole document
// rendered without error.
func (r *Renderer) RenderTo(w io.Writer, doc *model.Document) error {
	if doc == nil {
		return errors.New("render: nil document")
	}
	p := r.newPass()
	if err := p.blocks(doc.Blocks); err != nil {
		return err
	}
	tracer().Debugf("rendered %d blocks of %q into %d bytes", len(doc.Blocks), doc.Metadata.Title, p.out.Len())
	_, err := p.out.WriteTo(w)
	return err
}

// RenderBlocks renders a block sequence on its own, with a fresh slug table.
func (r *Renderer) RenderBlocks(blocks []model.Block) (template.HTML, error) {
	p := r.newPass()
	if err := p.blocks(blocks); err != nil {
		return "", err
	}
	return template.HTML(p.out.String()), nil
}

// pass holds the state of one render. It is the component.Env handed to
// handlers.
type pass struct {
	r     *Renderer
	out   bytes.Buffer
	slugs *Slugger
	depth int
}

func (r *Renderer) newPass() *pass {
	return &pass{r: r, slugs: NewSlugger()}
}

var _ component.Env = (*pass)(nil)

// RenderBlocks renders nested blocks into a separate buffer, sharing the
// slug table and nesting depth of the enclosing render.
func (p *pass) RenderBlocks(blocks []model.Block) (template.HTML, error) {
	sub := &pass{r: p.r, slugs: p.slugs, depth: p.depth}
	if err := sub.blocks(blocks); err != nil {
		return "", err
	}
	return template.HTML(sub.out.String()), nil
}

func (p *pass) ResolveAsset(ref model.AssetRef) (string, error) {
	return p.r.assets.ResolveAsset(ref)
}

func (p *pass) blocks(blocks []model.Block) error {
	for _, b := range blocks {
		var err error
		switch b := b.(type) {
		case *model.Heading:
			err = p.heading(b)
		case *model.Paragraph:
			err = p.paragraph(b)
		case *model.CodeBlock:
			err = p.code(b)
		case *model.Component:
			err = p.component(b)
		default:
			err = fmt.Errorf("render: line %d: unsupported block type %s", b.Line(), b.Type())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func (p *pass) heading(h *model.Heading) error {
	level := h.Level
	if level < 1 || level > 6 {
		return fmt.Errorf("render: line %d: heading level %d out of range", h.Line(), level)
	}
	inline, err := p.r.inline(h.Text)
	if err != nil {
		return err
	}
	a := headingAtoms[level]
	node := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if p.r.headingIDs {
		var text strings.Builder
		for _, n := range inline {
			textContent(&text, n)
		}
		node.Attr = []html.Attribute{{Key: "id", Val: p.slugs.Slug(text.String())}}
	}
	for _, n := range inline {
		node.AppendChild(n)
	}
	if err := html.Render(&p.out, node); err != nil {
		return err
	}
	p.out.WriteByte('\n')
	return nil
}

func (p *pass) paragraph(para *model.Paragraph) error {
	s, err := p.r.markdown(para.Text)
	if err != nil {
		return fmt.Errorf("render: line %d: %w", para.Line(), err)
	}
	p.out.WriteString(s)
	return nil
}

func (p *pass) code(c *model.CodeBlock) error {
	out, err := p.r.highlighter.Block(c)
	if err != nil {
		return fmt.Errorf("render: line %d: %w", c.Line(), err)
	}
	p.out.WriteString(string(out))
	p.out.WriteByte('\n')
	return nil
}

func (p *pass) component(c *model.Component) error {
	if p.depth+1 > p.r.maxDepth {
		return model.Errorf(tokenizer.ErrExceededNestingDepth, c.Line(),
			"<%s> is nested %d levels deep, limit is %d", c.Name, p.depth+1, p.r.maxDepth)
	}
	h, err := p.r.registry.Lookup(c.Name)
	if err != nil {
		return model.Errorf(component.ErrUnknownComponent, c.Line(), "<%s> is not registered", c.Name)
	}
	p.depth++
	defer func() { p.depth-- }()
	out, err := h.Render(component.Invocation{
		Name:     c.Name,
		Attrs:    c.Attrs,
		Children: c.Children,
		Line:     c.Line(),
		Env:      p,
	})
	if err != nil {
		var se *model.SourceError
		if errors.As(err, &se) {
			return err
		}
		return fmt.Errorf("render: line %d: <%s>: %w", c.Line(), c.Name, err)
	}
	p.out.WriteString(string(out))
	if !strings.HasSuffix(string(out), "\n") {
		p.out.WriteByte('\n')
	}
	return nil
}

// markdown converts a paragraph of inline markdown to HTML.
func (r *Renderer) markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	if r.policy != nil {
		return r.policy.Sanitize(buf.String()), nil
	}
	return buf.String(), nil
}

// inline converts heading text into HTML nodes. Text that markdown does not
// read as a single paragraph is kept literally.
func (r *Renderer) inline(text string) ([]*html.Node, error) {
	if text == "" {
		return nil, nil
	}
	s, err := r.markdown(text)
	if err != nil {
		return nil, err
	}
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return nil, err
	}
	var para *html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			if para != nil || n.DataAtom != atom.P {
				para = nil
				break
			}
			para = n
		}
	}
	if para == nil {
		return []*html.Node{{Type: html.TextNode, Data: text}}, nil
	}
	var out []*html.Node
	for c := para.FirstChild; c != nil; {
		next := c.NextSibling
		para.RemoveChild(c)
		out = append(out, c)
		c = next
	}
	return out, nil
}

func textContent(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(sb, c)
	}
}
