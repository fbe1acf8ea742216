/*
Package highlight turns fenced code into HTML with one element per source
line, so that lines listed in a fence's highlight ranges can be marked.

Tokens come from the chroma lexers and carry chroma's short class names
("kd", "s", "c1", ...), so the stylesheet written by CSS applies directly:

	h := highlight.New()
	out, err := h.Highlight("tsx", src, model.LineRanges{{Start: 2, End: 3}})

Highlighting is a pure function of its input.
*/
package highlight

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"

	"github.com/tsawler/folio/model"
)

// tracer traces with key 'folio.highlight'.
func tracer() tracing.Trace {
	return tracing.Select("folio.highlight")
}

// ErrUnknownStyle is returned by CSS for a style chroma does not know.
var ErrUnknownStyle = errors.New("highlight: unknown style")

// DefaultStyle is the chroma style used for CSS unless WithStyle is given.
const DefaultStyle = "github"

// Highlighter renders code blocks. It holds no per-call state and may be
// shared between goroutines.
type Highlighter struct {
	style string
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithStyle selects the chroma style written by CSS.
func WithStyle(name string) Option {
	return func(h *Highlighter) {
		if name != "" {
			h.style = name
		}
	}
}

// New creates a Highlighter.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{style: DefaultStyle}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Style returns the configured style name.
func (h *Highlighter) Style() string {
	return h.style
}

// lexer returns the lexer for lang, falling back to plain text.
func lexer(lang string) chroma.Lexer {
	var l chroma.Lexer
	if lang != "" {
		l = lexers.Get(lang)
	}
	if l == nil {
		if lang != "" {
			tracer().Debugf("no lexer for %q, using plain text", lang)
		}
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Highlight renders source as a <pre> element. Each source line becomes a
// <span class="line"> carrying its 1-based number in data-line and ending in
// its newline; lines within ranges get the additional class "hl".
func (h *Highlighter) Highlight(lang, source string, ranges model.LineRanges) (template.HTML, error) {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	it, err := lexer(lang).Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenizing %s: %w", lang, err)
	}
	lines := chroma.SplitTokensIntoLines(it.Tokens())
	count := strings.Count(source, "\n") + 1

	var sb strings.Builder
	sb.WriteString(`<pre class="chroma"`)
	if lang != "" {
		sb.WriteString(` data-lang="` + html.EscapeString(lang) + `"`)
	}
	sb.WriteString("><code>")
	for i := 0; i < count; i++ {
		n := i + 1
		sb.WriteString(`<span class="line`)
		if ranges.Contains(n) {
			sb.WriteString(" hl")
		}
		sb.WriteString(`" data-line="` + strconv.Itoa(n) + `">`)
		if i < len(lines) {
			writeTokens(&sb, lines[i])
		}
		if n < count {
			sb.WriteByte('\n')
		}
		sb.WriteString("</span>")
	}
	sb.WriteString("</code></pre>")
	return template.HTML(sb.String()), nil
}

func writeTokens(sb *strings.Builder, tokens []chroma.Token) {
	for _, tok := range tokens {
		text := strings.TrimSuffix(tok.Value, "\n")
		if text == "" {
			continue
		}
		if cls := tokenClass(tok.Type); cls != "" {
			sb.WriteString(`<span class="` + cls + `">` + html.EscapeString(text) + "</span>")
		} else {
			sb.WriteString(html.EscapeString(text))
		}
	}
}

// tokenClass finds the short class name of t or of its nearest ancestor.
func tokenClass(t chroma.TokenType) string {
	for t != 0 {
		if cls, ok := chroma.StandardTypes[t]; ok {
			return cls
		}
		t = t.Parent()
	}
	return ""
}

// Block renders a code block as a <figure>, with its title as <figcaption>.
func (h *Highlighter) Block(c *model.CodeBlock) (template.HTML, error) {
	code, err := h.Highlight(c.Language, c.Source, c.Highlight)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(`<figure class="code">`)
	if c.Title != "" {
		sb.WriteString("<figcaption>" + html.EscapeString(c.Title) + "</figcaption>")
	}
	sb.WriteString(string(code))
	sb.WriteString("</figure>")
	return template.HTML(sb.String()), nil
}

// CSS writes the stylesheet for the configured style.
func (h *Highlighter) CSS(w io.Writer) error {
	return CSS(w, h.style)
}

// CSS writes the stylesheet for the named chroma style.
func CSS(w io.Writer, style string) error {
	s, ok := styles.Registry[style]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	f := chromahtml.New(chromahtml.WithClasses(true))
	return f.WriteCSS(w, s)
}

// Styles lists the available style names.
func Styles() []string {
	return styles.Names()
}
