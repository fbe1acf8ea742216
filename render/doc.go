/*
Package render turns a parsed document into HTML.

Blocks are visited in order. Headings, paragraphs and code blocks have
built-in formatters; component invocations are dispatched to the handler
registered under their name:

	r := render.New(component.Defaults(),
		render.WithHighlighter(highlight.New()),
		render.WithAssets(render.AssetMap{"dominik": "/img/dominik.webp"}))
	out, err := r.Render(doc)

A render either succeeds as a whole or fails: an unknown component, a
handler error or a nesting violation leaves the output sink untouched.

Paragraph text is inline markdown (GitHub flavored). Raw HTML inside
paragraphs is dropped unless WithRawHTML is given, in which case it is kept
and sanitized.

Markdown serializes a document back to its source form.
*/
package render

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.render'.
func tracer() tracing.Trace {
	return tracing.Select("folio.render")
}
