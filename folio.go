// Package folio provides a fluent API for rendering long-form documents
// written as front matter plus Markdown with embedded components.
//
// Basic usage:
//
//	html, err := folio.Open("posts/breaking-the-cache.mdx").HTML()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	html, err := folio.Open("post.mdx").
//	    Assets(map[string]string{"dominik": "/img/dominik.webp"}).
//	    MaxDepth(4).
//	    HTML()
//
// Errors carry the source line where parsing or rendering failed; test them
// with errors.Is against ErrMalformedMetadata, ErrUnknownComponent,
// ErrUnterminatedBlock and ErrExceededNestingDepth.
//
// For finer control the frontmatter, tokenizer, component and render
// packages are available directly.
package folio

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/frontmatter"
	"github.com/tsawler/folio/tokenizer"
)

// tracer traces with key 'folio'.
func tracer() tracing.Trace {
	return tracing.Select("folio")
}

// Error kinds reported while parsing or rendering.
var (
	ErrMalformedMetadata    = frontmatter.ErrMalformedMetadata
	ErrUnknownComponent     = component.ErrUnknownComponent
	ErrUnterminatedBlock    = tokenizer.ErrUnterminatedBlock
	ErrExceededNestingDepth = tokenizer.ErrExceededNestingDepth
)

// ErrUnsupportedFormat is returned by Open for files that are neither
// Markdown nor MDX.
var ErrUnsupportedFormat = errors.New("folio: unsupported format")

// Open returns a Source for the named file. The file is read by the first
// terminal operation.
//
// Example:
//
//	doc, err := folio.Open("post.mdx").Document()
func Open(filename string) *Source {
	s := &Source{
		name:    filename,
		format:  format.Detect(filename),
		options: defaultOptions(),
	}
	if s.format == format.Unknown {
		s.err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	return s
}

// FromBytes returns a Source for an in-memory document. name is used in
// error messages and recorded as the source of index records; it may be
// empty.
//
// Example:
//
//	html, err := folio.FromBytes("post.mdx", data).HTML()
func FromBytes(name string, data []byte) *Source {
	return &Source{
		name:    name,
		format:  format.Detect(name),
		data:    append([]byte(nil), data...),
		loaded:  true,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	html := folio.Must(folio.Open("post.mdx").HTML())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
