/*
Package frontmatter extracts document metadata from the header block that
precedes the body of a document.

The header may be YAML (delimited by "---"), TOML ("+++") or JSON (";;;" or a
bare object). Title and date are required; a missing header, a missing
required field or an unparsable date yields ErrMalformedMetadata.

	meta, body, err := frontmatter.Parse(raw)
*/
package frontmatter

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.frontmatter'.
func tracer() tracing.Trace {
	return tracing.Select("folio.frontmatter")
}
