// Package index derives listing records from parsed documents, for
// downstream consumers such as a site index ordered by date or grouped by
// tag.
//
// # Records
//
// [NewRecord] summarizes a document:
//
//	rec, err := index.NewRecord(doc, index.DefaultRecordConfig())
//
// A [Record] carries the front matter fields, a slug, the heading outline
// with anchor ids, word count and reading time, and the components used.
// When an asset directory is configured, the banner image is opened to
// read its dimensions (PNG, JPEG, GIF and WebP are recognized).
//
// # Collections
//
// A [Collection] orders and filters records:
//
//	posts := index.NewCollection(records).FilterByTag("react").SortByDate()
//
// # Export Formats
//
// Records export as JSON Lines, a JSON array, YAML, CSV or TSV:
//
//	err := index.Export(w, records, index.DefaultExportConfig())
package index

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.index'.
func tracer() tracing.Trace {
	return tracing.Select("folio.index")
}
