// Package model provides the intermediate representation (IR) for parsed
// documents.
//
// This package defines the user-facing data structures that represent the
// semantic structure of an authored document. The front-matter parser and the
// block tokenizer produce these types and the renderer consumes them, making
// them the primary API for anything that inspects parsed content.
//
// # Document Structure
//
// The [Document] type represents a complete document with metadata and an
// ordered block sequence:
//
//	doc := model.NewDocument(meta)
//	doc.AddBlock(&model.Heading{Level: 1, Text: "Hi"})
//
// Block order is reading order and is preserved exactly as authored.
//
// # Blocks
//
// All body content implements the [Block] interface. The concrete types are:
//
//   - [Heading] - headings (levels 1-6)
//   - [Paragraph] - inline-rich text
//   - [CodeBlock] - fenced code with language, title and highlighted lines
//   - [Component] - a named, attribute-bearing invocation with child blocks
//
// # Attributes
//
// Component attributes are held in [Attributes], an insertion-ordered mapping
// from name to [Value]. A value is a string, a calendar date, a nested block
// sequence or a reference to a named asset ([AssetRef]).
//
// # Errors
//
// Parsing errors that point at a position in the source are reported as
// [SourceError] values which wrap one of the packages' error kinds, so
// errors.Is works against the sentinel.
package model
