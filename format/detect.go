// Package format provides source format detection for the folio library.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported document source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// Markdown indicates a plain Markdown document with front matter.
	Markdown
	// MDX indicates a Markdown document with embedded component tags.
	MDX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case MDX:
		return "MDX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case MDX:
		return ".mdx"
	default:
		return ""
	}
}

// Detect determines the source format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return Markdown
	case ".mdx":
		return MDX
	default:
		return Unknown
	}
}

// FrontMatter represents the encoding of a document's metadata header.
type FrontMatter int

const (
	// NoFrontMatter indicates the document has no recognizable header.
	NoFrontMatter FrontMatter = iota
	// YAML front matter delimited by "---".
	YAML
	// TOML front matter delimited by "+++".
	TOML
	// JSON front matter delimited by ";;;" or a bare object.
	JSON
)

// String returns the string representation of the front matter format.
func (f FrontMatter) String() string {
	switch f {
	case YAML:
		return "YAML"
	case TOML:
		return "TOML"
	case JSON:
		return "JSON"
	default:
		return "None"
	}
}

// DetectFrontMatter inspects the first line of data to determine how the
// metadata header is encoded. A leading byte order mark and blank lines are
// skipped.
func DetectFrontMatter(data []byte) FrontMatter {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	// Skip leading blank lines
	for {
		i := bytes.IndexByte(data, '\n')
		line := data
		if i >= 0 {
			line = data[:i]
		}
		if len(bytes.TrimSpace(line)) != 0 || i < 0 {
			break
		}
		data = data[i+1:]
	}

	first := data
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	delim := strings.TrimSpace(string(first))

	switch {
	case delim == "---" || delim == "---yaml":
		return YAML
	case delim == "+++" || delim == "---toml":
		return TOML
	case delim == ";;;" || delim == "---json" || delim == "{":
		return JSON
	}
	return NoFrontMatter
}
