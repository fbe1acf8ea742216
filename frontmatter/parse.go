package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"

	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/model"
)

// ErrMalformedMetadata is returned when the header is absent, lacks a
// required field or carries an unparsable date.
var ErrMalformedMetadata = errors.New("frontmatter: malformed metadata")

// dateLayouts are tried in order; the first match wins.
var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// reserved keys are mapped onto Metadata fields and never copied to Custom.
var reserved = map[string]bool{
	"title":       true,
	"description": true,
	"date":        true,
	"banner":      true,
	"tags":        true,
}

// Parse extracts the leading metadata block from raw and returns the metadata
// together with the remaining body text.
func Parse(raw []byte) (model.Metadata, []byte, error) {
	var meta model.Metadata

	fm := format.DetectFrontMatter(raw)
	if fm == format.NoFrontMatter {
		return meta, nil, model.Errorf(ErrMalformedMetadata, 1, "missing front matter header")
	}

	var fields map[string]interface{}
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &fields)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return meta, nil, model.Errorf(ErrMalformedMetadata, 1, "unterminated %s front matter", fm)
		}
		return meta, nil, model.Errorf(ErrMalformedMetadata, 1, "decoding %s front matter: %v", fm, err)
	}
	tracer().Debugf("front matter: %s header with %d field(s)", fm, len(fields))

	meta, err = fromFields(fields)
	if err != nil {
		return model.Metadata{}, nil, err
	}
	return meta, body, nil
}

// fromFields maps decoded header fields onto Metadata.
func fromFields(fields map[string]interface{}) (model.Metadata, error) {
	meta := model.Metadata{Custom: make(map[string]string)}

	title, ok := fields["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return meta, model.Errorf(ErrMalformedMetadata, 1, "required field %q is missing", "title")
	}
	meta.Title = strings.TrimSpace(title)

	rawDate, ok := fields["date"]
	if !ok || rawDate == nil {
		return meta, model.Errorf(ErrMalformedMetadata, 1, "required field %q is missing", "date")
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return meta, model.Errorf(ErrMalformedMetadata, 1, "field %q: %v", "date", err)
	}
	meta.Date = date

	if desc, ok := fields["description"]; ok && desc != nil {
		meta.Description = strings.TrimSpace(fmt.Sprint(desc))
	}
	if banner, ok := fields["banner"].(string); ok {
		meta.Banner = model.AssetRef(strings.TrimSpace(banner))
	}
	if tags, ok := fields["tags"]; ok && tags != nil {
		meta.Tags, err = parseTags(tags)
		if err != nil {
			return meta, model.Errorf(ErrMalformedMetadata, 1, "field %q: %v", "tags", err)
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if reserved[k] {
			continue
		}
		if s, ok := scalarString(fields[k]); ok {
			meta.Custom[k] = s
		}
	}
	return meta, nil
}

// parseDate accepts date strings in any of dateLayouts and native time values
// as produced by TOML decoding. The result is a UTC calendar date.
func parseDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return calendarDate(d), nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return calendarDate(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as a date, use YYYY-MM-DD or RFC3339", s)
	default:
		return time.Time{}, fmt.Errorf("unexpected value of type %T", v)
	}
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseTags accepts a list of strings or a comma separated string. Tags form
// a set: duplicates under Unicode case folding are dropped, keeping the first
// spelling.
func parseTags(v interface{}) ([]string, error) {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []interface{}:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tag %v is not a string", item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("unexpected value of type %T", v)
	}

	fold := cases.Fold()
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := fold.String(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

func scalarString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool, int, int64, float64:
		return fmt.Sprint(s), true
	case time.Time:
		return s.Format(time.RFC3339), true
	}
	return "", false
}

// BodyLine returns the 1-based line of raw on which the body starts, i.e. the
// line after the closing header delimiter. It returns 1 if raw has no
// recognizable header.
func BodyLine(raw []byte) int {
	fm := format.DetectFrontMatter(raw)
	if fm == format.NoFrontMatter {
		return 1
	}
	lines := strings.Split(string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))), "\n")
	open := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" && open < 0 {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		if isClosing(fm, lines[open], line) {
			return i + 2
		}
	}
	return 1
}

func isClosing(fm format.FrontMatter, opening, line string) bool {
	opening = strings.TrimSpace(opening)
	line = strings.TrimRight(line, " \t\r")
	switch {
	case opening == "{":
		return line == "}"
	case strings.HasPrefix(opening, "---"):
		return line == "---"
	case fm == format.TOML:
		return line == "+++"
	case fm == format.JSON:
		return line == ";;;"
	}
	return false
}
