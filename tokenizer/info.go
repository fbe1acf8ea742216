package tokenizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/folio/model"
)

// parseInfo splits a fence info string into language, title and highlighted
// line ranges. Words after the language that are neither a title nor a range
// list are ignored.
func parseInfo(info string) (lang, title string, ranges model.LineRanges, err error) {
	s := strings.TrimSpace(info)
	for s != "" {
		switch {
		case s[0] == '{':
			end := strings.IndexByte(s, '}')
			if end < 0 {
				return "", "", nil, fmt.Errorf("unclosed line range %q", s)
			}
			rs, err := parseRanges(s[1:end])
			if err != nil {
				return "", "", nil, err
			}
			ranges = append(ranges, rs...)
			s = s[end+1:]

		case strings.HasPrefix(s, "title="):
			v, rest, err := infoValue(s[len("title="):])
			if err != nil {
				return "", "", nil, err
			}
			title = v
			s = rest

		default:
			end := strings.IndexAny(s, " \t{")
			if end < 0 {
				end = len(s)
			}
			if lang == "" {
				lang = s[:end]
			}
			s = s[end:]
		}
		s = strings.TrimLeft(s, " \t")
	}
	return lang, title, ranges, nil
}

// infoValue reads a quoted or bare value and returns it with the rest of s.
func infoValue(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("title has no value")
	}
	if q := s[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(s[1:], q)
		if end < 0 {
			return "", "", fmt.Errorf("unclosed quote in %q", s)
		}
		return s[1 : end+1], s[end+2:], nil
	}
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		end = len(s)
	}
	return s[:end], s[end:], nil
}

// parseRanges parses "1,3-5" into line ranges. Lines are 1-based and a range
// must not run backwards.
func parseRanges(s string) (model.LineRanges, error) {
	var ranges model.LineRanges
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.IndexByte(part, '-'); i >= 0 {
			lo, hi = strings.TrimSpace(part[:i]), strings.TrimSpace(part[i+1:])
		}
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bad line range %q", part)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bad line range %q", part)
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("bad line range %q", part)
		}
		ranges = append(ranges, model.LineRange{Start: start, End: end})
	}
	return ranges, nil
}
