package tokenizer

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/tsawler/folio/model"
)

var (
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	numberPattern = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	assetPattern  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)
)

// component reads a component invocation: the opening tag, the body up to
// the matching closing tag, and the recursively tokenized children.
func (t *Tokenizer) component() (model.Block, error) {
	start := t.pos
	line := t.lines[start]
	m := componentPattern.FindStringSubmatchIndex(line)
	name := line[m[2]:m[3]]

	level := t.depth + 1
	if level > t.maxDepth {
		return nil, model.Errorf(ErrExceededNestingDepth, t.lineNo(start),
			"<%s> is nested %d levels deep, limit is %d", name, level, t.maxDepth)
	}

	sc := t.tagScanner(start, m[3], level)
	attrs, selfClosing, err := sc.scan(name)
	if err != nil {
		return nil, err
	}
	end := sc.lineIndex()
	rest := sc.restOfLine()
	tracer().Debugf("component <%s> at line %d, %d attribute(s), level %d", name, t.lineNo(start), attrs.Len(), level)

	c := &model.Component{
		Pos:         model.Pos(t.lineNo(start)),
		Name:        name,
		Attrs:       attrs,
		SelfClosing: selfClosing,
	}
	if selfClosing {
		if strings.TrimSpace(rest) != "" {
			return nil, model.Errorf(ErrInvalidAttribute, t.lineNo(end), "unexpected text after <%s />", name)
		}
		t.pos = end + 1
		return c, nil
	}

	closeTag := "</" + name + ">"
	r := strings.TrimSpace(rest)
	if i := strings.LastIndex(r, closeTag); i >= 0 && i+len(closeTag) < len(r) {
		return nil, model.Errorf(ErrInvalidAttribute, t.lineNo(end), "unexpected text after %s", closeTag)
	}
	if strings.HasSuffix(r, closeTag) {
		inner := strings.TrimSuffix(r, closeTag)
		c.Children, err = t.child([]string{inner}, end, level).All()
		if err != nil {
			return nil, err
		}
		t.pos = end + 1
		return c, nil
	}

	closeIdx, before, found := t.findClose(name, end+1)
	if !found {
		return nil, model.Errorf(ErrUnterminatedBlock, t.lineNo(start), "<%s> is never closed", name)
	}
	bodyFirst := end + 1
	var body []string
	if strings.TrimSpace(rest) != "" {
		bodyFirst = end
		body = append(body, rest)
	}
	body = append(body, t.lines[end+1:closeIdx]...)
	if strings.TrimSpace(before) != "" {
		body = append(body, before)
	}
	c.Children, err = t.child(body, bodyFirst, level).All()
	if err != nil {
		return nil, err
	}
	t.pos = closeIdx + 1
	return c, nil
}

// findClose searches for the closing tag of name, starting at line index
// from. Nested invocations of the same component are counted; fenced code is
// skipped. before is the text preceding the closing tag on its line.
func (t *Tokenizer) findClose(name string, from int) (idx int, before string, found bool) {
	closeTag := "</" + name + ">"
	nest := 0
	fence := ""
	for i := from; i < len(t.lines); i++ {
		line := t.lines[i]
		if fence != "" {
			if isClosingFence(line, fence) {
				fence = ""
			}
			continue
		}
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			if m[2][0] != '`' || !strings.ContainsRune(m[3], '`') {
				fence = m[2]
				continue
			}
		}
		s := strings.TrimSpace(line)
		if opensTag(s, name) {
			if strings.HasSuffix(s, closeTag) {
				continue
			}
			m := componentPattern.FindStringSubmatchIndex(line)
			sc := t.tagScanner(i, m[3], 0)
			sc.skim = true
			if _, selfClosing, err := sc.scan(name); err == nil {
				closedInline := strings.HasSuffix(strings.TrimSpace(sc.restOfLine()), closeTag)
				if !selfClosing && !closedInline {
					nest++
				}
				i = sc.lineIndex()
				continue
			}
			nest++
			continue
		}
		if strings.HasSuffix(s, closeTag) {
			if nest == 0 {
				cut := strings.LastIndex(line, closeTag)
				return i, line[:cut], true
			}
			nest--
		}
	}
	return 0, "", false
}

// opensTag reports whether s starts with an opening tag for name.
func opensTag(s, name string) bool {
	if !strings.HasPrefix(s, "<"+name) {
		return false
	}
	rest := s[len(name)+1:]
	return rest == "" || strings.ContainsRune(" \t>/", rune(rest[0]))
}

// tagScanner reads the attributes of an opening tag. Its source starts at
// column col of line index first and grows one whole line at a time, only as
// far as the tag extends.
type tagScanner struct {
	t      *Tokenizer
	src    string
	pos    int
	first  int   // line index of src[0]
	starts []int // offset in src of each loaded line
	level  int   // nesting level of the component owning the attributes
	skim   bool
}

func (t *Tokenizer) tagScanner(first, col, level int) *tagScanner {
	return &tagScanner{t: t, src: t.lines[first][col:], first: first, starts: []int{0}, level: level}
}

// more appends the next input line to src.
func (sc *tagScanner) more() bool {
	next := sc.first + len(sc.starts)
	if next >= len(sc.t.lines) {
		return false
	}
	sc.starts = append(sc.starts, len(sc.src)+1)
	sc.src += "\n" + sc.t.lines[next]
	return true
}

// ensure loads lines until src holds at least n bytes.
func (sc *tagScanner) ensure(n int) bool {
	for len(sc.src) < n {
		if !sc.more() {
			return false
		}
	}
	return true
}

// index returns the offset of the first sub at or after from, or -1.
func (sc *tagScanner) index(from int, sub string) int {
	for {
		if i := strings.Index(sc.src[from:], sub); i >= 0 {
			return from + i
		}
		if n := len(sc.src) - len(sub) + 1; n > from {
			from = n
		}
		if !sc.more() {
			return -1
		}
	}
}

// lineIndexAt returns the line index holding src[at].
func (sc *tagScanner) lineIndexAt(at int) int {
	return sc.first + sort.SearchInts(sc.starts, at+1) - 1
}

func (sc *tagScanner) lineIndex() int {
	return sc.lineIndexAt(sc.pos)
}

// restOfLine returns the text following the scan position on its line.
func (sc *tagScanner) restOfLine() string {
	rest := sc.src[sc.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func (sc *tagScanner) unterminated(name string) error {
	return model.Errorf(ErrUnterminatedBlock, sc.t.lineNo(sc.first), "opening tag <%s is never closed", name)
}

func (sc *tagScanner) invalid(format string, args ...interface{}) error {
	return model.Errorf(ErrInvalidAttribute, sc.t.lineNo(sc.lineIndex()), format, args...)
}

func (sc *tagScanner) skipSpace() {
	for sc.ensure(sc.pos+1) && strings.IndexByte(" \t\n", sc.src[sc.pos]) >= 0 {
		sc.pos++
	}
}

func (sc *tagScanner) ident() string {
	start := sc.pos
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		isLetter := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == ':'
		if !isLetter && (sc.pos == start || !(c >= '0' && c <= '9' || c == '-' || c == '.')) {
			break
		}
		sc.pos++
	}
	return sc.src[start:sc.pos]
}

// scan reads attributes up to and including the end of the opening tag.
func (sc *tagScanner) scan(name string) (model.Attributes, bool, error) {
	var attrs model.Attributes
	for {
		sc.skipSpace()
		if sc.pos >= len(sc.src) {
			return attrs, false, sc.unterminated(name)
		}
		if sc.src[sc.pos] == '>' {
			sc.pos++
			return attrs, false, nil
		}
		if strings.HasPrefix(sc.src[sc.pos:], "/>") {
			sc.pos += 2
			return attrs, true, nil
		}
		attr := sc.ident()
		if attr == "" {
			return attrs, false, sc.invalid("unexpected %q in <%s>", sc.src[sc.pos:sc.pos+1], name)
		}
		if attrs.Has(attr) {
			return attrs, false, sc.invalid("duplicate attribute %q in <%s>", attr, name)
		}
		sc.skipSpace()
		if sc.pos >= len(sc.src) || sc.src[sc.pos] != '=' {
			attrs.Set(attr, model.StringValue("true"))
			continue
		}
		sc.pos++
		sc.skipSpace()
		v, err := sc.value(name, attr)
		if err != nil {
			return attrs, false, err
		}
		attrs.Set(attr, v)
	}
}

func (sc *tagScanner) value(name, attr string) (model.Value, error) {
	if !sc.ensure(sc.pos + 1) {
		return model.Value{}, sc.unterminated(name)
	}
	switch q := sc.src[sc.pos]; q {
	case '"', '\'':
		end := sc.index(sc.pos+1, string(q))
		if end < 0 {
			return model.Value{}, sc.unterminated(name)
		}
		s := sc.src[sc.pos+1 : end]
		sc.pos = end + 1
		return model.StringValue(html.UnescapeString(s)), nil
	case '{':
		return sc.expression(name, attr)
	}
	return model.Value{}, sc.invalid("attribute %q: value must be quoted or wrapped in braces", attr)
}

// expression reads a braced attribute value: a fragment {<>...</>}, a date,
// a number, a quoted literal or an asset identifier.
func (sc *tagScanner) expression(name, attr string) (model.Value, error) {
	sc.pos++ // '{'
	sc.skipSpace()
	if strings.HasPrefix(sc.src[sc.pos:], "<>") {
		fragStart := sc.pos + 2
		end := sc.fragmentEnd(fragStart)
		if end < 0 {
			return model.Value{}, sc.unterminated(name)
		}
		inner := sc.src[fragStart:end]
		sc.pos = end + len("</>")
		sc.skipSpace()
		if !sc.ensure(sc.pos+1) || sc.src[sc.pos] != '}' {
			return model.Value{}, sc.invalid("attribute %q: expected } after fragment", attr)
		}
		sc.pos++
		if sc.skim {
			return model.Value{}, nil
		}
		first := sc.lineIndexAt(fragStart)
		blocks, err := sc.t.child(strings.Split(inner, "\n"), first, sc.level).All()
		if err != nil {
			return model.Value{}, err
		}
		return model.BlocksValue(blocks), nil
	}

	start := sc.pos
	depth := 1
	var quote byte
	for ; sc.ensure(sc.pos + 1); sc.pos++ {
		c := sc.src[sc.pos]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				expr := strings.TrimSpace(sc.src[start:sc.pos])
				v, err := sc.literal(attr, expr)
				sc.pos++
				return v, err
			}
		}
	}
	return model.Value{}, sc.unterminated(name)
}

// fragmentEnd returns the offset of the </> closing the fragment whose content
// starts at from. Nested fragments are paired.
func (sc *tagScanner) fragmentEnd(from int) int {
	nest := 0
	for i := from; sc.ensure(i + 1); i++ {
		switch {
		case strings.HasPrefix(sc.src[i:], "</>"):
			if nest == 0 {
				return i
			}
			nest--
			i += len("</>") - 1
		case strings.HasPrefix(sc.src[i:], "<>"):
			nest++
			i += len("<>") - 1
		}
	}
	return -1
}

func (sc *tagScanner) literal(attr, expr string) (model.Value, error) {
	switch {
	case datePattern.MatchString(expr):
		d, err := time.Parse(model.DateLayout, expr)
		if err != nil {
			return model.Value{}, sc.invalid("attribute %q: bad date %q", attr, expr)
		}
		return model.DateValue(d), nil
	case numberPattern.MatchString(expr), expr == "true", expr == "false":
		return model.StringValue(expr), nil
	case len(expr) >= 2 && strings.ContainsRune("\"'`", rune(expr[0])) && expr[len(expr)-1] == expr[0]:
		return model.StringValue(expr[1 : len(expr)-1]), nil
	case assetPattern.MatchString(expr):
		return model.AssetValue(model.AssetRef(expr)), nil
	}
	if sc.skim {
		return model.Value{}, nil
	}
	return model.Value{}, sc.invalid("attribute %q: unsupported expression {%s}", attr, expr)
}
