package tokenizer

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/tsawler/folio/model"
)

var (
	// ErrUnterminatedBlock is returned for a fence or component still open at
	// the end of input.
	ErrUnterminatedBlock = errors.New("tokenizer: unterminated block")
	// ErrExceededNestingDepth is returned for components nested deeper than
	// the configured bound.
	ErrExceededNestingDepth = errors.New("tokenizer: exceeded nesting depth")
	// ErrInvalidAttribute is returned for malformed component attributes and
	// fence annotations.
	ErrInvalidAttribute = errors.New("tokenizer: invalid attribute")
)

// DefaultMaxDepth bounds component nesting unless WithMaxDepth is given.
const DefaultMaxDepth = 8

// state is the block accumulation state of the tokenizer.
type state int

const (
	stateIdle state = iota
	stateParagraph
	stateFence
	stateComponent
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateParagraph:
		return "paragraph"
	case stateFence:
		return "fence"
	case stateComponent:
		return "component"
	default:
		return "done"
	}
}

var (
	headingPattern   = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?[ \t]*$`)
	closingHashes    = regexp.MustCompile(`(?:^|[ \t]+)#+$`)
	fencePattern     = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})(.*)$")
	componentPattern = regexp.MustCompile(`^[ \t]*<([A-Z][A-Za-z0-9_.]*)`)
)

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxDepth bounds component nesting. Values < 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(t *Tokenizer) {
		if n >= 1 {
			t.maxDepth = n
		}
	}
}

// WithLineOffset sets the source line number of the first body line, so that
// block positions and errors refer to the original file.
func WithLineOffset(first int) Option {
	return func(t *Tokenizer) {
		if first >= 1 {
			t.offset = first - 1
		}
	}
}

// Tokenizer produces blocks from a document body in a single forward pass.
// It is not restartable: after io.EOF or an error, Next keeps returning that
// same error.
type Tokenizer struct {
	lines    []string
	pos      int // index of the next unread line
	offset   int // source line number of lines[0], minus 1
	depth    int // component nesting level of the lines being tokenized
	maxDepth int
	state    state
	err      error
}

// New creates a tokenizer over body.
func New(body []byte, opts ...Option) *Tokenizer {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	t := &Tokenizer{
		lines:    lines,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// child creates a tokenizer for the lines of a component body or a
// block-valued attribute. first is the index of lines[0] in the parent.
func (t *Tokenizer) child(lines []string, first int, depth int) *Tokenizer {
	return &Tokenizer{
		lines:    dedent(lines),
		offset:   t.offset + first,
		depth:    depth,
		maxDepth: t.maxDepth,
	}
}

// Tokenize is a convenience wrapper returning all blocks of body.
func Tokenize(body []byte, opts ...Option) ([]model.Block, error) {
	return New(body, opts...).All()
}

// All drains the tokenizer. On error no blocks are returned.
func (t *Tokenizer) All() ([]model.Block, error) {
	var blocks []model.Block
	for {
		b, err := t.Next()
		if err == io.EOF {
			return blocks, nil
		}
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
}

// Next returns the next block, or io.EOF at the end of input.
func (t *Tokenizer) Next() (model.Block, error) {
	if t.err != nil {
		return nil, t.err
	}
	for t.pos < len(t.lines) {
		line := t.lines[t.pos]
		switch {
		case strings.TrimSpace(line) == "":
			t.pos++
			continue
		case fencePattern.MatchString(line):
			t.state = stateFence
			return t.emit(t.fence())
		case headingPattern.MatchString(line):
			return t.emit(t.heading(), nil)
		case componentPattern.MatchString(line):
			t.state = stateComponent
			return t.emit(t.component())
		default:
			t.state = stateParagraph
			return t.emit(t.paragraph(), nil)
		}
	}
	t.state = stateDone
	t.err = io.EOF
	return nil, io.EOF
}

// emit records a failure so that the tokenizer stays in its terminal state.
func (t *Tokenizer) emit(b model.Block, err error) (model.Block, error) {
	if err != nil {
		t.state = stateDone
		t.err = err
		return nil, err
	}
	t.state = stateIdle
	return b, nil
}

// lineNo converts a line index into a 1-based source line number.
func (t *Tokenizer) lineNo(index int) int {
	return t.offset + index + 1
}

func (t *Tokenizer) heading() model.Block {
	m := headingPattern.FindStringSubmatch(t.lines[t.pos])
	text := closingHashes.ReplaceAllString(m[2], "")
	h := &model.Heading{
		Pos:   model.Pos(t.lineNo(t.pos)),
		Level: len(m[1]),
		Text:  strings.TrimSpace(text),
	}
	t.pos++
	return h
}

// paragraph accumulates lines until a blank line or a recognized marker. The
// first line is always taken.
func (t *Tokenizer) paragraph() model.Block {
	start := t.pos
	var lines []string
	for t.pos < len(t.lines) {
		line := t.lines[t.pos]
		if strings.TrimSpace(line) == "" || (t.pos > start && isMarker(line)) {
			break
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
		t.pos++
	}
	return &model.Paragraph{
		Pos:  model.Pos(t.lineNo(start)),
		Text: strings.Join(lines, "\n"),
	}
}

func isMarker(line string) bool {
	return fencePattern.MatchString(line) ||
		headingPattern.MatchString(line) ||
		componentPattern.MatchString(line)
}

// fence reads a fenced code block including its closing delimiter.
func (t *Tokenizer) fence() (model.Block, error) {
	start := t.pos
	m := fencePattern.FindStringSubmatch(t.lines[start])
	indent, delim, info := len(m[1]), m[2], m[3]
	if delim[0] == '`' && strings.ContainsRune(info, '`') {
		// not a fence in CommonMark terms; treat the line as prose
		return t.paragraph(), nil
	}
	lang, title, ranges, err := parseInfo(info)
	if err != nil {
		return nil, model.Errorf(ErrInvalidAttribute, t.lineNo(start), "code fence: %v", err)
	}

	var src []string
	for i := start + 1; i < len(t.lines); i++ {
		if isClosingFence(t.lines[i], delim) {
			t.pos = i + 1
			return &model.CodeBlock{
				Pos:       model.Pos(t.lineNo(start)),
				Language:  lang,
				Title:     title,
				Highlight: ranges,
				Source:    strings.Join(src, "\n"),
			}, nil
		}
		src = append(src, stripIndent(t.lines[i], indent))
	}
	return nil, model.Errorf(ErrUnterminatedBlock, t.lineNo(start), "code fence %s is never closed", delim)
}

func isClosingFence(line, opening string) bool {
	s := strings.TrimLeft(line, " ")
	if len(line)-len(s) > 3 {
		return false
	}
	s = strings.TrimRight(s, " \t")
	if len(s) < len(opening) {
		return false
	}
	return strings.Trim(s, opening[:1]) == ""
}

// stripIndent removes up to n leading spaces.
func stripIndent(line string, n int) string {
	for i := 0; i < n && strings.HasPrefix(line, " "); i++ {
		line = line[1:]
	}
	return line
}

// dedent removes the indentation shared by all non-blank lines.
func dedent(lines []string) []string {
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out[i] = line[common:]
	}
	return out
}
