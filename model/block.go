package model

import (
	"fmt"
	"strings"
)

// BlockType represents the kind of a body block
type BlockType int

const (
	BlockTypeUnknown BlockType = iota
	BlockTypeHeading
	BlockTypeParagraph
	BlockTypeCode
	BlockTypeComponent
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeHeading:
		return "Heading"
	case BlockTypeParagraph:
		return "Paragraph"
	case BlockTypeCode:
		return "Code"
	case BlockTypeComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Block is the interface for all body blocks
type Block interface {
	Type() BlockType
	// Line is the 1-based source line the block starts on.
	Line() int
}

// TextBlock is an interface for blocks carrying plain text
type TextBlock interface {
	Block
	GetText() string
}

// Pos is embedded in blocks to record their source line.
type Pos int

// Line returns the 1-based source line.
func (p Pos) Line() int { return int(p) }

// Heading represents a heading
type Heading struct {
	Pos
	Level int // 1-6
	Text  string
}

func (h *Heading) Type() BlockType { return BlockTypeHeading }
func (h *Heading) GetText() string { return h.Text }

// Paragraph holds inline-rich text: emphasis, links and inline code are kept
// in their authored markup and interpreted by the renderer.
type Paragraph struct {
	Pos
	Text string
}

func (p *Paragraph) Type() BlockType { return BlockTypeParagraph }
func (p *Paragraph) GetText() string { return p.Text }

// CodeBlock represents a fenced code block
type CodeBlock struct {
	Pos
	Language  string
	Title     string
	Highlight LineRanges
	Source    string
}

func (c *CodeBlock) Type() BlockType { return BlockTypeCode }
func (c *CodeBlock) GetText() string { return c.Source }

// Component is an invocation of a named component with attributes and
// child blocks.
type Component struct {
	Pos
	Name     string
	Attrs    Attributes
	Children []Block
	// SelfClosing is set for invocations written as <Name ... />.
	SelfClosing bool
}

func (c *Component) Type() BlockType { return BlockTypeComponent }

// LineRange is an inclusive range of 1-based line numbers
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether line lies within the range
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

func (r LineRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// LineRanges is a set of highlighted line ranges
type LineRanges []LineRange

// Contains reports whether any range contains line
func (rs LineRanges) Contains(line int) bool {
	for _, r := range rs {
		if r.Contains(line) {
			return true
		}
	}
	return false
}

// String formats the ranges the way they are written in a fence info string,
// e.g. "{1,3-5}". Empty ranges format as "".
func (rs LineRanges) String() string {
	if len(rs) == 0 {
		return ""
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
