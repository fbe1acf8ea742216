package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v2"

	"github.com/tsawler/folio/model"
)

// Markdown serializes doc to source form: a YAML front matter header
// followed by the body. Tokenizing the body again yields the same block tree.
func Markdown(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	header, err := frontMatter(doc.Metadata)
	if err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n")
	if len(doc.Blocks) > 0 {
		buf.WriteByte('\n')
		if err := writeBlocks(&buf, doc.Blocks); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func frontMatter(m model.Metadata) ([]byte, error) {
	fields := yaml.MapSlice{
		{Key: "title", Value: m.Title},
		{Key: "date", Value: m.DateString()},
	}
	if m.Description != "" {
		fields = append(fields, yaml.MapItem{Key: "description", Value: m.Description})
	}
	if !m.Banner.IsZero() {
		fields = append(fields, yaml.MapItem{Key: "banner", Value: string(m.Banner)})
	}
	if len(m.Tags) > 0 {
		fields = append(fields, yaml.MapItem{Key: "tags", Value: m.Tags})
	}
	keys := make([]string, 0, len(m.Custom))
	for k := range m.Custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, yaml.MapItem{Key: k, Value: m.Custom[k]})
	}
	out, err := yaml.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("render: front matter: %w", err)
	}
	return out, nil
}

func writeBlocks(buf *bytes.Buffer, blocks []model.Block) error {
	for i, b := range blocks {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := writeBlock(buf, b); err != nil {
			return err
		}
	}
	return nil
}

func writeBlock(buf *bytes.Buffer, b model.Block) error {
	switch b := b.(type) {
	case *model.Heading:
		buf.WriteString(strings.Repeat("#", b.Level))
		if b.Text != "" {
			buf.WriteString(" " + b.Text)
		}
		buf.WriteByte('\n')
	case *model.Paragraph:
		buf.WriteString(b.Text + "\n")
	case *model.CodeBlock:
		writeFence(buf, b)
	case *model.Component:
		return writeComponent(buf, b)
	default:
		return fmt.Errorf("render: cannot serialize %s block", b.Type())
	}
	return nil
}

func writeFence(buf *bytes.Buffer, c *model.CodeBlock) {
	char := "`"
	if strings.Contains(c.Title, "`") {
		char = "~"
	}
	n := 3
	for _, line := range strings.Split(c.Source, "\n") {
		s := strings.TrimLeft(line, " ")
		run := len(s) - len(strings.TrimLeft(s, char))
		if run >= n {
			n = run + 1
		}
	}
	fence := strings.Repeat(char, n)

	var info []string
	if c.Language != "" {
		info = append(info, c.Language)
	}
	if c.Title != "" {
		q := `"`
		if strings.Contains(c.Title, `"`) {
			q = "'"
		}
		info = append(info, "title="+q+c.Title+q)
	}
	if len(c.Highlight) > 0 {
		info = append(info, c.Highlight.String())
	}
	buf.WriteString(fence + strings.Join(info, " ") + "\n")
	if c.Source != "" {
		buf.WriteString(c.Source + "\n")
	}
	buf.WriteString(fence + "\n")
}

func writeComponent(buf *bytes.Buffer, c *model.Component) error {
	buf.WriteString("<" + c.Name)
	for _, name := range c.Attrs.Names() {
		v, _ := c.Attrs.Get(name)
		buf.WriteString(" " + name + "=")
		switch v.Kind {
		case model.ValueString:
			buf.WriteString(`"` + html.EscapeString(v.Str) + `"`)
		case model.ValueDate:
			buf.WriteString("{" + v.Date.Format(model.DateLayout) + "}")
		case model.ValueAsset:
			buf.WriteString("{" + string(v.Asset) + "}")
		case model.ValueBlocks:
			var inner bytes.Buffer
			if err := writeBlocks(&inner, v.Blocks); err != nil {
				return err
			}
			buf.WriteString("{<>" + strings.TrimSuffix(inner.String(), "\n") + "</>}")
		default:
			return fmt.Errorf("render: attribute %q of <%s> has unknown kind", name, c.Name)
		}
	}
	if c.SelfClosing {
		buf.WriteString(" />\n")
		return nil
	}
	buf.WriteString(">\n")
	if err := writeBlocks(buf, c.Children); err != nil {
		return err
	}
	buf.WriteString("</" + c.Name + ">\n")
	return nil
}
