package render

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/frontmatter"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/tokenizer"
)

func parse(t *testing.T, src string) *model.Document {
	t.Helper()
	meta, body, err := frontmatter.Parse([]byte(src))
	require.NoError(t, err)
	blocks, err := tokenizer.Tokenize(body, tokenizer.WithLineOffset(frontmatter.BodyLine([]byte(src))))
	require.NoError(t, err)
	doc := model.NewDocument(meta)
	doc.Blocks = blocks
	return doc
}

func body(t *testing.T, text string) *model.Document {
	t.Helper()
	return parse(t, "---\ntitle: T\ndate: 2023-04-16\n---\n"+text)
}

const article = `---
title: "Breaking: the Cache"
description: Selectors are not free
date: 2023-04-16
banner: banner
tags: [ReactJs, TypeScript, reactjs]
slug: breaking
---
# Intro

Some *prose* with ` + "`code`" + ` and a [link](https://example.com).
Second line.

` + "```tsx title=\"useTodos.ts\" {1,3-4}" + `
const a = 1
const b = 2
const c = 3
const d = 4
` + "```" + `

` + "````md" + `
` + "```" + `
inner
` + "```" + `
` + "````" + `

<Attribution author="Dominik & Co" avatar={dominik} date={2023-04-16} quote={<>Just *use* it</>}>
  Children para

  <Callout type="warning">
    nested
  </Callout>
</Attribution>

<TweetEmbed tweetId="123" handle='TkDodo' />

<Translations>
  - [Deutsch](/de)
  - [Español](/es)
</Translations>

## Outro
`

func TestRender_Heading(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.render")
	defer teardown()

	doc := parse(t, "---\ntitle: T\ndate: 2023-04-16\n---\n# Hi\n")
	out, err := New(nil).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "<h1 id=\"hi\">Hi</h1>\n", out)

	out, err = New(nil, WithHeadingIDs(false)).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>\n", out)
}

func TestRender_HeadingSlugs(t *testing.T) {
	doc := body(t, "# Setup\n\n## Setup\n\n## Café Olé!\n\n### Using `select`\n")
	out, err := New(nil).Render(doc)
	require.NoError(t, err)
	want := "<h1 id=\"setup\">Setup</h1>\n" +
		"<h2 id=\"setup-1\">Setup</h2>\n" +
		"<h2 id=\"cafe-ole\">Café Olé!</h2>\n" +
		"<h3 id=\"using-select\">Using <code>select</code></h3>\n"
	assert.Equal(t, want, out)
}

func TestRender_Paragraph(t *testing.T) {
	doc := body(t, "Selectors are **great**.\nReally.\n")
	out, err := New(nil).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "<p>Selectors are <strong>great</strong>.\nReally.</p>\n", out)
}

func TestRender_ParagraphStaysParagraph(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"setext underline", "Intro\n---"},
		{"thematic break", "x\n***"},
		{"indented code", "    indented code?"},
		{"pipe table", "a | b\n--- | ---\n1 | 2"},
	}
	r := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.RenderBlocks([]model.Block{&model.Paragraph{Pos: 1, Text: tt.text}})
			require.NoError(t, err)
			s := string(out)
			assert.True(t, strings.HasPrefix(s, "<p>"), s)
			for _, tag := range []string{"<h1", "<h2", "<hr", "<pre", "<code", "<table"} {
				assert.NotContains(t, s, tag)
			}
		})
	}

	// the tokenizer keeps these lines in one paragraph, so the rendered
	// headings match the document outline
	doc := body(t, "Intro\n---\n\nx\n***\n")
	require.Len(t, doc.Blocks, 2)
	out, err := New(nil).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "<p>"))
	assert.Empty(t, doc.Headings())

	list := body(t, "- [Deutsch](/de)\n- ~~old~~\n")
	out, err = New(nil).Render(list)
	require.NoError(t, err)
	assert.Contains(t, out, "<li><a href=\"/de\">Deutsch</a></li>")
	assert.Contains(t, out, "<del>old</del>")
}

func TestRender_RawHTML(t *testing.T) {
	doc := body(t, "Hello <b>there</b> <script>alert(1)</script>\n")

	out, err := New(nil).Render(doc)
	require.NoError(t, err)
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<script>")

	out, err = New(nil, WithRawHTML()).Render(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "<b>there</b>")
	assert.NotContains(t, out, "<script")
}

func TestRender_Code(t *testing.T) {
	doc := body(t, "```go title=\"main.go\" {2}\npackage main\nfunc main() {}\n```\n")
	out, err := New(nil).Render(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `<figcaption>main.go</figcaption>`)
	assert.Contains(t, out, `<span class="line hl" data-line="2">`)
	assert.Equal(t, 1, strings.Count(out, `class="line hl"`))
	assert.True(t, strings.HasSuffix(out, "</figure>\n"))
}

func TestRender_Components(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.render")
	defer teardown()

	doc := parse(t, article)
	r := New(component.Defaults(), WithAssets(AssetMap{"dominik": "/img/dominik.webp"}))
	out, err := r.Render(doc)
	require.NoError(t, err)

	assert.Contains(t, out, `<img class="avatar" src="/img/dominik.webp" alt="Dominik &amp; Co"`)
	assert.Contains(t, out, "<p>Just <em>use</em> it</p>")
	assert.NotContains(t, out, "Children para")
	assert.Contains(t, out, `href="https://twitter.com/TkDodo/status/123"`)
	assert.Contains(t, out, `<a href="/de">Deutsch</a>`)
	assert.Contains(t, out, `<h2 id="outro">Outro</h2>`)
}

func TestRender_UnknownAsset(t *testing.T) {
	doc := parse(t, article)
	_, err := New(nil, WithAssets(AssetMap{})).Render(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAsset))
}

func TestRender_Deterministic(t *testing.T) {
	r := New(nil)
	first, err := r.Render(parse(t, article))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Render(parse(t, article))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRender_ConcurrentRenders(t *testing.T) {
	r := New(nil)
	doc := parse(t, article)
	want, err := r.Render(doc)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Render(doc)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestRender_UnknownComponentLeavesSinkEmpty(t *testing.T) {
	doc := body(t, "# Before\n\nText\n\n<Mystery foo=\"bar\" />\n")
	var buf bytes.Buffer
	err := New(nil).RenderTo(&buf, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrUnknownComponent))

	var se *model.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 9, se.Line)
	assert.Equal(t, 0, buf.Len())

	out, err := New(nil).Render(doc)
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestRender_HandlerError(t *testing.T) {
	doc := body(t, "<Attribution url=\"x\">\nq\n</Attribution>\n")
	_, err := New(nil).Render(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrMissingAttribute))
	var se *model.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 5, se.Line)
}

func boxRegistry() *component.Registry {
	reg := component.Defaults().Extend()
	reg.MustRegister("Box", component.HandlerFunc(func(inv component.Invocation) (template.HTML, error) {
		inner, err := inv.RenderChildren()
		if err != nil {
			return "", err
		}
		return "<div class=\"box\">\n" + inner + "</div>", nil
	}))
	reg.Freeze()
	return reg
}

func TestRender_CustomComponentSharesSlugs(t *testing.T) {
	doc := body(t, "# A\n\n<Box>\n  # A\n</Box>\n")
	out, err := New(boxRegistry()).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "<h1 id=\"a\">A</h1>\n<div class=\"box\">\n<h1 id=\"a-1\">A</h1>\n</div>\n", out)
}

func nestedBoxes(levels int) *model.Document {
	inner := []model.Block{&model.Paragraph{Pos: 1, Text: "core"}}
	for i := 0; i < levels; i++ {
		inner = []model.Block{&model.Component{Pos: 1, Name: "Box", Children: inner}}
	}
	doc := model.NewDocument(model.Metadata{Title: "T"})
	doc.Blocks = inner
	return doc
}

func TestRender_MaxDepth(t *testing.T) {
	r := New(boxRegistry(), WithMaxDepth(2))
	_, err := r.Render(nestedBoxes(2))
	require.NoError(t, err)

	_, err = r.Render(nestedBoxes(3))
	assert.True(t, errors.Is(err, tokenizer.ErrExceededNestingDepth))
}

func TestRender_RenderBlocks(t *testing.T) {
	out, err := New(nil).RenderBlocks([]model.Block{
		&model.Heading{Pos: 1, Level: 2, Text: "X"},
		&model.Paragraph{Pos: 2, Text: "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<h2 id=\"x\">X</h2>\n<p>y</p>\n"), out)
}

func TestRender_NilDocument(t *testing.T) {
	_, err := New(nil).Render(nil)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Ünïcödé Straße", "unicode-straße"},
		{"useQuery v5", "usequery-v5"},
		{"!!!", "section"},
		{"", "section"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugger(t *testing.T) {
	s := NewSlugger()
	assert.Equal(t, "setup", s.Slug("Setup"))
	assert.Equal(t, "setup-1", s.Slug("Setup 1"))
	assert.Equal(t, "setup-2", s.Slug("Setup"))
	assert.Equal(t, "setup-3", s.Slug("setup"))
}
