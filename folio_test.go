package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/format"
)

const post = `---
title: Breaking the Cache
date: 2023-04-16
description: Selectors are not free
banner: banner
tags: [react, typescript]
---
# Intro

Some *prose*.

` + "```ts title=\"a.ts\" {2}" + `
const a = 1
const b = 2
` + "```" + `

<Attribution author="Dominik" avatar={dominik}>
  Use it.
</Attribution>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDocument_MinimalHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio")
	defer teardown()

	doc, err := FromBytes("hi.md", []byte("---\ntitle: T\ndate: 2023-04-16\n---\n# Hi\n")).Document()
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Metadata.Title)
	assert.Equal(t, time.Date(2023, 4, 16, 0, 0, 0, 0, time.UTC), doc.Metadata.Date)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, 1, doc.Headings()[0].Level)
	assert.Equal(t, "Hi", doc.Headings()[0].Text)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", post)

	src := Open(path)
	assert.Equal(t, format.MDX, src.Format())
	assert.Equal(t, path, src.Name())

	html, err := src.Assets(map[string]string{"dominik": "/img/d.webp"}).HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 id="intro">Intro</h1>`)
	assert.Contains(t, html, `<span class="line hl" data-line="2">`)
	assert.Contains(t, html, `src="/img/d.webp"`)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open("post.pdf").HTML()
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Open(filepath.Join(t.TempDir(), "missing.md")).Document()
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
		line int
	}{
		{"metadata", "---\ntitle: [\n---\n", ErrMalformedMetadata, 0},
		{"fence", "---\ntitle: T\ndate: 2023-04-16\n---\n```go\nx\n", ErrUnterminatedBlock, 5},
		{"component", "---\ntitle: T\ndate: 2023-04-16\n---\n\n<Nope />\n", ErrUnknownComponent, 6},
		{"depth", "---\ntitle: T\ndate: 2023-04-16\n---\n<Callout>\n<Callout>\nx\n</Callout>\n</Callout>\n", ErrExceededNestingDepth, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := FromBytes("doc.mdx", []byte(tt.src)).MaxDepth(1).WriteHTML(&buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assert.Equal(t, 0, buf.Len())
			if tt.line > 0 {
				assert.Contains(t, err.Error(), fmt.Sprintf("line %d", tt.line))
			}
			assert.True(t, strings.HasPrefix(err.Error(), "doc.mdx: "))
		})
	}
}

func TestMaxDepthInvalid(t *testing.T) {
	_, err := FromBytes("", []byte(post)).MaxDepth(0).Document()
	assert.Error(t, err)
}

func TestFluentImmutability(t *testing.T) {
	base := FromBytes("post.mdx", []byte(post))
	mapped := base.Assets(map[string]string{"dominik": "/img/d.webp"})

	out, err := base.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `src="dominik"`)

	out, err = mapped.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `src="/img/d.webp"`)

	noIDs, err := base.HeadingIDs(false).HTML()
	require.NoError(t, err)
	assert.Contains(t, noIDs, "<h1>Intro</h1>")
}

func TestFromBytesCopiesInput(t *testing.T) {
	data := []byte("---\ntitle: T\ndate: 2023-04-16\n---\n# Hi\n")
	src := FromBytes("x.md", data)
	copy(data[len(data)-3:], "Yo")
	doc, err := src.Document()
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.Headings()[0].Text)
}

func TestRegistry(t *testing.T) {
	reg := component.Defaults().Extend()
	reg.MustRegister("Shout", component.HandlerFunc(func(inv component.Invocation) (template.HTML, error) {
		return template.HTML("<strong>" + template.HTMLEscapeString(inv.String("text")) + "</strong>"), nil
	}))
	out, err := FromBytes("", []byte("---\ntitle: T\ndate: 2023-04-16\n---\n<Shout text=\"hey\" />\n")).Registry(reg).HTML()
	require.NoError(t, err)
	assert.Equal(t, "<strong>hey</strong>\n", out)
	assert.True(t, reg.Frozen())
}

func TestRecord(t *testing.T) {
	rec, err := FromBytes("post.mdx", []byte(post)).Record()
	require.NoError(t, err)
	assert.Equal(t, "breaking-the-cache", rec.Slug)
	assert.Equal(t, "2023-04-16", rec.Date)
	assert.Equal(t, "post.mdx", rec.Source)
	assert.Equal(t, []string{"Attribution"}, rec.Components)
	assert.Equal(t, "banner", rec.Banner.Ref)
}

func TestMarkdownRoundTrip(t *testing.T) {
	src := FromBytes("post.mdx", []byte(post))
	md, err := src.Markdown()
	require.NoError(t, err)

	want, err := src.HTML()
	require.NoError(t, err)
	got, err := FromBytes("again.mdx", md).HTML()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCSS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FromBytes("", nil).Style("monokai").CSS(&buf))
	assert.Contains(t, buf.String(), ".chroma")
	assert.Error(t, FromBytes("", nil).Style("no-such-style").CSS(&buf))
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(3, nil))
	assert.Panics(t, func() { Must(Open("x.pdf").HTML()) })
}

func batchFiles(t *testing.T, n int) []string {
	dir := t.TempDir()
	files := make([]string, n)
	for i := range files {
		body := fmt.Sprintf("---\ntitle: Post %d\ndate: 2023-04-%02d\n---\n# Post %d\n\nText %d.\n", i, i%28+1, i, i)
		files[i] = writeFile(t, dir, fmt.Sprintf("p%02d.md", i), body)
	}
	return files
}

func TestRenderFiles_MatchesSequential(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio")
	defer teardown()

	files := batchFiles(t, 20)
	results, err := RenderFiles(context.Background(), files, BatchOptions{Workers: 4, Records: true})
	require.NoError(t, err)
	require.Len(t, results, len(files))

	for i, path := range files {
		want, err := Open(path).HTML()
		require.NoError(t, err)
		assert.Equal(t, path, results[i].Path)
		assert.Equal(t, want, results[i].HTML)
		assert.Equal(t, fmt.Sprintf("Post %d", i), results[i].Record.Title)
	}
}

func TestRenderFiles_Configure(t *testing.T) {
	files := batchFiles(t, 3)
	results, err := RenderFiles(context.Background(), files, BatchOptions{
		Configure: func(s *Source) *Source { return s.HeadingIDs(false) },
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(results[0].HTML, "<h1>Post 0</h1>"))
	assert.Nil(t, results[0].Record)
}

func TestRenderFiles_Failure(t *testing.T) {
	files := batchFiles(t, 5)
	files[3] = writeFile(t, t.TempDir(), "bad.md", "---\ntitle: T\ndate: 2023-04-16\n---\n<Nope />\n")
	results, err := RenderFiles(context.Background(), files, BatchOptions{Workers: 2})
	assert.True(t, errors.Is(err, ErrUnknownComponent))
	assert.Nil(t, results)
}

func TestRenderFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderFiles(ctx, batchFiles(t, 3), BatchOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}
