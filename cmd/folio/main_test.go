package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `---
title: Hello There
date: 2023-04-16
tags: [go]
---
# Hello

Some text with an asset.

<Attribution author="Ann" avatar={ann}>
  Quote.
</Attribution>
`

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.mdx"), []byte(doc), 0o644))
	return dir
}

func TestRender_Stdout(t *testing.T) {
	dir := setup(t)
	out, err := run(t, dir, "render", "hello.mdx")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<h1 id="hello">Hello</h1>`))
	assert.Contains(t, out, `src="ann"`)
}

func TestRender_ConfigFile(t *testing.T) {
	dir := setup(t)
	config := "assets:\n  ann: /img/ann.webp\noutputDir: public\nmaxDepth: 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folio.yaml"), []byte(config), 0o644))

	out, err := run(t, dir, "render", "hello.mdx")
	require.NoError(t, err)
	assert.Empty(t, out)

	html, err := os.ReadFile(filepath.Join(dir, "public", "hello.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `src="/img/ann.webp"`)
}

func TestRender_FlagOverridesConfig(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folio.yaml"), []byte("outputDir: public\n"), 0o644))

	_, err := run(t, dir, "render", "-o", "site", "hello.mdx")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "site", "hello.html"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "public"))
	assert.True(t, os.IsNotExist(err))
}

func TestRender_Env(t *testing.T) {
	dir := setup(t)
	t.Setenv("FOLIO_MAXDEPTH", "0")
	_, err := run(t, dir, "render", "hello.mdx")
	assert.Error(t, err)
}

func TestRender_Failure(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.mdx"), []byte("---\ntitle: T\n---\n<Nope />\n"), 0o644))
	out, err := run(t, dir, "render", "hello.mdx", "bad.mdx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.mdx")
	assert.NotContains(t, out, "<h1")
}

func TestRender_MissingConfigFile(t *testing.T) {
	dir := setup(t)
	_, err := run(t, dir, "--config", "nope.yaml", "render", "hello.mdx")
	assert.Error(t, err)
}

func TestMeta(t *testing.T) {
	dir := setup(t)
	out, err := run(t, dir, "meta", "hello.mdx")
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, "hello-there", rec["slug"])
	assert.Equal(t, "hello.mdx", rec["source"])

	out, err = run(t, dir, "meta", "--format", "yaml", "hello.mdx")
	require.NoError(t, err)
	assert.Contains(t, out, "- title: Hello There")

	out, err = run(t, dir, "meta", "--tag", "rust", "--format", "json", "hello.mdx")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = run(t, dir, "meta", "--format", "xml", "hello.mdx")
	assert.Error(t, err)
}

func TestMeta_List(t *testing.T) {
	dir := setup(t)
	second := strings.Replace(doc, "title: Hello There\ndate: 2023-04-16", "title: Later\ndate: 2023-05-01", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "later.mdx"), []byte(second), 0o644))

	out, err := run(t, dir, "meta", "--list", "--sort", "hello.mdx", "later.mdx")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-01\tlater\t1 min read\tLater\n"+
		"2023-04-16\thello-there\t1 min read\tHello There\n", out)
}

func TestCSS(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "css", "--style", "monokai")
	require.NoError(t, err)
	assert.Contains(t, out, ".chroma")

	out, err = run(t, dir, "css", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "github\n")

	_, err = run(t, dir, "css", "--style", "no-such-style")
	assert.Error(t, err)
}

func TestComponents(t *testing.T) {
	out, err := run(t, t.TempDir(), "components")
	require.NoError(t, err)
	assert.Equal(t, "Attribution\nCallout\nTranslations\nTweetEmbed\n", out)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "post.html"), outputPath("out", filepath.Join("a", "b", "post.mdx")))
	assert.Equal(t, filepath.Join("out", "x.y.html"), outputPath("out", "x.y.md"))
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mdx")
	b := filepath.Join(dir, "b.mdx")
	other := filepath.Join(dir, "other.txt")
	for _, f := range []string{a, b, other} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var mu sync.Mutex
	var calls [][]string
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{a, b}, func(changed []string) {
			mu.Lock()
			calls = append(calls, changed)
			mu.Unlock()
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(b, []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(a, []byte("y"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) > 0
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{a, b}, calls[0])
}
