package folio_test

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/index"
)

const hello = `---
title: Hello, World
date: 2023-04-16
tags: [go, Go, markup]
---
# Hello

Some *prose*.
`

func Example_html() {
	html, err := folio.FromBytes("hello.md", []byte(hello)).HTML()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(html)
	// Output:
	// <h1 id="hello">Hello</h1>
	// <p>Some <em>prose</em>.</p>
}

func Example_document() {
	doc, err := folio.FromBytes("hello.md", []byte(hello)).Document()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(doc.Metadata.Title)
	fmt.Println(doc.Metadata.DateString())
	fmt.Println(doc.Metadata.Tags)
	for _, b := range doc.Blocks {
		fmt.Println(b.Type())
	}
	// Output:
	// Hello, World
	// 2023-04-16
	// [go markup]
	// Heading
	// Paragraph
}

func Example_record() {
	rec, err := folio.FromBytes("hello.md", []byte(hello)).Record()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.Slug, rec.WordCount, rec.ReadingTimeString())
	// Output:
	// hello-world 3 1 min read
}

func Example_errors() {
	src := "---\ntitle: T\ndate: 2023-04-16\n---\n<Nope />\n"
	_, err := folio.FromBytes("post.mdx", []byte(src)).HTML()
	fmt.Println(errors.Is(err, folio.ErrUnknownComponent))
	fmt.Println(err)
	// Output:
	// true
	// post.mdx: line 5: component: unknown component: <Nope> is not registered
}

func Example_withOptions() {
	html, err := folio.Open("post.mdx").
		Assets(map[string]string{"dominik": "/img/dominik.webp"}).
		MaxDepth(4).
		RawHTML().
		HTML()
	if err != nil {
		log.Println(err)
		return
	}
	fmt.Print(html)
}

func Example_export() {
	rec := folio.Must(folio.FromBytes("hello.md", []byte(hello)).Record())
	config := index.DefaultExportConfig()
	config.Format = index.ExportFormatCSV
	config.IncludeCustom = false
	if err := index.Export(os.Stdout, []*index.Record{rec}, config); err != nil {
		log.Fatal(err)
	}
	// Output:
	// slug,title,date,description,tags,banner,word_count,reading_minutes,components
	// hello-world,"Hello, World",2023-04-16,,go;markup,,3,1,
}
