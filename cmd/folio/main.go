// Command folio renders front matter + component markup documents to HTML.
//
// Usage:
//
//	folio render post.mdx -o public
//	folio render --watch posts/*.mdx -o public
//	folio meta --format yaml posts/*.mdx
//	folio css --style monokai > highlight.css
//	folio components
//
// Settings are read from folio.yaml in the working directory (or --config)
// and from FOLIO_* environment variables; flags take precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
