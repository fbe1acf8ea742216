package folio

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/folio/index"
)

// BatchOptions configures RenderFiles.
type BatchOptions struct {
	// Workers bounds the number of documents rendered at once
	// (default: GOMAXPROCS)
	Workers int

	// Configure is applied to the Source of every file; nil keeps the
	// defaults
	Configure func(*Source) *Source

	// Records also derives an index record for every file
	Records bool
}

// Result holds the rendering of one file.
type Result struct {
	Path   string
	HTML   string
	Record *index.Record // set when BatchOptions.Records is true
}

// RenderFiles renders files in parallel. Results keep the order of files.
// The first failure cancels the remaining work and is returned; no results
// are returned in that case. Cancelling ctx stops scheduling further files.
func RenderFiles(ctx context.Context, files []string, opts BatchOptions) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	tracer().Debugf("rendering %d files with %d workers", len(files), workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src := Open(path)
			if opts.Configure != nil {
				src = opts.Configure(src)
			}
			html, err := src.HTML()
			if err != nil {
				return err
			}
			results[i] = Result{Path: path, HTML: html}
			if opts.Records {
				rec, err := src.Record()
				if err != nil {
					return err
				}
				results[i].Record = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
