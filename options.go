package folio

import (
	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/highlight"
	"github.com/tsawler/folio/index"
	"github.com/tsawler/folio/render"
	"github.com/tsawler/folio/tokenizer"
)

// RenderOptions holds configuration for parsing and rendering.
type RenderOptions struct {
	// Component set; nil means the built-in registry
	registry *component.Registry

	// Bound on component nesting
	maxDepth int

	// Asset resolution
	assets   map[string]string // nil means refs pass through unchanged
	assetDir string            // banner images are read from here when set

	// Output options
	rawHTML    bool
	headingIDs bool
	style      string
}

// defaultOptions returns the default render options.
func defaultOptions() RenderOptions {
	return RenderOptions{
		registry:   nil, // nil means component.Defaults()
		maxDepth:   tokenizer.DefaultMaxDepth,
		assets:     nil,
		rawHTML:    false,
		headingIDs: true,
		style:      highlight.DefaultStyle,
	}
}

// clone creates a deep copy of RenderOptions.
func (o RenderOptions) clone() RenderOptions {
	newOpts := o

	// Deep copy asset map
	if o.assets != nil {
		newOpts.assets = make(map[string]string, len(o.assets))
		for k, v := range o.assets {
			newOpts.assets[k] = v
		}
	}

	return newOpts
}

// renderer builds the renderer these options describe.
func (o RenderOptions) renderer() *render.Renderer {
	opts := []render.Option{
		render.WithMaxDepth(o.maxDepth),
		render.WithHeadingIDs(o.headingIDs),
		render.WithHighlighter(highlight.New(highlight.WithStyle(o.style))),
	}
	if o.assets != nil {
		opts = append(opts, render.WithAssets(render.AssetMap(o.assets)))
	}
	if o.rawHTML {
		opts = append(opts, render.WithRawHTML())
	}
	return render.New(o.registry, opts...)
}

// recordConfig derives the index configuration.
func (o RenderOptions) recordConfig() index.RecordConfig {
	config := index.DefaultRecordConfig()
	config.AssetDir = o.assetDir
	return config
}
