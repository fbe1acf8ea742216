package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/folio"
)

func newRenderCmd(cfg *Config) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render documents to HTML",
		Long: `The render command converts each document to an HTML fragment. With an
output directory, FILE.mdx is written to DIR/FILE.html; otherwise the
fragments are written to standard output in argument order.

With --watch, the documents are rendered again whenever one of them changes,
until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := renderAll(cmd.Context(), *cfg, args, out); err != nil {
				if !watch {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			if !watch {
				return nil
			}
			return watchFiles(cmd.Context(), args, func(changed []string) {
				if err := renderAll(cmd.Context(), *cfg, changed, out); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return
				}
				tracer().Infof("re-rendered %s", strings.Join(changed, ", "))
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "output directory (default: standard output)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render on change")
	return cmd
}

// renderAll renders files in parallel and writes the results. Nothing is
// written when any document fails.
func renderAll(ctx context.Context, cfg Config, files []string, stdout io.Writer) error {
	results, err := folio.RenderFiles(ctx, files, folio.BatchOptions{
		Workers:   cfg.Workers,
		Configure: cfg.configure,
	})
	if err != nil {
		return err
	}
	if cfg.OutputDir == "" {
		for _, r := range results {
			if _, err := io.WriteString(stdout, r.HTML); err != nil {
				return err
			}
		}
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, r := range results {
		path := outputPath(cfg.OutputDir, r.Path)
		if err := os.WriteFile(path, []byte(r.HTML), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		tracer().Debugf("wrote %s", path)
	}
	return nil
}

// outputPath maps a document file onto its HTML file in dir.
func outputPath(dir, file string) string {
	base := filepath.Base(file)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".html")
}
