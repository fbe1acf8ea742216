package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/component"
	"github.com/tsawler/folio/highlight"
	"github.com/tsawler/folio/index"
)

func newMetaCmd(cfg *Config) *cobra.Command {
	var (
		formatName string
		outFile    string
		tag        string
		byDate     bool
		pretty     bool
		list       bool
	)
	cmd := &cobra.Command{
		Use:   "meta FILE...",
		Short: "Export index records of documents",
		Long: `The meta command parses and renders each document and writes one index
record per document: title, date, tags, slug, heading outline, word count,
reading time and the components used. Formats are jsonl, json, yaml, csv
and tsv. With --list, one line per document is printed instead: date, slug,
reading time and title, separated by tabs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := index.ParseExportFormat(formatName)
			if err != nil {
				return err
			}
			results, err := folio.RenderFiles(cmd.Context(), args, folio.BatchOptions{
				Workers:   cfg.Workers,
				Configure: cfg.configure,
				Records:   true,
			})
			if err != nil {
				return err
			}
			records := make([]*index.Record, len(results))
			for i, r := range results {
				records[i] = r.Record
			}
			c := index.NewCollection(records)
			if tag != "" {
				c = c.FilterByTag(tag)
			}
			if byDate {
				c = c.SortByDate()
			}
			if list {
				for _, r := range c.Records {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
						r.Date, r.Slug, r.ReadingTimeString(), r.Title); err != nil {
						return err
					}
				}
				return nil
			}

			config := index.DefaultExportConfig()
			if format == index.ExportFormatTSV {
				config = index.TSVExportConfig()
			}
			config.Format = format
			config.PrettyPrint = pretty
			exporter := index.NewExporterWithConfig(config)
			if outFile != "" {
				if err := exporter.ExportToFile(c.Records, outFile); err != nil {
					return err
				}
				tracer().Infof("wrote %d record(s) to %s", c.Len(), outFile)
				return nil
			}
			return exporter.Export(c.Records, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "jsonl", "export format: jsonl, json, yaml, csv, tsv")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of standard output")
	cmd.Flags().StringVar(&tag, "tag", "", "only documents carrying this tag")
	cmd.Flags().BoolVar(&byDate, "sort", false, "order newest first")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&list, "list", false, "print date, slug, reading time and title per document")
	return cmd
}

func newCSSCmd(cfg *Config) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "css",
		Short: "Write the stylesheet for highlighted code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range highlight.Styles() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			return highlight.CSS(cmd.OutOrStdout(), cfg.HighlightStyle)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the available styles")
	return cmd
}

func newComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the built-in components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range component.Defaults().Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
