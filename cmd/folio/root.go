package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. Each call returns fresh commands
// and configuration.
func newRootCmd() *cobra.Command {
	var cfgFile string
	cfg := new(Config)

	root := &cobra.Command{
		Use:   "folio",
		Short: "Render front matter + component markup documents",
		Long: `folio renders long-form documents, written as a front matter header
followed by Markdown with embedded components, to HTML. It also exports
index records and the stylesheet for highlighted code.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfgFile)
			if err != nil {
				return err
			}
			*cfg = loaded
			if err := setupTracing(cfg.Verbose); err != nil {
				return err
			}
			if cfg.file != "" {
				tracer().Infof("using config file %s", cfg.file)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
	flags.BoolP("verbose", "v", false, "trace processing steps")
	flags.Int("max-depth", 0, "bound on component nesting")
	flags.Bool("raw-html", false, "let sanitized HTML in prose through")
	flags.String("style", "", "highlight style")
	flags.String("asset-dir", "", "directory banner images are read from")
	flags.Int("workers", 0, "documents rendered in parallel (default: number of CPUs)")

	root.AddCommand(
		newRenderCmd(cfg),
		newMetaCmd(cfg),
		newCSSCmd(cfg),
		newComponentsCmd(),
	)
	return root
}
