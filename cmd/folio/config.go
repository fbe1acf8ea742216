package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/highlight"
	"github.com/tsawler/folio/tokenizer"
)

// Config holds the settings shared by all commands.
type Config struct {
	MaxDepth       int               `mapstructure:"maxDepth"`
	RawHTML        bool              `mapstructure:"rawHTML"`
	HighlightStyle string            `mapstructure:"highlightStyle"`
	AssetDir       string            `mapstructure:"assetDir"`
	Assets         map[string]string `mapstructure:"assets"`
	Workers        int               `mapstructure:"workers"`
	OutputDir      string            `mapstructure:"outputDir"`
	Verbose        bool              `mapstructure:"verbose"`

	file string // config file used, if any
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"max-depth": "maxDepth",
	"raw-html":  "rawHTML",
	"style":     "highlightStyle",
	"asset-dir": "assetDir",
	"workers":   "workers",
	"output":    "outputDir",
	"verbose":   "verbose",
}

// loadConfig reads folio.yaml (or cfgFile), FOLIO_* environment variables
// and the flags set on cmd, in increasing precedence.
func loadConfig(cmd *cobra.Command, cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("maxDepth", tokenizer.DefaultMaxDepth)
	v.SetDefault("rawHTML", false)
	v.SetDefault("highlightStyle", highlight.DefaultStyle)
	v.SetDefault("workers", 0)
	v.SetDefault("outputDir", "")
	v.SetDefault("assetDir", "")
	v.SetDefault("verbose", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if cfg.MaxDepth < 1 {
		return Config{}, fmt.Errorf("maxDepth must be positive, got %d", cfg.MaxDepth)
	}
	cfg.file = v.ConfigFileUsed()
	return cfg, nil
}

// configure applies cfg to a document source.
func (cfg Config) configure(src *folio.Source) *folio.Source {
	src = src.MaxDepth(cfg.MaxDepth).Style(cfg.HighlightStyle).AssetDir(cfg.AssetDir)
	if len(cfg.Assets) > 0 {
		src = src.Assets(cfg.Assets)
	}
	if cfg.RawHTML {
		src = src.RawHTML()
	}
	return src
}

// tracer traces with key 'folio.cli'.
func tracer() tracing.Trace {
	return tracing.Select("folio.cli")
}

// traceKeys are the tracer keys of the library packages.
var traceKeys = []string{
	"folio", "folio.cli", "folio.frontmatter", "folio.tokenizer",
	"folio.component", "folio.render", "folio.highlight", "folio.index",
}

// setupTracing routes all folio tracers to the standard logger, at level
// Debug when verbose and Error otherwise.
func setupTracing(verbose bool) error {
	level := "Error"
	if verbose {
		level = "Debug"
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.root":      level,
	}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
