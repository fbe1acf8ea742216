package index

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatJSONL exports as JSON Lines (one JSON object per line)
	ExportFormatJSONL ExportFormat = iota
	// ExportFormatJSON exports as a JSON array
	ExportFormatJSON
	// ExportFormatYAML exports as a YAML sequence
	ExportFormatYAML
	// ExportFormatCSV exports as comma-separated values
	ExportFormatCSV
	// ExportFormatTSV exports as tab-separated values
	ExportFormatTSV
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatJSON:
		return "json"
	case ExportFormatYAML:
		return "yaml"
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatJSON:
		return ".json"
	case ExportFormatYAML:
		return ".yaml"
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatTSV:
		return ".tsv"
	default:
		return ".txt"
	}
}

// ParseExportFormat maps a format name ("jsonl", "json", "yaml", "csv",
// "tsv") to its ExportFormat.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "jsonl", "ndjson":
		return ExportFormatJSONL, nil
	case "json":
		return ExportFormatJSON, nil
	case "yaml", "yml":
		return ExportFormatYAML, nil
	case "csv":
		return ExportFormatCSV, nil
	case "tsv":
		return ExportFormatTSV, nil
	}
	return 0, fmt.Errorf("index: unknown export format %q", name)
}

// ExportConfig holds configuration options for export
type ExportConfig struct {
	// Format specifies the export format
	Format ExportFormat

	// IncludeHeadings includes the heading outline (JSON and YAML only)
	IncludeHeadings bool

	// IncludeCustom includes custom front matter keys; in CSV/TSV they
	// become "custom.<key>" columns
	IncludeCustom bool

	// CSVDelimiter specifies the delimiter for CSV export (default: comma)
	CSVDelimiter rune

	// IncludeHeader includes header row in CSV/TSV exports
	IncludeHeader bool

	// PrettyPrint enables pretty printing for JSON formats
	PrettyPrint bool

	// ListSeparator joins list values in CSV/TSV cells
	ListSeparator string
}

// DefaultExportConfig returns sensible defaults for export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:          ExportFormatJSONL,
		IncludeHeadings: true,
		IncludeCustom:   true,
		CSVDelimiter:    ',',
		IncludeHeader:   true,
		ListSeparator:   ";",
	}
}

// CSVExportConfig returns config for CSV export
func CSVExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatCSV
	return config
}

// TSVExportConfig returns config for TSV export
func TSVExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatTSV
	config.CSVDelimiter = '\t'
	return config
}

// Exporter handles exporting records to various formats
type Exporter struct {
	config ExportConfig
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{
		config: DefaultExportConfig(),
	}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config ExportConfig) *Exporter {
	if config.Format == ExportFormatTSV && (config.CSVDelimiter == 0 || config.CSVDelimiter == ',') {
		config.CSVDelimiter = '\t'
	}
	if config.CSVDelimiter == 0 {
		config.CSVDelimiter = ','
	}
	if config.ListSeparator == "" {
		config.ListSeparator = ";"
	}
	return &Exporter{
		config: config,
	}
}

// Export writes records to w in the configured format.
func Export(w io.Writer, records []*Record, config ExportConfig) error {
	return NewExporterWithConfig(config).Export(records, w)
}

// Export exports records to the specified writer
func (e *Exporter) Export(records []*Record, w io.Writer) error {
	tracer().Debugf("exporting %d records as %s", len(records), e.config.Format)
	switch e.config.Format {
	case ExportFormatJSONL:
		return e.exportJSONL(records, w)
	case ExportFormatJSON:
		return e.exportJSON(records, w)
	case ExportFormatYAML:
		return e.exportYAML(records, w)
	case ExportFormatCSV, ExportFormatTSV:
		return e.exportCSV(records, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile exports records to a file
func (e *Exporter) ExportToFile(records []*Record, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := e.Export(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportToString exports records to a string
func (e *Exporter) ExportToString(records []*Record) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(records, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// prepare applies the field selection of the configuration.
func (e *Exporter) prepare(r *Record) *Record {
	out := *r
	if !e.config.IncludeHeadings {
		out.Headings = nil
	}
	if !e.config.IncludeCustom {
		out.Custom = nil
	}
	return &out
}

// exportJSONL exports records as JSON Lines (one JSON object per line)
func (e *Exporter) exportJSONL(records []*Record, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	for i, r := range records {
		if err := encoder.Encode(e.prepare(r)); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return nil
}

// exportJSON exports records as a JSON array
func (e *Exporter) exportJSON(records []*Record, w io.Writer) error {
	exported := make([]*Record, len(records))
	for i, r := range records {
		exported[i] = e.prepare(r)
	}
	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(exported)
}

// exportYAML exports records as a YAML sequence
func (e *Exporter) exportYAML(records []*Record, w io.Writer) error {
	exported := make([]*Record, len(records))
	for i, r := range records {
		exported[i] = e.prepare(r)
	}
	out, err := yaml.Marshal(exported)
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// csvColumns are the fixed leading columns of CSV/TSV exports
var csvColumns = []string{
	"slug", "title", "date", "description", "tags", "banner",
	"word_count", "reading_minutes", "components",
}

// exportCSV exports records as CSV or TSV
func (e *Exporter) exportCSV(records []*Record, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.config.CSVDelimiter

	custom := e.collectCustomKeys(records)
	if e.config.IncludeHeader {
		header := append([]string{}, csvColumns...)
		for _, k := range custom {
			header = append(header, "custom."+k)
		}
		if err := csvWriter.Write(header); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	sep := e.config.ListSeparator
	for i, r := range records {
		banner := ""
		if r.Banner != nil {
			banner = r.Banner.Ref
		}
		row := []string{
			r.Slug, r.Title, r.Date, r.Description,
			strings.Join(r.Tags, sep), banner,
			strconv.Itoa(r.WordCount), strconv.Itoa(r.ReadingMinutes),
			strings.Join(r.Components, sep),
		}
		for _, k := range custom {
			row = append(row, r.Custom[k])
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// collectCustomKeys gathers the custom keys of all records, sorted
func (e *Exporter) collectCustomKeys(records []*Record) []string {
	if !e.config.IncludeCustom {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		for k := range r.Custom {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
