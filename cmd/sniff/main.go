// Command sniff infers the dialect and structure of a delimited text file.
//
// It reads a bounded prefix of the input (default 20KB), normalizes the
// bytes to UTF-8, and infers the line terminator, delimiter, quote
// character, per-column types, and whether the first row is a header. The
// result is emitted as JSON on stdout.
//
// Any part of the dialect can be forced with -delimiter, -quote, -newline,
// and -header; the sniffer fills in whatever is left on auto. When a forced
// delimiter disagrees with the detected one, the forced value wins and a
// warning is recorded in the output.
//
// HTML sources (-html) are handled by extracting the first data table from
// the page and running inference over its cells.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"csvsniff/internal/htmltable"
	"csvsniff/internal/metrics"
	"csvsniff/internal/metrics/datadog"
	"csvsniff/internal/sample"
	"csvsniff/internal/schema"
	"csvsniff/internal/sniff"
)

// output is the JSON document printed on stdout.
type output struct {
	Source    string         `json:"source"`
	Encoding  string         `json:"encoding"`
	Newline   string         `json:"newline"`
	Delimiter string         `json:"delimiter"`
	Quote     string         `json:"quote,omitempty"`
	HasHeader bool           `json:"has_header"`
	Labels    []string       `json:"labels,omitempty"`
	Types     []string       `json:"types"`
	Fields    []schema.Field `json:"fields"`
	RowCount  int            `json:"row_count"`
	Records   [][]string     `json:"records,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

func main() {
	var (
		// flagURL is the URL or local filesystem path of the dataset.
		// http://, https://, file:// and bare local paths are supported.
		flagURL = flag.String("url", "", "URL or path of the source file")

		// flagBytes controls how many bytes are sampled from the start of
		// the input. Larger values improve inference on wide or irregular
		// files at a small cost in time and memory.
		flagBytes = flag.Int("bytes", 20000, "Number of bytes to sample from the start of the file")

		// flagDelimiter forces the field delimiter instead of detecting it.
		flagDelimiter = flag.String("delimiter", "", "Force the field delimiter (single character)")

		// flagQuote forces the quote character instead of detecting it.
		flagQuote = flag.String("quote", "", "Force the quote character (single character)")

		// flagNewline forces the line terminator. Accepts lf, crlf, cr, or
		// nlcr; empty means detect.
		flagNewline = flag.String("newline", "", "Force the line terminator: lf|crlf|cr|nlcr")

		// flagHeader forces the header decision. Accepts true or false;
		// empty means vote on the sample.
		flagHeader = flag.String("header", "", "Force header presence: true|false (empty = detect)")

		// flagHTML treats the source as an HTML page and sniffs the first
		// data table found on it.
		flagHTML = flag.Bool("html", false, "Extract the first HTML table from the source and sniff that")

		// flagRecords controls whether parsed sample records are included
		// in the JSON output.
		flagRecords = flag.Bool("records", false, "Include parsed sample records in the output")

		// flagPretty controls JSON indentation.
		flagPretty = flag.Bool("pretty", true, "Pretty-print JSON output")

		// flagSave writes the normalized sample bytes to the given path.
		flagSave = flag.String("save", "", "Write the normalized sample to this path")

		// flagAllowInsecure controls TLS certificate verification for HTTP
		// sources. Prefer false in production.
		flagAllowInsecure = flag.Bool("allow-insecure", false, "Allow insecure TLS")

		// flagMetrics selects a metrics backend: "none" or "datadog".
		flagMetrics = flag.String("metrics", "none", "Metrics backend: none|datadog")

		// flagMetricsTags adds extra Datadog tags, e.g. "env:prod,team:data".
		flagMetricsTags = flag.String("metrics-tags", "", "Extra metrics tags (comma-separated key:value pairs)")
	)
	flag.Parse()

	if strings.TrimSpace(*flagURL) == "" {
		fmt.Fprintln(os.Stderr, "missing -url")
		flag.Usage()
		os.Exit(2)
	}

	// Bound the run. Sniffing should be fast and predictable; if the source
	// is slow or unreachable, fail quickly rather than hang.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	backend := newMetricsBackend(ctx, *flagMetrics, *flagMetricsTags)
	defer func() { _ = backend.Close() }()

	start := time.Now()
	out, err := run(ctx, runConfig{
		url:           *flagURL,
		maxBytes:      *flagBytes,
		delimiter:     *flagDelimiter,
		quote:         *flagQuote,
		newline:       *flagNewline,
		header:        *flagHeader,
		html:          *flagHTML,
		savePath:      *flagSave,
		allowInsecure: *flagAllowInsecure,
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	backend.IncCounter(metrics.SniffRunsTotal, 1, metrics.Labels{"status": status})
	backend.ObserveHistogram(metrics.SniffDurationSeconds, time.Since(start).Seconds(), metrics.Labels{"status": status})
	if err != nil {
		_ = backend.Close()
		log.Fatalf("sniff: %v", err)
	}
	backend.IncCounter(metrics.SniffRowsTotal, float64(out.RowCount), nil)

	if !*flagRecords {
		out.Records = nil
	}

	enc := json.NewEncoder(os.Stdout)
	if *flagPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}

type runConfig struct {
	url           string
	maxBytes      int
	delimiter     string
	quote         string
	newline       string
	header        string
	html          bool
	savePath      string
	allowInsecure bool
}

// run fetches, normalizes, and sniffs one source.
func run(ctx context.Context, cfg runConfig) (*output, error) {
	raw, err := sample.Peek(ctx, cfg.url, cfg.maxBytes, cfg.allowInsecure)
	if err != nil {
		return nil, err
	}

	text, encName := sample.Normalize(raw)

	opt, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.html {
		tbl, err := htmltable.ExtractFirst(string(text))
		if err != nil {
			return nil, err
		}
		text = tbl.Render()
		// The rendered form has a fixed dialect; only the header decision
		// depends on the page.
		d, q := ",", `"`
		opt.Delimiter, opt.Quote = &d, &q
		opt.Newline = "\n"
		if opt.HasHeader == nil {
			hasHeader := len(tbl.Labels) > 0
			opt.HasHeader = &hasHeader
		}
	} else {
		text = sample.CutTail(text)
	}

	if cfg.savePath != "" {
		if err := os.WriteFile(cfg.savePath, text, 0o644); err != nil {
			return nil, fmt.Errorf("save sample: %w", err)
		}
	}

	res, err := sniff.New().Sniff(string(text), opt)
	if err != nil {
		return nil, err
	}

	return &output{
		Source:    cfg.url,
		Encoding:  encName,
		Newline:   res.Newline,
		Delimiter: res.Delimiter,
		Quote:     res.Quote,
		HasHeader: res.HasHeader,
		Labels:    res.Labels,
		Types:     res.Types,
		Fields:    schema.FieldsFor(res.Labels, res.Types),
		RowCount:  len(res.Records),
		Records:   res.Records,
		Warnings:  res.Warnings,
	}, nil
}

// buildOptions translates CLI flags into sniffer options.
func buildOptions(cfg runConfig) (sniff.Options, error) {
	var opt sniff.Options

	if cfg.delimiter != "" {
		if len(cfg.delimiter) != 1 {
			return opt, fmt.Errorf("-delimiter must be a single character, got %q", cfg.delimiter)
		}
		d := cfg.delimiter
		opt.Delimiter = &d
	}
	if cfg.quote != "" {
		if len(cfg.quote) != 1 {
			return opt, fmt.Errorf("-quote must be a single character, got %q", cfg.quote)
		}
		q := cfg.quote
		opt.Quote = &q
	}

	switch strings.ToLower(strings.TrimSpace(cfg.newline)) {
	case "":
	case "lf":
		opt.Newline = "\n"
	case "crlf":
		opt.Newline = "\r\n"
	case "cr":
		opt.Newline = "\r"
	case "nlcr":
		opt.Newline = "\n\r"
	default:
		return opt, fmt.Errorf("-newline must be lf, crlf, cr, or nlcr, got %q", cfg.newline)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.header)) {
	case "":
	case "true":
		v := true
		opt.HasHeader = &v
	case "false":
		v := false
		opt.HasHeader = &v
	default:
		return opt, fmt.Errorf("-header must be true or false, got %q", cfg.header)
	}

	return opt, nil
}

// newMetricsBackend constructs the requested metrics backend, falling back
// to the no-op backend on unknown kinds or init failure.
func newMetricsBackend(ctx context.Context, kind, tagsCSV string) metrics.Backend {
	if strings.ToLower(strings.TrimSpace(kind)) != "datadog" {
		return metrics.Nop{}
	}
	b, err := datadog.NewBackend(ctx, datadog.Options{
		JobName: "sniff",
		Tags:    datadog.ParseTagsCSV(tagsCSV),
	})
	if err != nil {
		log.Printf("metrics: datadog init failed, metrics disabled: %v", err)
		return metrics.Nop{}
	}
	return b
}
