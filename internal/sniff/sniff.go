// Package sniff infers the structural dialect of a delimited-text sample: its
// line terminator, field delimiter, quote character, and whether the first
// row is a header. It also classifies each column's scalar type and splits
// the sample into rows of fields.
//
// The inference is statistical and best-effort by design: the two delimiter
// guessers (structural pattern matching, then per-line character frequency)
// degrade to "no delimiter" rather than failing, malformed rows are excluded
// from statistics silently, and the only fatal condition is a sample with no
// line terminator at all.
//
// A Sniffer holds no mutable state beyond its allowed-delimiter set, which is
// fixed at construction, so one Sniffer may be used concurrently on
// independent samples.
package sniff

import "fmt"

// Sniffer detects dialects for text samples. The zero value is not usable;
// construct with New.
type Sniffer struct {
	// allowed restricts auto-detected delimiters. nil means every ASCII
	// character is eligible.
	allowed map[byte]bool
}

// New returns a Sniffer. When delimiter characters are given, auto-detection
// never proposes a delimiter outside that set; with none, all ASCII
// characters are eligible.
func New(delimiters ...byte) *Sniffer {
	var allowed map[byte]bool
	if len(delimiters) > 0 {
		allowed = make(map[byte]bool, len(delimiters))
		for _, d := range delimiters {
			allowed[d] = true
		}
	}
	return &Sniffer{allowed: allowed}
}

// Options overrides individual dialect components for one Sniff call. Pointer
// fields distinguish "not provided" (nil, auto-detect) from an explicit
// value; an explicit empty Delimiter or Quote means "none".
type Options struct {
	// Newline is used as-is when non-empty; otherwise the terminator is
	// auto-detected and its absence is fatal.
	Newline string

	// Delimiter, when set, is honored even if detection disagrees; a
	// disagreement only appends a warning.
	Delimiter *string

	// Quote, when set, is used as-is. Auto-detection only ever proposes
	// ' or ".
	Quote *string

	// HasHeader, when set, skips header voting.
	HasHeader *bool
}

// Result is the outcome of one Sniff call. Delimiter and Quote are empty
// strings when the sample has none.
type Result struct {
	Newline   string
	Delimiter string
	Quote     string
	HasHeader bool

	// Warnings records recoverable disagreements, such as a caller-supplied
	// delimiter contradicting the structural guesser.
	Warnings []string

	// Types holds one tag per column (TypeInteger, TypeFloat, TypeString),
	// computed from the body rows when a header was found, from all rows
	// otherwise.
	Types []string

	// Labels is row 0 of the parsed table when HasHeader, nil otherwise.
	Labels []string

	// Records is the parsed table, with the header row removed when
	// HasHeader.
	Records [][]string
}

// Sniff infers the dialect of sample, honoring any overrides in opt, and
// returns the parsed rows. The sample is treated as a prefix of a larger
// file: a trailing unterminated line is ignored.
//
// The only error is ErrNoNewline (no terminator found and none supplied).
func (s *Sniffer) Sniff(sample string, opt Options) (Result, error) {
	newline := opt.Newline
	if newline == "" {
		var err error
		if newline, err = detectNewline(sample); err != nil {
			return Result{}, err
		}
	}

	patDelim, patQuote := guessQuoteAndDelimiter(sample, newline, s.allowed)
	// Trust the structural guesser only when it produced a real quote
	// character; anything else means it was matching noise.
	patternTrusted := patQuote == `"` || patQuote == "'"

	quote := ""
	if patternTrusted {
		quote = patQuote
	}
	if opt.Quote != nil {
		quote = *opt.Quote
	}

	var warnings []string
	var delim string
	switch {
	case opt.Delimiter != nil:
		delim = *opt.Delimiter
		if patternTrusted && patDelim != "" && patDelim != delim {
			warnings = append(warnings, fmt.Sprintf(
				"detected delimiter %q differs from the configured delimiter %q; keeping the configured value",
				patDelim, delim))
		}
	case patternTrusted && patDelim != "":
		delim = patDelim
	default:
		delim = guessDelimiterByFrequency(sample, newline, s.allowed)
	}

	table := parseSample(sample, newline, delim, quote)
	first, tail, all := typeProfiles(table)

	var hasHeader bool
	if opt.HasHeader != nil {
		hasHeader = *opt.HasHeader
	} else {
		hasHeader = voteHeader(table, first, tail)
	}

	types := all
	if hasHeader {
		types = tail
	}

	res := Result{
		Newline:   newline,
		Delimiter: delim,
		Quote:     quote,
		HasHeader: hasHeader,
		Warnings:  warnings,
		Types:     types,
		Records:   table,
	}
	if hasHeader && len(table) > 0 {
		res.Labels = table[0]
		res.Records = table[1:]
	}
	return res, nil
}
