package sniff

import "strings"

// parseSample splits the sample into rows of fields for the resolved dialect.
// Only fully terminated lines are emitted; a trailing partial line (no closing
// terminator) is discarded because the sample is a prefix of a larger file.
//
// delim=="" degenerates to single-field rows; quote=="" selects the plain
// split path with no quote or escape handling.
func parseSample(sample, newline, delim, quote string) [][]string {
	if quote == "" {
		return parsePlain(sample, newline, delim)
	}
	return parseQuoted(sample, newline, delim, quote[0])
}

func parsePlain(sample, newline, delim string) [][]string {
	parts := strings.Split(sample, newline)
	// The final fragment is either an unterminated line or the empty string
	// after a closing terminator; neither is a row.
	parts = parts[:len(parts)-1]

	rows := make([][]string, 0, len(parts))
	for _, ln := range parts {
		if delim == "" {
			rows = append(rows, []string{ln})
			continue
		}
		rows = append(rows, strings.Split(ln, delim))
	}
	return rows
}

// parseQuoted is a single left-to-right scan with three pieces of state: an
// inside-quotes flag, an escape-pending flag, and the accumulating field.
//
// A backslash escapes exactly the next character, which is appended literally
// and never interpreted as quote, delimiter, or terminator. An unescaped quote
// toggles the quoting state and is not part of the field. Delimiters and
// terminators only act outside quotes.
func parseQuoted(sample, newline, delim string, quote byte) [][]string {
	var (
		rows     [][]string
		row      = []string{}
		field    strings.Builder
		inQuotes bool
		escape   bool
	)

	var delimByte byte
	if delim != "" {
		delimByte = delim[0]
	}

	for i := 0; i < len(sample); {
		c := sample[i]

		if escape {
			field.WriteByte(c)
			escape = false
			i++
			continue
		}
		if c == '\\' {
			escape = true
			i++
			continue
		}
		if c == quote {
			inQuotes = !inQuotes
			i++
			continue
		}

		if !inQuotes {
			if strings.HasPrefix(sample[i:], newline) {
				// Close the line, dropping an empty trailing field.
				if field.Len() > 0 {
					row = append(row, field.String())
				}
				field.Reset()
				rows = append(rows, row)
				row = []string{}
				i += len(newline)
				continue
			}
			if delim != "" && c == delimByte {
				row = append(row, field.String())
				field.Reset()
				i++
				continue
			}
		}

		field.WriteByte(c)
		i++
	}

	// Anything still pending belongs to an unterminated line; drop it.
	return rows
}
