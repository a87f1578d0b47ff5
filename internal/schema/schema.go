// Package schema maps sniffed column profiles onto storage-ready table
// definitions: safe identifier names and backend-neutral column types.
package schema

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"csvsniff/internal/sniff"
)

// Field is one column of a table definition.
type Field struct {
	// Name is the normalized column identifier.
	Name string `json:"name"`
	// Type is the backend-neutral column type: "bigint", "float", or "text".
	Type string `json:"type"`
}

// Table is a named list of fields, ready for a storage backend.
type Table struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// TypeFromSniff converts a sniffed column type into the backend-neutral
// contract type. Unknown inputs map to "text", which every backend accepts.
func TypeFromSniff(t string) string {
	switch t {
	case sniff.TypeInteger:
		return "bigint"
	case sniff.TypeFloat:
		return "float"
	default:
		return "text"
	}
}

// FieldsFor builds the field list for a sniffed table. Column names come
// from labels when a header was detected; otherwise positional col_N names
// are generated. Names are normalized, truncated, and de-duplicated so the
// result is safe for any backend.
func FieldsFor(labels, types []string) []Field {
	fields := make([]Field, 0, len(types))
	seen := make(map[string]int, len(types))

	for i, t := range types {
		name := ""
		if i < len(labels) {
			name = TruncateFieldName(NormalizeFieldName(labels[i]))
		}
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = TruncateFieldName(fmt.Sprintf("%s_%d", name, n+1))
		} else {
			seen[name] = 1
		}

		fields = append(fields, Field{
			Name: name,
			Type: TypeFromSniff(t),
		})
	}
	return fields
}

// TruncateFieldName enforces backend identifier length limits while
// preserving UTF-8 validity.
func TruncateFieldName(s string) string {
	const maxLen = 63
	if len(s) <= maxLen {
		return s
	}
	b := []byte(s)
	cut := maxLen
	for cut > 0 && !utf8.Valid(b[:cut]) {
		cut--
	}
	if cut <= 0 {
		return s[:maxLen]
	}
	return string(b[:cut])
}

// NormalizeFieldName converts an arbitrary input string into a safe,
// lowercase identifier suitable for column and table names.
func NormalizeFieldName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Simple ASCII-ish normalization:
	//  - lower
	//  - replace separator punctuation with underscore
	//  - remove non [a-z0-9_]
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	lastUnderscore := false
	for _, r := range s {
		if r == ' ' || r == '-' || r == '.' || r == '/' || r == '\\' || r == ':' || r == ';' {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			lastUnderscore = (r == '_')
			continue
		}

		// Drop everything else.
	}

	return strings.Trim(b.String(), "_")
}
