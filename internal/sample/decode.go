package sample

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Normalize converts raw sample bytes to UTF-8 text and reports the encoding
// it decided on.
//
// Decision order:
//   - UTF-8 BOM: stripped.
//   - UTF-16 BOM (either endianness): decoded.
//   - Valid UTF-8: passed through.
//   - Anything else: decoded as Windows-1252, which cannot fail and covers
//     the common Latin-1-ish exports.
//
// The sniffer operates on the returned bytes; the encoding name is for
// reporting only.
func Normalize(b []byte) ([]byte, string) {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return b[len(bomUTF8):], "utf-8"

	case bytes.HasPrefix(b, bomUTF16LE):
		return decodeUTF16(b[len(bomUTF16LE):], unicode.LittleEndian), "utf-16le"

	case bytes.HasPrefix(b, bomUTF16BE):
		return decodeUTF16(b[len(bomUTF16BE):], unicode.BigEndian), "utf-16be"

	case utf8.Valid(b):
		return b, "utf-8"
	}

	dec := charmap.Windows1252.NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		// Windows-1252 maps every byte; decoding cannot realistically fail.
		// Fall back to the raw bytes rather than dropping the sample.
		return b, "unknown"
	}
	return out, "windows-1252"
}

func decodeUTF16(b []byte, e unicode.Endianness) []byte {
	// The byte cutoff can land mid code unit; drop a dangling odd byte.
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	dec := unicode.UTF16(e, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return b
	}
	return out
}
