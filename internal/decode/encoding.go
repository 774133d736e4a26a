// Package decode turns raw release bytes into all-string RawTables.
//
// Four decoders share one output contract: fixed-width (layout-sliced),
// delimited text (sniffed separator), spreadsheet (raw cell text), and
// archive (zip container). All text decoding goes through a single encoding
// cascade — UTF-8 strict, then Windows-1252, then Latin-1 — sniffed from a
// bounded byte prefix so sniffing cost is independent of file size.
package decode

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the detected source encoding, reported in parse metrics.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingLatin1      Encoding = "latin-1"
)

// SniffLimit bounds how many bytes the encoding and format sniffers examine.
const SniffLimit = 8192

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Windows-1252 leaves these bytes undefined; their presence in the sniffed
// prefix tips the cascade to Latin-1.
var cp1252Undefined = map[byte]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

// DecodeText converts raw bytes to a UTF-8 string using the encoding
// cascade. The BOM, if present, is stripped before sniffing.
func DecodeText(data []byte) (string, Encoding) {
	data = bytes.TrimPrefix(data, utf8BOM)
	enc := sniffEncoding(data)
	return decodeSlice(data, enc), enc
}

// decodeSlice transcodes one byte slice with an already-detected encoding.
// The fixed-width decoder uses it per cell, after slicing by source byte
// offsets, so legacy single-byte characters never shift later columns.
func decodeSlice(b []byte, enc Encoding) string {
	switch enc {
	case EncodingLatin1:
		out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
		return string(out)
	case EncodingWindows1252:
		out, _ := charmap.Windows1252.NewDecoder().Bytes(b)
		return string(out)
	default:
		return string(b)
	}
}

// sniffEncoding examines only a bounded prefix.
func sniffEncoding(data []byte) Encoding {
	prefix := data
	if len(prefix) > SniffLimit {
		prefix = prefix[:SniffLimit]
		// Back off to a rune boundary so a split multi-byte sequence does
		// not misread valid UTF-8 as legacy bytes.
		for i := 0; i < utf8.UTFMax && len(prefix) > 0; i++ {
			if r, _ := utf8.DecodeLastRune(prefix); r != utf8.RuneError {
				break
			}
			prefix = prefix[:len(prefix)-1]
		}
	}

	if utf8.Valid(prefix) {
		return EncodingUTF8
	}
	for _, b := range prefix {
		if cp1252Undefined[b] {
			return EncodingLatin1
		}
	}
	return EncodingWindows1252
}

// scrubCell strips the byte-order mark and non-breaking spaces that survive
// into header cells of Windows-exported files.
func scrubCell(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\uFEFF', '\u00A0':
			continue
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
