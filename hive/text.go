package hive

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// utf16le decodes registry text. Decoders are created per call since
// x/text transformers are stateful.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeName converts an on-disk key or value name to UTF-8. Compressed
// names are 8-bit Windows-1252, the rest UTF-16LE.
func decodeName(raw []byte, compressed bool) string {
	if compressed {
		if isASCII(raw) {
			return string(raw)
		}
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return string(raw)
		}
		return string(out)
	}
	return decodeUTF16(raw)
}

// decodeString converts REG_SZ data to UTF-8. Decoding stops at the first
// NUL code unit and a trailing odd byte is dropped.
func decodeString(b []byte) string {
	b = b[:len(b)&^1]
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			b = b[:i]
			break
		}
	}
	return decodeUTF16(b)
}

func decodeUTF16(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// unpaired surrogates become U+FFFD rather than an error
	out, err := utf16le.NewDecoder().Bytes(b[:len(b)&^1])
	if err != nil {
		return ""
	}
	return string(out)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
