package frontend

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// wireTerminator ends every outbound message on both transports. The
// newline-then-carriage-return order is a wire convention inherited from
// the clients this server speaks to.
const wireTerminator = "\n\r"

// decodeWire converts raw latin-1 wire bytes to a string. Every byte maps
// to a code point, so decoding cannot fail.
func decodeWire(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// Unreachable for ISO 8859-1, which is total over bytes.
		return string(b)
	}
	return string(out)
}

// encodeWire converts a string to latin-1 wire bytes, substituting the
// encoding's replacement byte for characters outside the charset.
func encodeWire(s string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
