// Package codec implements the fixed bidirectional mapping between
// printable glyphs and 6-bit machine words used by character literals
// and the binary format.
package codec

// Table is the 64-entry W6 -> glyph mapping (GLOSSARY, codec).
var Table = [64]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '=', '-', '+', '*', '/', '^',
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P',
	'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', ' ', '.', ',', '\'', '"', '`',
	'#', '!', '&', '?', ';', ':', '$', '%', '|', '>', '<', '[', ']', '(', ')', '\\',
}

var inverse = buildInverse()

func buildInverse() map[byte]byte {
	m := make(map[byte]byte, len(Table))
	for w6, glyph := range Table {
		m[glyph] = byte(w6)
	}
	return m
}

// Decode returns the printable glyph for a 6-bit word. w6 must be in [0, 63];
// callers outside this package should mask or validate first.
func Decode(w6 byte) byte {
	return Table[w6&0x3F]
}

// Encode returns the 6-bit word for a printable glyph, or ok=false if the
// glyph is not in the codec.
func Encode(glyph byte) (w6 byte, ok bool) {
	w6, ok = inverse[glyph]
	return w6, ok
}
