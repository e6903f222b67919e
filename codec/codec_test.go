package codec

import "testing"

func TestRoundTrip(t *testing.T) {
	for w6 := byte(0); w6 < 64; w6++ {
		glyph := Decode(w6)
		got, ok := Encode(glyph)
		if !ok {
			t.Fatalf("glyph %q for word %d did not encode back", glyph, w6)
		}
		if got != w6 {
			t.Errorf("word %d -> glyph %q -> word %d, want round trip", w6, glyph, got)
		}
	}
}

func TestUnsupportedGlyph(t *testing.T) {
	if _, ok := Encode('@'); ok {
		t.Fatalf("'@' is not in the codec, Encode should report ok=false")
	}
}

func TestTableSize(t *testing.T) {
	if len(Table) != 64 {
		t.Fatalf("codec table must have exactly 64 entries, got %d", len(Table))
	}
}
