package ecc

import (
	"testing"
)

func pattern(n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = i%5 == 0 || i%2 == 1
	}
	return bits
}

func equal(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEncodeDecode(t *testing.T) {
	for _, n := range []int{12, 48, 100, 168, 520} {
		bits := pattern(n)
		coded := Encode(bits)
		if len(coded) != EncodedBits(n) {
			t.Errorf("n=%d: coded length %d, want %d", n, len(coded), EncodedBits(n))
		}
		if got := Decode(coded, n); !equal(bits, got) {
			t.Errorf("n=%d: decode mismatch", n)
		}
	}
}

func TestDecodeCorrectsBitErrors(t *testing.T) {
	bits := pattern(120)
	coded := Encode(bits)
	// up to 3 flipped bits per 24-bit block are correctable
	coded[0] = !coded[0]
	coded[30] = !coded[30]
	coded[77] = !coded[77]
	if got := Decode(coded, 120); !equal(bits, got) {
		t.Error("decode did not correct flipped bits")
	}
}

func TestPrefixDecodesHeader(t *testing.T) {
	// blocks are sequential: the coded prefix for the first 48 data
	// bits must decode identically whether or not the tail is present
	bits := pattern(48 + 96)
	coded := Encode(bits)

	prefix := Decode(coded[:EncodedBits(48)], 48)
	if !equal(bits[:48], prefix) {
		t.Error("coded prefix did not decode to the data prefix")
	}
}
