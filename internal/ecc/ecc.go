// Package ecc applies Golay(24,12) forward error correction to payload
// bit sequences. Blocks are coded sequentially, so a prefix of the coded
// stream decodes to the corresponding prefix of the data bits; the codec
// relies on this to recover its fixed-length header before the payload
// length is known.
package ecc

import (
	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
)

// Encode expands bits with Golay forward error correction.
func Encode(bits []bool) []bool {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range bits {
		w.WriteBool(b)
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	_ = enc.Encode(w.Data(), w.Bits())

	r := bitstream.NewBitReader(encoded, 0, 0)
	out := make([]bool, enc.Bits())
	for i := range out {
		out[i], _ = r.ReadBitAt(i)
	}
	return out
}

// Decode corrects bits and returns the first plainBits data bits.
// Correction failures surface as flipped bits, which the payload codec
// treats as absence; Decode itself never fails.
func Decode(bits []bool, plainBits int) []bool {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range bits {
		w.WriteBool(b)
	}
	var decoded []uint64
	dec := golay.NewDecoder(w.Data(), w.Bits())
	_ = dec.Decode(&decoded)

	r := bitstream.NewBitReader(decoded, 0, 0)
	r.SetBits(plainBits)
	out := make([]bool, plainBits)
	for i := range out {
		out[i], _ = r.ReadBitAt(i)
	}
	return out
}

// EncodedBits returns the coded length for n data bits.
func EncodedBits(n int) int {
	return golay.EncodedBits(n)
}
