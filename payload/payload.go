// Package payload defines the structured watermark record and its
// deterministic bit-level wire codec.
//
// Wire layout, most-significant-bit first:
//
//	magic "SGMK" | version (1B) | creator length (1B) | creator UTF-8 |
//	unix seconds (4B big-endian) | content fingerprint (4B) | source (1B)
//
// The magic marker distinguishes a carried payload from the image's own
// least-significant bits. Absence of a payload is a normal result, never
// an error.
package payload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/yyyoichi/bitstream-go"
)

// Magic is the byte pattern prefixed to every encoded record.
var Magic = [4]byte{'S', 'G', 'M', 'K'}

const (
	// Version1 is the only wire format version this codec understands.
	Version1 uint8 = 0x01

	// MaxCreatorIDLen bounds the length-prefixed creator identity.
	MaxCreatorIDLen = 255

	// headerLen covers magic, version and the creator length prefix.
	headerLen = len("SGMK") + 1 + 1
	// tailLen covers timestamp, fingerprint and source.
	tailLen = 4 + FingerprintLen + 1

	// FingerprintLen is the number of fingerprint bytes carried on the wire.
	FingerprintLen = 4

	// HeaderBits is the bit length of the fixed prefix up to and including
	// the creator length byte.
	HeaderBits = headerLen * 8

	// MaxBits is the bit length of the largest possible encoded record.
	MaxBits = (headerLen + MaxCreatorIDLen + tailLen) * 8
)

var (
	ErrCreatorIDTooLong = errors.New("creator id exceeds 255 bytes")
	ErrUnknownSource    = errors.New("unknown source type")
	ErrUnknownVersion   = errors.New("unknown payload version")
)

// SourceType discriminates how the signed content was produced.
type SourceType uint8

const (
	SourceAuthentic   SourceType = 0x01
	SourceAIGenerated SourceType = 0x02
)

func (s SourceType) valid() bool {
	return s == SourceAuthentic || s == SourceAIGenerated
}

func (s SourceType) String() string {
	switch s {
	case SourceAuthentic:
		return "authentic"
	case SourceAIGenerated:
		return "ai-generated"
	default:
		return fmt.Sprintf("source(0x%02x)", uint8(s))
	}
}

// Record is the identity payload carried in an image's bit plane.
type Record struct {
	// Version of the wire format. Encode fills in Version1 when zero.
	Version uint8
	// CreatorID is an opaque identity string, at most 255 UTF-8 bytes.
	CreatorID string
	// Timestamp is the signing time. Encoded with second precision.
	Timestamp time.Time
	// Fingerprint is the truncated content hash of the pre-embedding pixels.
	Fingerprint [FingerprintLen]byte
	// Source declares how the content was produced.
	Source SourceType
}

// Bits returns the number of payload bits an encoding of r occupies.
func (r Record) Bits() int {
	return (headerLen + len(r.CreatorID) + tailLen) * 8
}

// Encode serializes r into its bit sequence, most-significant-bit first.
func (r Record) Encode() ([]bool, error) {
	if len(r.CreatorID) > MaxCreatorIDLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrCreatorIDTooLong, len(r.CreatorID))
	}
	version := r.Version
	if version == 0 {
		version = Version1
	}
	if version != Version1 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
	if !r.Source.valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownSource, uint8(r.Source))
	}

	buf := make([]byte, 0, headerLen+len(r.CreatorID)+tailLen)
	buf = append(buf, Magic[:]...)
	buf = append(buf, version)
	buf = append(buf, byte(len(r.CreatorID)))
	buf = append(buf, r.CreatorID...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(r.Timestamp.Unix()))
	buf = append(buf, r.Fingerprint[:]...)
	buf = append(buf, byte(r.Source))

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range buf {
		w.Write8(0, 8, b)
	}
	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	bits := make([]bool, w.Bits())
	for i := range bits {
		bits[i], _ = reader.ReadBitAt(i)
	}
	return bits, nil
}

// Decode reassembles a Record from bits. The second return value reports
// whether a well-formed payload was found; trailing bits beyond the record
// are ignored and bits are never read past len(bits).
func Decode(bits []bool) (Record, bool) {
	var rec Record
	if len(bits) < HeaderBits {
		return rec, false
	}
	buf := bitsToBytes(bits)

	if [4]byte(buf[:4]) != Magic {
		return rec, false
	}
	if buf[4] != Version1 {
		return rec, false
	}
	creatorLen := int(buf[5])
	if len(buf) < headerLen+creatorLen+tailLen {
		return rec, false
	}

	rest := buf[headerLen:]
	creator := rest[:creatorLen]
	rest = rest[creatorLen:]
	seconds := binary.BigEndian.Uint32(rest[:4])
	source := SourceType(rest[4+FingerprintLen])
	if !source.valid() {
		return rec, false
	}

	rec.Version = buf[4]
	rec.CreatorID = string(creator)
	rec.Timestamp = time.Unix(int64(seconds), 0).UTC()
	copy(rec.Fingerprint[:], rest[4:4+FingerprintLen])
	rec.Source = source
	return rec, true
}

// RecordBits returns the encoded bit length of a record whose creator
// id occupies creatorIDLen bytes.
func RecordBits(creatorIDLen int) int {
	return (headerLen + creatorIDLen + tailLen) * 8
}

// DecodeHeader validates the fixed prefix of an encoded record and
// returns the declared creator id length. ok is false when the magic
// marker or version does not match.
func DecodeHeader(bits []bool) (creatorIDLen int, ok bool) {
	if len(bits) < HeaderBits {
		return 0, false
	}
	buf := bitsToBytes(bits[:HeaderBits])
	if [4]byte(buf[:4]) != Magic {
		return 0, false
	}
	if buf[4] != Version1 {
		return 0, false
	}
	return int(buf[5]), true
}

// bitsToBytes packs bits MSB-first into whole bytes, dropping any
// trailing partial byte. Partial bytes can never belong to the payload.
func bitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := range 8 {
			b <<= 1
			if bits[i*8+j] {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}
