// Package patch serializes a stripped changeset.PatchItem stream to
// and from bytes, using SQLite's variable-length integer encoding and
// the alternating run/slice binary layout described in spec §4.5.
package patch

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidPatch is returned for a premature end of a serialized
// patch stream, or any other structurally malformed input.
var ErrInvalidPatch = errors.New("patch: invalid or truncated stream")

// ErrOverflowInVarint names a value too large for the varint encoding.
// Nothing in this package returns it: EncodeVarint takes a uint64,
// which always fits the nine-byte form, and has no error result.
var ErrOverflowInVarint = errors.New("patch: value overflows varint encoding")

// EncodeVarint appends the SQLite-style varint encoding of value to
// dst and returns the extended slice.
//
//	0 – 240:              1 byte,  the value itself.
//	241 – 2287:            2 bytes, tag in 241..248.
//	2288 – 67823:          3 bytes, tag 249.
//	67824 – 2^24-1:        4 bytes, tag 250.
//	2^24 – 2^32-1:         5 bytes, tag 251.
//	2^32 – 2^40-1:         6 bytes, tag 252.
//	2^40 – 2^48-1:         7 bytes, tag 253.
//	2^48 – 2^56-1:         8 bytes, tag 254.
//	2^56 – 2^64-1:         9 bytes, tag 255.
func EncodeVarint(dst []byte, value uint64) []byte {
	switch {
	case value <= 240:
		return append(dst, byte(value))
	case value <= 2287:
		excess := value - 240
		return append(dst, byte(241+excess/256), byte(excess%256))
	case value <= 67823:
		excess := value - 2288
		return append(dst, 249, byte(excess/256), byte(excess%256))
	default:
		tag, length := tagAndLength(value)
		dst = append(dst, tag)
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], value)
		return append(dst, buf[8-length:]...)
	}
}

func tagAndLength(value uint64) (byte, int) {
	switch {
	case value <= 1<<24-1:
		return 250, 3
	case value <= 1<<32-1:
		return 251, 4
	case value <= 1<<40-1:
		return 252, 5
	case value <= 1<<48-1:
		return 253, 6
	case value <= 1<<56-1:
		return 254, 7
	default:
		return 255, 8
	}
}

// DecodeVarint reads one SQLite-style varint from the front of src and
// returns its value together with the remaining, unconsumed bytes.
func DecodeVarint(src []byte) (uint64, []byte, error) {
	if len(src) < 1 {
		return 0, nil, ErrInvalidPatch
	}
	a0 := src[0]
	switch {
	case a0 <= 240:
		return uint64(a0), src[1:], nil
	case a0 <= 248:
		if len(src) < 2 {
			return 0, nil, ErrInvalidPatch
		}
		return 240 + 256*uint64(a0-241) + uint64(src[1]), src[2:], nil
	case a0 == 249:
		if len(src) < 3 {
			return 0, nil, ErrInvalidPatch
		}
		return 2288 + uint64(binary.BigEndian.Uint16(src[1:3])), src[3:], nil
	default:
		length := int(a0) - 247
		if len(src) < 1+length {
			return 0, nil, ErrInvalidPatch
		}
		var buf [8]byte
		copy(buf[8-length:], src[1:1+length])
		return binary.BigEndian.Uint64(buf[:]), src[1+length:], nil
	}
}
