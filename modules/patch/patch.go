package patch

import "github.com/mawicks/gaspra/modules/changeset"

// Codec converts a run of tokens to and from the bytes stored inside
// a serialized patch's token-run segments. ByteCodec is the
// degenerate case (T=byte, bytes flow through unchanged); callers
// tokenizing on something else (runes, int32 ids) supply their own.
type Codec[T comparable] interface {
	Encode(tokens []T) []byte
	Decode(data []byte) []T
}

// ByteCodec is the identity Codec for raw byte tokens, the default
// when no external tokenizer is in play (spec §6 "if absent, bytes
// flow through unchanged").
type ByteCodec struct{}

func (ByteCodec) Encode(tokens []byte) []byte { return tokens }
func (ByteCodec) Decode(data []byte) []byte   { return data }

// Encode serializes a stripped patch to bytes using codec to turn
// each RunItem's tokens into bytes. The layout is a strictly
// alternating sequence of token-run and slice segments starting with
// a token-run (spec §4.5): a token-run is varint(length) followed by
// that many bytes; a slice is varint(start) varint(stop). Padding
// items (an empty token-run or an empty slice) are inserted wherever
// the natural sequence would otherwise start with a slice or place
// two segments of the same kind adjacent to each other.
func Encode[T comparable](items []changeset.PatchItem[T], codec Codec[T]) []byte {
	var out []byte
	nextIsRun := true

	for _, item := range items {
		_, isSlice := item.(changeset.SliceItem)
		if nextIsRun && isSlice {
			out = EncodeVarint(out, 0)
			nextIsRun = false
		} else if !nextIsRun && !isSlice {
			out = EncodeVarint(out, 0)
			out = EncodeVarint(out, 0)
			nextIsRun = true
		}

		switch v := item.(type) {
		case changeset.RunItem[T]:
			data := codec.Encode(v.Tokens)
			out = EncodeVarint(out, uint64(len(data)))
			out = append(out, data...)
			nextIsRun = false
		case changeset.SliceItem:
			out = EncodeVarint(out, uint64(v.Start))
			out = EncodeVarint(out, uint64(v.Stop))
			nextIsRun = true
		}
	}

	return out
}

// Decode reverses Encode. Zero-length padding items are dropped:
// an empty token-run or a slice whose start equals its stop never
// appears in the returned item list.
func Decode[T comparable](data []byte, codec Codec[T]) ([]changeset.PatchItem[T], error) {
	var out []changeset.PatchItem[T]
	nextIsRun := true
	stream := data

	for len(stream) > 0 {
		if nextIsRun {
			length, rest, err := DecodeVarint(stream)
			if err != nil {
				return nil, err
			}
			stream = rest
			if length > 0 {
				if uint64(len(stream)) < length {
					return nil, ErrInvalidPatch
				}
				out = append(out, changeset.RunItem[T]{Tokens: codec.Decode(stream[:length])})
				stream = stream[length:]
			}
			nextIsRun = false
		} else {
			start, rest, err := DecodeVarint(stream)
			if err != nil {
				return nil, err
			}
			stream = rest
			stop, rest2, err := DecodeVarint(stream)
			if err != nil {
				return nil, err
			}
			stream = rest2
			if start != stop {
				out = append(out, changeset.SliceItem{Start: int(start), Stop: int(stop)})
			}
			nextIsRun = true
		}
	}

	return out, nil
}
