// Package texture packs decoded pixel buffers into the byte layout expected by
// the 3D texture builder. It is a library entry point for that builder; the
// loader and the command line tool only resolve geometry and do not call it.
package texture

import (
	"encoding/binary"
	"fmt"
)

// BGRToRGB swaps the channel order of interleaved 8-bit BGR pixels in place
// and returns the same slice. A trailing partial pixel is left untouched.
func BGRToRGB(data []byte) []byte {
	for i := 0; i+2 < len(data); i += 3 {
		data[i], data[i+2] = data[i+2], data[i]
	}
	return data
}

// ShortsToBytes packs samples wider than 8 bits into little-endian byte
// pairs. The result is twice as long as the input.
func ShortsToBytes(data []int16) []byte {
	out := make([]byte, len(data)*2)
	for i, v := range data {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// Shorts8ToBytes keeps the low byte of 8-bit samples stored as shorts.
func Shorts8ToBytes(data []int16) []byte {
	out := make([]byte, len(data))
	for i, v := range data {
		out[i] = byte(v)
	}
	return out
}

// Pack converts a frame buffer to texture bytes according to its bits stored.
// Buffers of 8 bits or less are narrowed, wider ones are split.
func Pack(data []int16, bitsStored int) ([]byte, error) {
	switch {
	case bitsStored <= 0 || bitsStored > 16:
		return nil, fmt.Errorf("unsupported bits stored: %d", bitsStored)
	case bitsStored <= 8:
		return Shorts8ToBytes(data), nil
	default:
		return ShortsToBytes(data), nil
	}
}
