// Package vector holds the naive text encoding stored next to each upload:
// one float32 per Unicode code point, written little-endian.
package vector

import (
	"encoding/binary"
	"math"

	"github.com/pgvector/pgvector-go"
)

// FromText maps every rune of text to its code point value.
func FromText(text string) pgvector.Vector {
	values := make([]float32, 0, len(text))
	for _, r := range text {
		values = append(values, float32(r))
	}
	return pgvector.NewVector(values)
}

func Encode(v pgvector.Vector) []byte {
	values := v.Slice()
	buf := make([]byte, 4*len(values))
	for i, f := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// EncodeText is FromText followed by Encode.
func EncodeText(text string) []byte {
	return Encode(FromText(text))
}
