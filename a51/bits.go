package a51

import (
	"fmt"
	"strings"
)

// Bits is an ordered sequence of bits, one 0 or 1 per element.
type Bits []uint8

// ParseBits converts a string of '0' and '1' characters.
func ParseBits(s string) (Bits, error) {
	b := make(Bits, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			b[i] = 1
		default:
			return nil, fmt.Errorf("%w: character %q at offset %d is not a bit", ErrMalformedInput, s[i], i)
		}
	}
	return b, nil
}

// String renders the sequence as '0' and '1' characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		sb.WriteByte('0' + v&1)
	}
	return sb.String()
}

// Equal reports whether b and o hold the same bits.
func (b Bits) Equal(o Bits) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// BytesToBits expands every byte into 8 bits, most significant first.
func BytesToBits(p []byte) Bits {
	b := make(Bits, 0, 8*len(p))
	for _, c := range p {
		for i := 7; i >= 0; i-- {
			b = append(b, (c>>uint(i))&1)
		}
	}
	return b
}

// Bytes packs the sequence into bytes, most significant bit first. A
// trailing group shorter than 8 bits is dropped.
func (b Bits) Bytes() []byte {
	out := make([]byte, len(b)/8)
	for i := range out {
		for j := 0; j < 8; j++ {
			out[i] = out[i]<<1 | b[8*i+j]&1
		}
	}
	return out
}

// TextToBits encodes the bytes of s, 8 bits per byte, most significant
// bit first.
func TextToBits(s string) Bits {
	return BytesToBits([]byte(s))
}

// BitsToText is the inverse of TextToBits. A trailing group shorter than
// 8 bits is discarded.
func BitsToText(b Bits) string {
	return string(b.Bytes())
}

// FormatWord renders v as a width-bit binary string, most significant
// bit first.
func FormatWord(v uint32, width int) string {
	return fmt.Sprintf("%0*b", width, v)
}
