// Package a51 implements the A5/1 keystream generator: three linear
// feedback shift registers advanced under the majority clocking rule.
//
// Register state follows the layout of the reference C code at
// http://www.scard.org/gsm/a51.html: bit i of the register word is
// position i of the state, feedback enters at bit 0 and the output is the
// high bit. A state written as a bit string lists position 0 first.
package a51

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput reports a bit string of the wrong length or with
	// characters other than '0' and '1'.
	ErrMalformedInput = errors.New("a51: malformed input")

	// ErrInvalidLength reports a negative keystream length.
	ErrInvalidLength = errors.New("a51: invalid keystream length")

	// ErrShortKeystream reports a keystream shorter than the data it is
	// combined with.
	ErrShortKeystream = errors.New("a51: keystream shorter than input")
)

// Layout describes the shape of one register: its width, the positions
// XORed into the feedback bit and the position read for clock control.
type Layout struct {
	Name     string
	Width    int
	Taps     []int
	ClockBit int
}

// The three A5/1 registers.
var (
	/* 19 bits, taps 18,17,16,13, middle bit 8 */
	R1 = Layout{Name: "R1", Width: 19, Taps: []int{13, 16, 17, 18}, ClockBit: 8}
	/* 22 bits, taps 21,20, middle bit 10 */
	R2 = Layout{Name: "R2", Width: 22, Taps: []int{20, 21}, ClockBit: 10}
	/* 23 bits, taps 22,21,20,7, middle bit 10 */
	R3 = Layout{Name: "R3", Width: 23, Taps: []int{7, 20, 21, 22}, ClockBit: 10}
)

// Validate reports whether the layout can back a register.
func (l Layout) Validate() error {
	if l.Width < 1 || l.Width > 32 {
		return fmt.Errorf("%w: %s width %d outside [1,32]", ErrMalformedInput, l.Name, l.Width)
	}
	if len(l.Taps) == 0 {
		return fmt.Errorf("%w: %s has no taps", ErrMalformedInput, l.Name)
	}
	for _, t := range l.Taps {
		if t < 0 || t >= l.Width {
			return fmt.Errorf("%w: %s tap %d outside [0,%d]", ErrMalformedInput, l.Name, t, l.Width-1)
		}
	}
	if l.ClockBit < 0 || l.ClockBit >= l.Width {
		return fmt.Errorf("%w: %s clock bit %d outside [0,%d]", ErrMalformedInput, l.Name, l.ClockBit, l.Width-1)
	}
	return nil
}

func (l Layout) mask() uint32 {
	return uint32(1<<uint(l.Width) - 1)
}

func (l Layout) tapMask() uint32 {
	var m uint32
	for _, t := range l.Taps {
		m |= 1 << uint(t)
	}
	return m
}

/* calculate the parity of a 32-bit word */
/* i.e. sum of all its bits modulo 2 */
func parity(x uint32) uint32 {
	x ^= x >> 16
	x ^= x >> 8
	x ^= x >> 4
	x ^= x >> 2
	x ^= x >> 1
	return x & 1
}
