package a51

import (
	"bytes"
	"fmt"
)

// BurstBits is the number of keystream bits in one direction of a frame.
const BurstBits = 114

// KeySetup loads a 64-bit session key and a 22-bit frame number into
// zeroed registers and mixes them for 100 majority-clocked steps.
func KeySetup(key [8]byte, frame uint32) *Generator {
	g := NewGeneratorWords(0, 0, 0)

	// load the key into the shift registers,
	// LSB of the first byte of the key array
	// first, clocking each register once for
	// every key bit loaded (without worrying
	// about middle bit majority)
	for i := uint32(0); i < 64; i++ {
		g.StepAll()
		keyBit := uint32(key[i/8]>>(i&7)) & 1 /* the i-th bit of the key */
		g.load(keyBit)
	}

	// same for the frame number, LSB first
	for i := uint32(0); i < 22; i++ {
		g.StepAll()
		g.load((frame >> i) & 1)
	}

	// run the shift registers for 100 clocks to mix the keys
	// we re-enable the majority bit rule from here on
	for i := 0; i < 100; i++ {
		g.Step()
	}
	return g
}

func (g *Generator) load(bit uint32) {
	g.r1.load(bit)
	g.r2.load(bit)
	g.r3.load(bit)
}

// Burst generates 228 bits of keystream: the first 114 bits for the A->B
// frame and the next 114 for the B->A frame, each stored MSB first.
func (g *Generator) Burst() (aToB, bToA []byte) {
	return g.frame(), g.frame()
}

func (g *Generator) frame() []byte {
	out := make([]byte, (BurstBits+7)/8)
	for i := 0; i < BurstBits; i++ {
		out[i/8] |= g.Next() << uint(7-(i&7))
	}
	return out
}

// SelfTest runs the reference key and frame through KeySetup and Burst and
// compares the output with the published keystream.
func SelfTest() error {
	key := [8]byte{0x12, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
	var frame uint32 = 0x134

	goodAtoB := []byte{0x53, 0x4E, 0xAA, 0x58, 0x2F, 0xE8, 0x15,
		0x1A, 0xB6, 0xE1, 0x85, 0x5A, 0x72, 0x8C, 0x00}
	goodBtoA := []byte{0x24, 0xFD, 0x35, 0xA3, 0x5D, 0x5F, 0xB6,
		0x52, 0x6D, 0x32, 0xF9, 0x06, 0xDF, 0x1A, 0xC0}

	aToB, bToA := KeySetup(key, frame).Burst()
	if !bytes.Equal(aToB, goodAtoB) {
		return fmt.Errorf("a51: self test: A->B burst %x, want %x", aToB, goodAtoB)
	}
	if !bytes.Equal(bToA, goodBtoA) {
		return fmt.Errorf("a51: self test: B->A burst %x, want %x", bToA, goodBtoA)
	}
	return nil
}
