package a51

import "fmt"

// Register is a single linear feedback shift register. The zero value is
// not usable; build one with NewRegister or NewRegisterWord.
type Register struct {
	layout Layout
	state  uint32
	mask   uint32
	taps   uint32
	mid    uint32
	out    uint32
}

// NewRegister builds a register from its layout and an initial state of
// exactly layout.Width bits.
func NewRegister(layout Layout, state Bits) (*Register, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(state) != layout.Width {
		return nil, fmt.Errorf("%w: %s state has %d bits, want %d", ErrMalformedInput, layout.Name, len(state), layout.Width)
	}
	var word uint32
	for i, b := range state {
		if b > 1 {
			return nil, fmt.Errorf("%w: %s state bit %d is %d", ErrMalformedInput, layout.Name, i, b)
		}
		word |= uint32(b) << uint(i)
	}
	return newRegister(layout, word), nil
}

// NewRegisterWord builds a register whose position i holds bit i of word.
// Bits above the layout width are discarded.
func NewRegisterWord(layout Layout, word uint32) (*Register, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return newRegister(layout, word), nil
}

func newRegister(layout Layout, word uint32) *Register {
	r := &Register{
		layout: layout,
		mask:   layout.mask(),
		taps:   layout.tapMask(),
		mid:    1 << uint(layout.ClockBit),
		out:    1 << uint(layout.Width-1),
	}
	r.state = word & r.mask
	return r
}

// Clock shifts the register by one position and returns the bit shifted
// out. The feedback bit, the parity of the tapped positions, enters at
// position 0.
func (r *Register) Clock() uint8 {
	output := r.Output()
	t := r.state & r.taps
	r.state = (r.state << 1) & r.mask
	r.state |= parity(t)
	return output
}

// Output is the last position of the register, the next bit to be shifted out.
func (r *Register) Output() uint8 {
	if r.state&r.out != 0 {
		return 1
	}
	return 0
}

// ClockBit is the bit that decides, under majority clocking, whether the
// register moves.
func (r *Register) ClockBit() uint8 {
	if r.state&r.mid != 0 {
		return 1
	}
	return 0
}

// Bit returns position i of the state.
func (r *Register) Bit(i int) uint8 {
	return uint8(r.state>>uint(i)) & 1
}

// Word returns the state packed with position i at bit i.
func (r *Register) Word() uint32 {
	return r.state
}

// Width is the fixed number of positions in the register.
func (r *Register) Width() int {
	return r.layout.Width
}

// Layout returns the layout the register was built from.
func (r *Register) Layout() Layout {
	return r.layout
}

// State returns a copy of the state, position 0 first.
func (r *Register) State() Bits {
	b := make(Bits, r.layout.Width)
	for i := range b {
		b[i] = r.Bit(i)
	}
	return b
}

// load XORs v into position 0 (used while loading key and frame bits)
func (r *Register) load(v uint32) {
	r.state ^= v & 1
}
