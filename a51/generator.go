package a51

// Majority returns 1 when at least two of a, b and c are 1.
func Majority(a, b, c uint8) uint8 {
	if a+b+c >= 2 {
		return 1
	}
	return 0
}

// Generator drives R1, R2 and R3 under majority clocking. It only moves
// forward; build a fresh one for every keystream that must start from an
// initial state.
type Generator struct {
	r1, r2, r3 *Register
}

// NewGenerator builds a generator from the initial states of R1, R2 and
// R3, each written position 0 first.
func NewGenerator(x, y, z Bits) (*Generator, error) {
	r1, err := NewRegister(R1, x)
	if err != nil {
		return nil, err
	}
	r2, err := NewRegister(R2, y)
	if err != nil {
		return nil, err
	}
	r3, err := NewRegister(R3, z)
	if err != nil {
		return nil, err
	}
	return &Generator{r1: r1, r2: r2, r3: r3}, nil
}

// NewGeneratorWords builds a generator from packed register words.
func NewGeneratorWords(x, y, z uint32) *Generator {
	return &Generator{
		r1: newRegister(R1, x),
		r2: newRegister(R2, y),
		r3: newRegister(R3, z),
	}
}

// Step advances the registers whose clocking bit agrees with the
// majority. All three clocking bits are read before any register moves.
func (g *Generator) Step() {
	/* clock R# whenever R#'s middle bit agrees with the majority */
	b1, b2, b3 := g.r1.ClockBit(), g.r2.ClockBit(), g.r3.ClockBit()
	maj := Majority(b1, b2, b3)
	if b1 == maj {
		g.r1.Clock()
	}
	if b2 == maj {
		g.r2.Clock()
	}
	if b3 == maj {
		g.r3.Clock()
	}
}

// StepAll clocks every register regardless of the middle bits.
func (g *Generator) StepAll() {
	g.r1.Clock()
	g.r2.Clock()
	g.r3.Clock()
}

// Output is the XOR of the last position of each register.
func (g *Generator) Output() uint8 {
	return g.r1.Output() ^ g.r2.Output() ^ g.r3.Output()
}

// Next performs one majority step and returns the keystream bit read
// after it.
func (g *Generator) Next() uint8 {
	g.Step()
	return g.Output()
}

// Generate returns the next n keystream bits.
func (g *Generator) Generate(n int) (Bits, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	ks := make(Bits, n)
	for i := range ks {
		ks[i] = g.Next()
	}
	return ks, nil
}

// XORKeyStream XORs each byte of src with the next eight keystream bits,
// the first bit landing in the most significant position, and writes the
// result to dst. It satisfies crypto/cipher.Stream.
func (g *Generator) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("a51: output smaller than input")
	}
	for i, c := range src {
		var k byte
		for j := 7; j >= 0; j-- {
			k |= g.Next() << uint(j)
		}
		dst[i] = c ^ k
	}
}

// States returns the current states of R1, R2 and R3.
func (g *Generator) States() (x, y, z Bits) {
	return g.r1.State(), g.r2.State(), g.r3.State()
}

// Words returns the current packed states of R1, R2 and R3.
func (g *Generator) Words() (x, y, z uint32) {
	return g.r1.Word(), g.r2.Word(), g.r3.Word()
}
