// Package crack recovers the initial state of the A5/1 register R2 from
// the known initial states of R1 and R3, a known plaintext fragment and
// the matching ciphertext, then decrypts the whole ciphertext.
//
// Every candidate state of R2 is tried against a short prefix. The first
// candidate, in ascending numeric order, whose keystream turns the
// ciphertext prefix into the plaintext prefix is accepted. A match is
// only probable evidence: with a 24 bit prefix a wrong candidate passes
// with probability about 2^-24.
package crack

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/luwangg/a51crack/a51"
)

const (
	// UnknownWidth is the width of the register being searched.
	UnknownWidth = 22

	// SpaceSize is the number of candidate states.
	SpaceSize = 1 << UnknownWidth

	// DefaultPrefixLength is the number of bits every candidate is tested on.
	DefaultPrefixLength = 24

	// DefaultChunkSize is the number of consecutive candidates a worker
	// claims at a time.
	DefaultChunkSize = 1 << 12
)

// ErrSearchExhausted reports that no candidate matched the prefix.
var ErrSearchExhausted = errors.New("crack: no candidate state matches the known plaintext")

// Candidate is a hypothesised initial state of R2, identified by the
// value of its 22-bit, most-significant-bit-first rendering.
type Candidate uint32

// String renders the candidate as the 22 character bit string it stands for.
func (c Candidate) String() string {
	return a51.FormatWord(uint32(c), UnknownWidth)
}

// State returns the candidate as an R2 initial state.
func (c Candidate) State() a51.Bits {
	s, _ := a51.ParseBits(c.String())
	return s
}

// word packs the candidate for a register: the first character of the
// rendering, the most significant bit of c, is position 0.
func (c Candidate) word() uint32 {
	return bits.Reverse32(uint32(c)) >> (32 - UnknownWidth)
}

// Target holds what the attacker knows.
type Target struct {
	X          a51.Bits // R1 initial state, 19 bits
	Z          a51.Bits // R3 initial state, 23 bits
	Plaintext  a51.Bits
	Ciphertext a51.Bits
}

// Validate checks the register widths and that plaintext and ciphertext
// both cover a prefix of n bits.
func (t Target) Validate(n int) error {
	if len(t.X) != a51.R1.Width {
		return fmt.Errorf("%w: R1 state has %d bits, want %d", a51.ErrMalformedInput, len(t.X), a51.R1.Width)
	}
	if len(t.Z) != a51.R3.Width {
		return fmt.Errorf("%w: R3 state has %d bits, want %d", a51.ErrMalformedInput, len(t.Z), a51.R3.Width)
	}
	if len(t.Plaintext) < n {
		return fmt.Errorf("%w: %d known plaintext bits, need %d", a51.ErrMalformedInput, len(t.Plaintext), n)
	}
	if len(t.Ciphertext) < n {
		return fmt.Errorf("%w: %d ciphertext bits, need %d", a51.ErrMalformedInput, len(t.Ciphertext), n)
	}
	return nil
}

// Options tunes the search. The zero value is usable.
type Options struct {
	// PrefixLength is the number of bits each candidate is tested on.
	// Defaults to DefaultPrefixLength.
	PrefixLength int

	// Workers is the number of goroutines scanning the space. Defaults to
	// runtime.NumCPU(). One worker scans candidates strictly in order.
	Workers int

	// ChunkSize defaults to DefaultChunkSize.
	ChunkSize int

	// Counter, when set, is incremented by the number of candidates
	// examined as each chunk completes.
	Counter *atomic.Uint64
}

func (o Options) withDefaults() Options {
	if o.PrefixLength <= 0 {
		o.PrefixLength = DefaultPrefixLength
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// trial tests single candidates against the keystream prefix implied by
// the target. It is read-only and shared by all workers.
type trial struct {
	x, z   uint32
	expect a51.Bits
}

func newTrial(t Target, n int) (*trial, error) {
	expect, err := a51.Decrypt(t.Ciphertext[:n], t.Plaintext[:n])
	if err != nil {
		return nil, err
	}
	g, err := a51.NewGenerator(t.X, make(a51.Bits, a51.R2.Width), t.Z)
	if err != nil {
		return nil, err
	}
	x, _, z := g.Words()
	return &trial{x: x, z: z, expect: expect}, nil
}

// match runs a fresh generator seeded with c and reports whether its
// keystream decrypts the ciphertext prefix to the plaintext prefix. It
// stops at the first differing bit.
func (tr *trial) match(c Candidate) bool {
	g := a51.NewGeneratorWords(tr.x, c.word(), tr.z)
	for _, want := range tr.expect {
		if g.Next() != want {
			return false
		}
	}
	return true
}

// Search returns the lowest candidate whose keystream turns the first
// PrefixLength ciphertext bits into the first PrefixLength plaintext bits.
// The result does not depend on the number of workers.
func Search(ctx context.Context, t Target, opts Options) (Candidate, error) {
	opts = opts.withDefaults()
	if err := t.Validate(opts.PrefixLength); err != nil {
		return 0, err
	}
	tr, err := newTrial(t, opts.PrefixLength)
	if err != nil {
		return 0, err
	}

	// best is the lowest match found so far, SpaceSize while none is.
	// Chunks are claimed in ascending order and nothing at or above best
	// is examined, so every candidate below the final best is tested.
	var best atomic.Uint64
	best.Store(SpaceSize)
	var next atomic.Uint64
	chunk := uint64(opts.ChunkSize)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				start := next.Add(chunk) - chunk
				if start >= best.Load() {
					return nil
				}
				end := start + chunk
				if end > SpaceSize {
					end = SpaceSize
				}
				var tried uint64
				for y := start; y < end && y < best.Load(); y++ {
					tried++
					if tr.match(Candidate(y)) {
						lowerMin(&best, y)
						break
					}
				}
				if opts.Counter != nil {
					opts.Counter.Add(tried)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if found := best.Load(); found < SpaceSize {
		return Candidate(found), nil
	}
	return 0, ErrSearchExhausted
}

func lowerMin(v *atomic.Uint64, y uint64) {
	for {
		cur := v.Load()
		if y >= cur || v.CompareAndSwap(cur, y) {
			return
		}
	}
}
