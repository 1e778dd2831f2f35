package crack

import (
	"context"

	"github.com/luwangg/a51crack/a51"
)

// Result is a successful recovery.
type Result struct {
	Candidate Candidate

	// Plaintext is the whole ciphertext decrypted with the recovered state.
	Plaintext a51.Bits

	// Text is Plaintext grouped into bytes; a trailing partial byte is dropped.
	Text string
}

// Reconstruct decrypts the whole ciphertext with a generator seeded from
// the three initial states.
func Reconstruct(x, y, z, ciphertext a51.Bits) (a51.Bits, error) {
	g, err := a51.NewGenerator(x, y, z)
	if err != nil {
		return nil, err
	}
	ks, err := g.Generate(len(ciphertext))
	if err != nil {
		return nil, err
	}
	return a51.Decrypt(ciphertext, ks)
}

// Recover searches for the R2 initial state and decrypts the whole
// ciphertext with it. It returns ErrSearchExhausted when no candidate
// matches.
func Recover(ctx context.Context, t Target, opts Options) (*Result, error) {
	c, err := Search(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	pt, err := Reconstruct(t.X, c.State(), t.Z, t.Ciphertext)
	if err != nil {
		return nil, err
	}
	return &Result{
		Candidate: c,
		Plaintext: pt,
		Text:      a51.BitsToText(pt),
	}, nil
}
