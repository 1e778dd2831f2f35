// Package input loads and validates the three files an attack starts from:
// the known register states, the known plaintext and the captured
// ciphertext.
package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/luwangg/a51crack/a51"
	"github.com/luwangg/a51crack/crack"
)

// Default file names, as produced by a51gen.
const (
	StatesFile     = "initial_states.txt"
	PlaintextFile  = "known_plaintext.txt"
	CiphertextFile = "ciphertext.bin"
)

// Paths names the three input files.
type Paths struct {
	States     string
	Plaintext  string
	Ciphertext string
}

// Files is the validated content of the three input files.
type Files struct {
	X, Z       a51.Bits
	Plaintext  string
	Ciphertext a51.Bits
}

// Target converts the files into a search target.
func (f *Files) Target() crack.Target {
	return crack.Target{
		X:          f.X,
		Z:          f.Z,
		Plaintext:  a51.TextToBits(f.Plaintext),
		Ciphertext: f.Ciphertext,
	}
}

// Load reads and validates all three files.
func Load(p Paths) (*Files, error) {
	x, z, err := LoadStates(p.States)
	if err != nil {
		return nil, err
	}
	pt, err := LoadPlaintext(p.Plaintext)
	if err != nil {
		return nil, err
	}
	ct, err := LoadCiphertext(p.Ciphertext)
	if err != nil {
		return nil, err
	}
	return &Files{X: x, Z: z, Plaintext: pt, Ciphertext: ct}, nil
}

// LoadStates reads the R1 and R3 initial states, one per line.
func LoadStates(path string) (x, z a51.Bits, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
	if len(lines) != 2 {
		return nil, nil, fmt.Errorf("%s: %w: want exactly 2 lines, got %d", path, a51.ErrMalformedInput, len(lines))
	}
	x, err = parseState(path, "X", strings.TrimSpace(lines[0]), a51.R1.Width)
	if err != nil {
		return nil, nil, err
	}
	z, err = parseState(path, "Z", strings.TrimSpace(lines[1]), a51.R3.Width)
	if err != nil {
		return nil, nil, err
	}
	return x, z, nil
}

func parseState(path, name, s string, width int) (a51.Bits, error) {
	if len(s) != width {
		return nil, fmt.Errorf("%s: %w: %s state must be %d bits, got %d", path, a51.ErrMalformedInput, name, width, len(s))
	}
	b, err := a51.ParseBits(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %s state: %w", path, name, err)
	}
	return b, nil
}

// LoadPlaintext reads the known plaintext with surrounding white space removed.
func LoadPlaintext(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s: %w: known plaintext is empty", path, a51.ErrMalformedInput)
	}
	return text, nil
}

// LoadCiphertext reads a ciphertext written as '0' and '1' characters.
func LoadCiphertext(path string) (a51.Bits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return nil, fmt.Errorf("%s: %w: ciphertext is empty", path, a51.ErrMalformedInput)
	}
	b, err := a51.ParseBits(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Preview shortens s to n characters for log output.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
