// Command a51gen encrypts a message with A5/1 and writes the three files
// a51crack starts from: the R1 and R3 initial states, a known plaintext
// fragment and the ciphertext as '0'/'1' characters.
//
// The initial states come from -x, -y and -z, from a session key and
// frame number (-key, -frame), or are drawn at random.
package main

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/luwangg/a51crack/a51"
	"github.com/luwangg/a51crack/crack"
	"github.com/luwangg/a51crack/internal/input"
	"github.com/luwangg/a51crack/internal/logging"
)

// SecretFile holds the R2 state a51crack is expected to recover.
const SecretFile = "expected_y_state.txt"

type config struct {
	message  string
	known    int
	prefix   int
	x, y, z  string
	key      string
	frame    uint
	outDir   string
	randRead func([]byte) (int, error)
}

func main() {
	var cfg config
	in := flag.String("in", "", "file holding the message to encrypt")
	flag.IntVar(&cfg.known, "known", 8, "number of leading characters written as known plaintext")
	flag.IntVar(&cfg.prefix, "prefix", crack.DefaultPrefixLength, "prefix length a51crack will be run with; the known plaintext must cover it")
	flag.StringVar(&cfg.x, "x", "", "R1 initial state (19 bits)")
	flag.StringVar(&cfg.y, "y", "", "R2 initial state (22 bits)")
	flag.StringVar(&cfg.z, "z", "", "R3 initial state (23 bits)")
	flag.StringVar(&cfg.key, "key", "", "64-bit session key in hex; states are taken after key setup")
	flag.UintVar(&cfg.frame, "frame", 0, "22-bit frame number used with -key")
	flag.StringVar(&cfg.outDir, "out", ".", "output directory")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -in <message file> [flags]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logging.Default()
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	cfg.message = string(data)
	cfg.randRead = rand.Read

	y, err := generate(cfg)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	log.Infof("wrote %s, %s and %s to %s", input.StatesFile, input.PlaintextFile, input.CiphertextFile, cfg.outDir)
	log.Infof("R2 state to recover: %s (written to %s)", y, SecretFile)
}

// generate writes the attack files and returns the R2 initial state.
//
// a51crack trims surrounding whitespace from the known plaintext file, so
// leading whitespace is dropped from the message before encryption and the
// known fragment is written trimmed. The fragment must still cover the
// prefix a51crack tests candidates on.
func generate(cfg config) (a51.Bits, error) {
	message := strings.TrimLeftFunc(cfg.message, unicode.IsSpace)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", a51.ErrMalformedInput)
	}
	if cfg.known < 1 || cfg.known > len(message) {
		return nil, fmt.Errorf("%w: known plaintext length %d outside [1,%d]", a51.ErrMalformedInput, cfg.known, len(message))
	}
	prefix := cfg.prefix
	if prefix <= 0 {
		prefix = crack.DefaultPrefixLength
	}
	known := strings.TrimRightFunc(message[:cfg.known], unicode.IsSpace)
	if 8*len(known) < prefix {
		return nil, fmt.Errorf("%w: known plaintext %q covers %d bits, a51crack needs %d", a51.ErrMalformedInput, known, 8*len(known), prefix)
	}

	g, err := seed(cfg)
	if err != nil {
		return nil, err
	}
	x, y, z := g.States()

	pt := a51.TextToBits(message)
	ks, err := g.Generate(len(pt))
	if err != nil {
		return nil, err
	}
	ct, err := a51.Encrypt(pt, ks)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name    string
		content string
	}{
		{input.StatesFile, x.String() + "\n" + z.String() + "\n"},
		{input.PlaintextFile, known},
		{input.CiphertextFile, ct.String()},
		{SecretFile, y.String()},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(cfg.outDir, f.name), []byte(f.content), 0o600); err != nil {
			return nil, err
		}
	}
	return y, nil
}

// seed builds the generator whose initial states are used for encryption.
func seed(cfg config) (*a51.Generator, error) {
	if cfg.key != "" {
		if cfg.x != "" || cfg.y != "" || cfg.z != "" {
			return nil, errors.New("-key cannot be combined with explicit states")
		}
		raw, err := hex.DecodeString(cfg.key)
		if err != nil || len(raw) != 8 {
			return nil, fmt.Errorf("%w: key must be 16 hex digits", a51.ErrMalformedInput)
		}
		if cfg.frame >= 1<<22 {
			return nil, fmt.Errorf("%w: frame number %d exceeds 22 bits", a51.ErrMalformedInput, cfg.frame)
		}
		var key [8]byte
		copy(key[:], raw)
		return a51.KeySetup(key, uint32(cfg.frame)), nil
	}

	states := make([]a51.Bits, 3)
	for i, s := range []struct {
		layout a51.Layout
		given  string
	}{{a51.R1, cfg.x}, {a51.R2, cfg.y}, {a51.R3, cfg.z}} {
		if s.given == "" {
			w, err := randomWord(cfg.randRead)
			if err != nil {
				return nil, err
			}
			r, err := a51.NewRegisterWord(s.layout, w)
			if err != nil {
				return nil, err
			}
			states[i] = r.State()
			continue
		}
		b, err := a51.ParseBits(s.given)
		if err != nil {
			return nil, err
		}
		states[i] = b
	}
	return a51.NewGenerator(states[0], states[1], states[2])
}

func randomWord(read func([]byte) (int, error)) (uint32, error) {
	var buf [4]byte
	if _, err := read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
