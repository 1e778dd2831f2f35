package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwangg/a51crack/a51"
	"github.com/luwangg/a51crack/crack"
	"github.com/luwangg/a51crack/internal/input"
)

const msg = "Known plaintext attack on A5/1"

func TestGenerateExplicitStates(t *testing.T) {
	dir := t.TempDir()
	cfg := config{
		message: msg,
		known:   5,
		x:       "1001011010011010110",
		y:       "0000000000001111101000",
		z:       "01101001110010110100101",
		outDir:  dir,
	}
	y, err := generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.y, y.String())

	files, err := input.Load(input.Paths{
		States:     filepath.Join(dir, input.StatesFile),
		Plaintext:  filepath.Join(dir, input.PlaintextFile),
		Ciphertext: filepath.Join(dir, input.CiphertextFile),
	})
	require.NoError(t, err)
	assert.Equal(t, cfg.x, files.X.String())
	assert.Equal(t, cfg.z, files.Z.String())
	assert.Equal(t, "Known", files.Plaintext)
	assert.Len(t, files.Ciphertext, 8*len(msg))

	res, err := crack.Recover(context.Background(), files.Target(), crack.Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, crack.Candidate(1000), res.Candidate)
	assert.Equal(t, msg, res.Text)

	secret, err := os.ReadFile(filepath.Join(dir, SecretFile))
	require.NoError(t, err)
	assert.Equal(t, cfg.y, string(secret))
}

func TestGenerateLeadingWhitespace(t *testing.T) {
	for _, lead := range []string{"\n", "  ", "\r\n\t"} {
		dir := t.TempDir()
		_, err := generate(config{
			message: lead + msg,
			known:   6,
			x:       "1001011010011010110",
			y:       "0000000000001111101000",
			z:       "01101001110010110100101",
			outDir:  dir,
		})
		require.NoError(t, err, "%q", lead)

		raw, err := os.ReadFile(filepath.Join(dir, input.PlaintextFile))
		require.NoError(t, err)
		assert.Equal(t, "Known", string(raw))

		files, err := input.Load(input.Paths{
			States:     filepath.Join(dir, input.StatesFile),
			Plaintext:  filepath.Join(dir, input.PlaintextFile),
			Ciphertext: filepath.Join(dir, input.CiphertextFile),
		})
		require.NoError(t, err)
		assert.Len(t, files.Ciphertext, 8*len(msg))

		res, err := crack.Recover(context.Background(), files.Target(), crack.Options{Workers: 2})
		require.NoError(t, err, "%q", lead)
		assert.Equal(t, crack.Candidate(1000), res.Candidate)
		assert.Equal(t, msg, res.Text)
	}
}

func TestGenerateFromSessionKey(t *testing.T) {
	dir := t.TempDir()
	y, err := generate(config{message: msg, known: 4, key: "1223456789abcdef", frame: 0x134, outDir: dir})
	require.NoError(t, err)

	x, z, err := input.LoadStates(filepath.Join(dir, input.StatesFile))
	require.NoError(t, err)
	ct, err := input.LoadCiphertext(filepath.Join(dir, input.CiphertextFile))
	require.NoError(t, err)

	// The keystream is the A->B burst of the reference vector.
	pt, err := crack.Reconstruct(x, y, z, ct)
	require.NoError(t, err)
	assert.Equal(t, msg, a51.BitsToText(pt))

	ks, err := a51.Decrypt(ct[:64], a51.TextToBits(msg)[:64])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x53, 0x4E, 0xAA, 0x58, 0x2F, 0xE8, 0x15, 0x1A}, ks.Bytes())
}

func TestGenerateRandomStates(t *testing.T) {
	dir := t.TempDir()
	src := bytes.NewReader(bytes.Repeat([]byte{0xA5, 0x3C, 0x0F, 0xF0}, 3))
	y, err := generate(config{message: msg, known: 3, outDir: dir, randRead: src.Read})
	require.NoError(t, err)
	assert.Len(t, y, a51.R2.Width)

	x, z, err := input.LoadStates(filepath.Join(dir, input.StatesFile))
	require.NoError(t, err)
	assert.Len(t, x, a51.R1.Width)
	assert.Len(t, z, a51.R3.Width)
}

func TestGenerateRejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config
	}{
		{name: "empty message", cfg: config{known: 4}},
		{name: "whitespace message", cfg: config{message: " \n\t\n", known: 1}},
		{name: "known too long", cfg: config{message: "abcd", known: 5}},
		{name: "known shorter than prefix", cfg: config{message: msg, known: 2}},
		{name: "known fragment trims below prefix", cfg: config{message: "ab   cdef", known: 4}},
		{name: "known shorter than custom prefix", cfg: config{message: msg, known: 4, prefix: 40}},
		{name: "bad key", cfg: config{message: msg, known: 4, key: "zz"}},
		{name: "short key", cfg: config{message: msg, known: 4, key: "1223"}},
		{name: "frame too large", cfg: config{message: msg, known: 4, key: "1223456789abcdef", frame: 1 << 22}},
		{name: "bad state", cfg: config{message: msg, known: 4, x: "01", y: "0000000000001111101000", z: "01101001110010110100101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.outDir = dir
			_, err := generate(tt.cfg)
			assert.ErrorIs(t, err, a51.ErrMalformedInput)
		})
	}

	_, err := generate(config{message: msg, known: 4, key: "1223456789abcdef", x: "0", outDir: dir})
	assert.Error(t, err)
}
