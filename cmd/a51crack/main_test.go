package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwangg/a51crack/a51"
	"github.com/luwangg/a51crack/crack"
	"github.com/luwangg/a51crack/internal/input"
	"github.com/luwangg/a51crack/internal/logging"
	"github.com/luwangg/a51crack/internal/report"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "4.2M", formatCount(4194304))
	assert.Equal(t, "1.5k", formatCount(1500))
	assert.Equal(t, "2.0G", formatCount(2e9))
	assert.Equal(t, "12.5/s", formatRate(12.5))
	assert.Equal(t, "3.0M/s", formatRate(3e6))
}

func TestProgressLine(t *testing.T) {
	line := progressLine(1<<21, 1<<22, 2*time.Second)
	assert.True(t, strings.HasPrefix(line, "  Checked: 2.1M/4.2M"), "%q", line)
	assert.NotContains(t, line, "\r")
	assert.Contains(t, line, "(50.0%)")
	assert.Contains(t, line, "ETA: 2s")
}

func TestAskPaths(t *testing.T) {
	p := input.Paths{Plaintext: "given.txt"}
	var out bytes.Buffer
	err := askPaths(bufio.NewReader(strings.NewReader("states.txt\n cipher.bin \n")), &out, &p)
	require.NoError(t, err)
	assert.Equal(t, input.Paths{States: "states.txt", Plaintext: "given.txt", Ciphertext: "cipher.bin"}, p)
	assert.Contains(t, out.String(), "Enter path to initial_states.txt")
	assert.NotContains(t, out.String(), "known_plaintext.txt")

	p = input.Paths{}
	err = askPaths(bufio.NewReader(strings.NewReader("states.txt\n")), io.Discard, &p)
	assert.Error(t, err)
}

func TestRunEndToEnd(t *testing.T) {
	const msg = "Known plaintext attack on A5/1"
	x, err := a51.ParseBits("1001011010011010110")
	require.NoError(t, err)
	z, err := a51.ParseBits("01101001110010110100101")
	require.NoError(t, err)
	y := crack.Candidate(1000)

	g, err := a51.NewGenerator(x, y.State(), z)
	require.NoError(t, err)
	pt := a51.TextToBits(msg)
	ks, err := g.Generate(len(pt))
	require.NoError(t, err)
	ct, err := a51.Encrypt(pt, ks)
	require.NoError(t, err)

	dir := t.TempDir()
	paths := input.Paths{
		States:     filepath.Join(dir, input.StatesFile),
		Plaintext:  filepath.Join(dir, input.PlaintextFile),
		Ciphertext: filepath.Join(dir, input.CiphertextFile),
	}
	require.NoError(t, os.WriteFile(paths.States, []byte(x.String()+"\n"+z.String()+"\n"), 0o600))
	require.NoError(t, os.WriteFile(paths.Plaintext, []byte(msg[:5]), 0o600))
	require.NoError(t, os.WriteFile(paths.Ciphertext, []byte(ct.String()), 0o600))

	var logs bytes.Buffer
	log := logging.New(&logs, logging.LevelDebug, "")
	err = run(context.Background(), log, paths, dir, crack.Options{Workers: 2}, nil)
	require.NoError(t, err)

	state, err := os.ReadFile(filepath.Join(dir, report.StateFile))
	require.NoError(t, err)
	assert.Equal(t, "0000000000001111101000", string(state))

	text, err := os.ReadFile(filepath.Join(dir, report.PlaintextFile))
	require.NoError(t, err)
	assert.Equal(t, msg, string(text))
	assert.Contains(t, logs.String(), "recovered R2")
}

func TestRunReportsBadInput(t *testing.T) {
	dir := t.TempDir()
	paths := input.Paths{
		States:     filepath.Join(dir, "missing"),
		Plaintext:  filepath.Join(dir, "missing"),
		Ciphertext: filepath.Join(dir, "missing"),
	}
	err := run(context.Background(), logging.New(io.Discard, logging.LevelError, ""), paths, dir, crack.Options{}, nil)
	assert.Error(t, err)
}
