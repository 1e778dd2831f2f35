package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/luwangg/a51crack/internal/input"
)

var errNotTerminal = errors.New("input paths missing and stdin is not a terminal")

// promptMissing asks for every path left empty on the command line.
func promptMissing(p *input.Paths) error {
	if p.States != "" && p.Plaintext != "" && p.Ciphertext != "" {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}
	return askPaths(bufio.NewReader(os.Stdin), os.Stdout, p)
}

func askPaths(r *bufio.Reader, w io.Writer, p *input.Paths) error {
	fields := []struct {
		target *string
		name   string
	}{
		{&p.States, input.StatesFile},
		{&p.Plaintext, input.PlaintextFile},
		{&p.Ciphertext, input.CiphertextFile},
	}
	for _, f := range fields {
		if *f.target != "" {
			continue
		}
		fmt.Fprintf(w, "Enter path to %s: ", f.name)
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil {
				return fmt.Errorf("reading path to %s: %w", f.name, err)
			}
			return fmt.Errorf("empty path to %s", f.name)
		}
		*f.target = line
	}
	return nil
}

func promptPassphrase(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("passphrase requested but stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(pass) == 0 {
		return "", errors.New("empty passphrase")
	}
	return string(pass), nil
}
