// Package report persists the results of a successful recovery.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"filippo.io/age"
	"github.com/awnumar/memguard"

	"github.com/luwangg/a51crack/crack"
)

// Output file names.
const (
	StateFile     = "recovered_y_state.txt"
	PlaintextFile = "recovered_plaintext.txt"
	SealedSuffix  = ".age"
)

// WriteState writes the recovered R2 state as 22 '0'/'1' characters.
func WriteState(dir string, c crack.Candidate) (string, error) {
	p := filepath.Join(dir, StateFile)
	if err := os.WriteFile(p, []byte(c.String()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write recovered state: %w", err)
	}
	return p, nil
}

// WritePlaintext writes the recovered text. With recipients the text is
// sealed with age and the file name gets the .age suffix; the in-memory
// copy is wiped once sealed.
func WritePlaintext(dir, text string, recipients ...age.Recipient) (string, error) {
	p := filepath.Join(dir, PlaintextFile)
	if len(recipients) == 0 {
		if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
			return "", fmt.Errorf("failed to write recovered plaintext: %w", err)
		}
		return p, nil
	}

	p += SealedSuffix
	plain := []byte(text)
	defer memguard.WipeBytes(plain)

	var sealed bytes.Buffer
	w, err := age.Encrypt(&sealed, recipients...)
	if err != nil {
		return "", fmt.Errorf("failed to create encrypted writer: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return "", fmt.Errorf("failed to write encrypted data: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close encrypted writer: %w", err)
	}
	if err := os.WriteFile(p, sealed.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write sealed plaintext: %w", err)
	}
	return p, nil
}

// Recipients parses age recipients: X25519 public keys ("age1...") and,
// when passphrase is non-empty, a scrypt passphrase recipient. age only
// accepts a passphrase recipient on its own.
func Recipients(keys []string, passphrase string) ([]age.Recipient, error) {
	if passphrase != "" && len(keys) > 0 {
		return nil, errors.New("a passphrase cannot be combined with age recipients")
	}
	var rs []age.Recipient
	for _, k := range keys {
		r, err := age.ParseX25519Recipient(k)
		if err != nil {
			return nil, fmt.Errorf("invalid age recipient %q: %w", k, err)
		}
		rs = append(rs, r)
	}
	if passphrase != "" {
		r, err := age.NewScryptRecipient(passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to create recipient: %w", err)
		}
		rs = append(rs, r)
	}
	return rs, nil
}
