package a51

import "fmt"

// Decrypt XORs bits with the first len(bits) bits of keystream. It is its
// own inverse.
func Decrypt(bits, keystream Bits) (Bits, error) {
	if len(keystream) < len(bits) {
		return nil, fmt.Errorf("%w: %d keystream bits for %d input bits", ErrShortKeystream, len(keystream), len(bits))
	}
	out := make(Bits, len(bits))
	for i := range bits {
		out[i] = bits[i] ^ keystream[i]
	}
	return out, nil
}

// Encrypt is Decrypt.
func Encrypt(bits, keystream Bits) (Bits, error) {
	return Decrypt(bits, keystream)
}
