package a51

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecryptRoundTrip(t *testing.T) {
	ks, err := testGenerator(t).Generate(300)
	require.NoError(t, err)

	for _, n := range []int{0, 1, 24, 299, 300} {
		bits := TextToBits("the quick brown fox jumps over the lazy dog, twice over")[:n]
		ct, err := Encrypt(bits, ks)
		require.NoError(t, err)
		require.Len(t, ct, n)

		pt, err := Decrypt(ct, ks)
		require.NoError(t, err)
		assert.Equal(t, bits, pt, "n=%d", n)
	}
}

func TestDecryptUsesKeystreamPrefix(t *testing.T) {
	got, err := Decrypt(Bits{1, 1, 0}, Bits{0, 1, 1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, Bits{1, 0, 1}, got)
}

func TestDecryptShortKeystream(t *testing.T) {
	_, err := Decrypt(Bits{1, 1, 0}, Bits{0, 1})
	assert.ErrorIs(t, err, ErrShortKeystream)
}
