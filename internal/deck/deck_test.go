package deck

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDeckSeedsCanonicalX1(t *testing.T) {
	d := New(Deck52Card)
	require.Len(t, d.X1, 52)
	require.Len(t, d.X0, 52)
	for i, x1 := range d.X1 {
		idx, ok := CardIndexFromX1(x1, 52)
		require.True(t, ok)
		require.Equal(t, i, idx)
	}
	for _, x0 := range d.X0 {
		require.Equal(t, 0, x0.Sign())
	}
}

func TestNewDeckSelectorsAreDeterministicBySize(t *testing.T) {
	d5 := New(Deck5Card)
	d30 := New(Deck30Card)
	d52 := New(Deck52Card)

	// Selector masks are derived by right-shifting a fixed 52-bit base, so
	// smaller decks see fewer set bits among the low positions.
	require.LessOrEqual(t, d5.Selector0.PopcountPrefix(5), d30.Selector0.PopcountPrefix(30))
	require.LessOrEqual(t, d30.Selector0.PopcountPrefix(30), d52.Selector0.PopcountPrefix(52))
}

func TestCompressedRoundTrip(t *testing.T) {
	d := New(Deck5Card)
	d.X0[0] = big.NewInt(42)
	d.Y0[0] = big.NewInt(7)
	d.DecryptRecord[0].Set(1)

	c := d.Compressed()
	require.Equal(t, 0, c.X0[0].Cmp(big.NewInt(42)))

	var restored Deck
	require.NoError(t, restored.SetFromCompressed(c))
	require.Equal(t, 0, restored.Y0[0].Sign())
	require.False(t, restored.DecryptRecord[0].Get(1))
	require.Equal(t, 5, restored.Size())
}

func TestSetFromCompressedRejectsLengthMismatch(t *testing.T) {
	d := New(Deck5Card)
	c := d.Compressed()
	c.X0 = c.X0[:4]

	var restored Deck
	require.ErrorIs(t, restored.SetFromCompressed(c), ErrLengthMismatch)
}

func TestShufflePublicInputOrdering(t *testing.T) {
	old := New(Deck5Card)
	enc := New(Deck5Card)
	enc.X0[0] = big.NewInt(99)

	nonce := big.NewInt(1)
	aggX := big.NewInt(2)
	aggY := big.NewInt(3)

	input, err := ShufflePublicInput(enc.Compressed(), old.Compressed(), nonce, aggX, aggY)
	require.NoError(t, err)

	size := 5
	require.Len(t, input, 3+size*4+4)
	require.Equal(t, 0, input[0].Cmp(nonce))
	require.Equal(t, 0, input[1].Cmp(aggX))
	require.Equal(t, 0, input[2].Cmp(aggY))

	// old.x0 block starts at offset 3.
	require.Equal(t, 0, input[3].Cmp(old.X0[0]))
	// old.x1 block starts after old.x0.
	require.Equal(t, 0, input[3+size].Cmp(old.X1[0]))
	// enc.x0 block starts after old.x0 and old.x1.
	require.Equal(t, 0, input[3+size*2].Cmp(big.NewInt(99)))
	// enc.x1 block follows.
	require.Equal(t, 0, input[3+size*3].Cmp(enc.X1[0]))

	tail := input[3+size*4:]
	require.Len(t, tail, 4)
	require.Equal(t, 0, tail[0].Cmp(old.Selector0.Big()))
	require.Equal(t, 0, tail[1].Cmp(old.Selector1.Big()))
	require.Equal(t, 0, tail[2].Cmp(enc.Selector0.Big()))
	require.Equal(t, 0, tail[3].Cmp(enc.Selector1.Big()))
}

func TestShufflePublicInputRejectsConfigMismatch(t *testing.T) {
	old := New(Deck5Card)
	enc := New(Deck30Card)

	_, err := ShufflePublicInput(enc.Compressed(), old.Compressed(), big.NewInt(1), big.NewInt(2), big.NewInt(3))
	require.ErrorIs(t, err, ErrConfigMismatch)
}
