package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkshuffle/coordinator/internal/fieldmath"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad decimal literal %q", s)
	return v
}

func generator(t *testing.T) (x, y *big.Int) {
	t.Helper()
	x = bigFromString(t, "5299619240641551281634865583518297030282874472190772894086521144482721001553")
	y = bigFromString(t, "16950150798460657717958625567821834550301663161624707787222815936182638968203")
	return x, y
}

func TestGeneratorIsOnCurve(t *testing.T) {
	gx, gy := generator(t)
	require.True(t, IsOnCurve(gx, gy))
}

func TestRecoverYFromGenerator(t *testing.T) {
	gx, gy := generator(t)

	qMinusY := fieldmath.Sub(fieldmath.Q, gy)
	delta := gy
	sign := true
	if qMinusY.Cmp(gy) < 0 {
		delta = qMinusY
		sign = false
	}

	got, err := RecoverY(gx, delta, sign)
	require.NoError(t, err)
	require.Equal(t, 0, got.Cmp(gy))
	require.True(t, IsOnCurve(gx, got))
}

func TestRecoverYOppositeSignGivesComplement(t *testing.T) {
	gx, gy := generator(t)
	delta := gy
	sign := true
	if fieldmath.Sub(fieldmath.Q, gy).Cmp(gy) < 0 {
		delta = fieldmath.Sub(fieldmath.Q, gy)
		sign = false
	}
	got, err := RecoverY(gx, delta, !sign)
	require.NoError(t, err)
	want := fieldmath.Sub(fieldmath.Q, gy)
	require.Equal(t, 0, got.Cmp(want))
}

func TestRecoverYDeltaOutOfRange(t *testing.T) {
	gx, _ := generator(t)
	tooBig := new(big.Int).Add(DeltaMax, big.NewInt(1))
	_, err := RecoverY(gx, tooBig, true)
	require.ErrorIs(t, err, ErrDeltaOutOfRange)
}

func TestAddSentinelReturnsOtherOperand(t *testing.T) {
	gx, gy := generator(t)
	p := Point{X: gx, Y: gy}

	got, err := Add(p, Zero())
	require.NoError(t, err)
	require.Equal(t, 0, got.X.Cmp(p.X))
	require.Equal(t, 0, got.Y.Cmp(p.Y))

	got2, err := Add(Zero(), p)
	require.NoError(t, err)
	require.Equal(t, 0, got2.X.Cmp(p.X))
	require.Equal(t, 0, got2.Y.Cmp(p.Y))
}

func TestAddTrueIdentityLeavesPointUnchanged(t *testing.T) {
	gx, gy := generator(t)
	p := Point{X: gx, Y: gy}
	identity := Point{X: big.NewInt(0), Y: big.NewInt(1)}

	got, err := Add(p, identity)
	require.NoError(t, err)
	require.Equal(t, 0, got.X.Cmp(p.X))
	require.Equal(t, 0, got.Y.Cmp(p.Y))
}

func TestAddAggregatesRegisteredKeys(t *testing.T) {
	gx, gy := generator(t)
	p := Point{X: gx, Y: gy}

	acc := Zero()
	acc, err := Add(acc, p)
	require.NoError(t, err)
	require.Equal(t, 0, acc.X.Cmp(gx))
	require.Equal(t, 0, acc.Y.Cmp(gy))

	acc, err = Add(acc, p)
	require.NoError(t, err)
	require.True(t, IsOnCurve(acc.X, acc.Y))
}
