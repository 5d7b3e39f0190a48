// Package curve implements the twisted-Edwards BabyJubJub point arithmetic
// the coordinator needs to validate registered keys, aggregate public keys,
// and reconstruct a card's y-coordinate on first decryption.
package curve

import (
	"errors"
	"math/big"

	"github.com/zkshuffle/coordinator/internal/fieldmath"
)

// Curve parameters: A*x^2 + y^2 = 1 + D*x^2*y^2 (mod Q).
var (
	A = big.NewInt(168700)
	D = big.NewInt(168696)
)

// DeltaMax is (Q-1)/2, the largest delta recover_y accepts.
var DeltaMax = func() *big.Int {
	v := new(big.Int).Sub(fieldmath.Q, big.NewInt(1))
	return v.Rsh(v, 1)
}()

var (
	ErrDeltaOutOfRange = errors.New("curve: delta out of range")
	ErrNotOnCurve       = errors.New("curve: point not on curve")
)

// Point is a coordinate pair on (or, for the (0,0) sentinel, off) the curve.
type Point struct {
	X *big.Int
	Y *big.Int
}

// Zero is the accumulator sentinel used by aggregate-PK summation. It is
// explicitly NOT the twisted-Edwards identity (0, 1); PointAdd special-cases
// it so the first registered key seats unchanged.
func Zero() Point {
	return Point{X: big.NewInt(0), Y: big.NewInt(0)}
}

func isZero(p Point) bool {
	return p.X.Sign() == 0 && p.Y.Sign() == 0
}

// IsOnCurve checks A*x^2 + y^2 == 1 + D*x^2*y^2 (mod Q).
func IsOnCurve(x, y *big.Int) bool {
	xSq := fieldmath.Mul(x, x)
	ySq := fieldmath.Mul(y, y)
	lhs := fieldmath.Add(fieldmath.Mul(A, xSq), ySq)
	rhs := fieldmath.Add(big.NewInt(1), fieldmath.Mul(fieldmath.Mul(D, xSq), ySq))
	return lhs.Cmp(rhs) == 0
}

// Add implements twisted-Edwards point addition, with the (0,0) "empty
// accumulator" sentinel described on Zero: if either operand is
// the sentinel the other operand is returned unchanged. This is bit-exact
// compatibility required by the external encrypt verifiers; it must not be
// "fixed" to use the true identity (0,1) instead.
func Add(p1, p2 Point) (Point, error) {
	if isZero(p1) {
		return p2, nil
	}
	if isZero(p2) {
		return p1, nil
	}

	x1x2 := fieldmath.Mul(p1.X, p2.X)
	y1y2 := fieldmath.Mul(p1.Y, p2.Y)
	dx1x2y1y2 := fieldmath.Mul(D, fieldmath.Mul(x1x2, y1y2))

	xNum := fieldmath.Add(fieldmath.Mul(p1.X, p2.Y), fieldmath.Mul(p1.Y, p2.X))
	yNum := fieldmath.Sub(y1y2, fieldmath.Mul(A, x1x2))

	denomX := fieldmath.Add(big.NewInt(1), dx1x2y1y2)
	denomY := fieldmath.Sub(big.NewInt(1), dx1x2y1y2)

	invX, err := fieldmath.Inverse(denomX)
	if err != nil {
		return Point{}, err
	}
	invY, err := fieldmath.Inverse(denomY)
	if err != nil {
		return Point{}, err
	}

	return Point{
		X: fieldmath.Mul(xNum, invX),
		Y: fieldmath.Mul(yNum, invY),
	}, nil
}

// RecoverY reconstructs a y-coordinate from its compressed (delta, sign)
// form: delta is min(y, Q-y), sign picks which of the two matching roots to
// return.
func RecoverY(x, delta *big.Int, sign bool) (*big.Int, error) {
	if delta.Cmp(DeltaMax) > 0 {
		return nil, ErrDeltaOutOfRange
	}
	if !IsOnCurve(x, delta) {
		return nil, ErrNotOnCurve
	}
	if sign {
		return new(big.Int).Set(delta), nil
	}
	return fieldmath.Sub(fieldmath.Q, delta), nil
}
