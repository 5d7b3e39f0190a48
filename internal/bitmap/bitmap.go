// Package bitmap implements the BigBitmap component: a fixed-width 256-bit
// indexed set, used for player-decrypt records, deal/open masks and the
// deck's two sign selectors.
package bitmap

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// Width is the fixed bit width; growth is intentionally impossible.
const Width = 256

// Bitmap is a width-256 indexed bit set.
type Bitmap struct {
	bits *bitset.BitSet
}

// Zero returns an empty bitmap.
func Zero() Bitmap {
	return Bitmap{bits: bitset.New(Width)}
}

// FromUint64 builds a bitmap whose low 64 bits equal v.
func FromUint64(v uint64) Bitmap {
	b := Zero()
	for i := 0; i < 64; i++ {
		if v&(1<<uint(i)) != 0 {
			b.bits.Set(uint(i))
		}
	}
	return b
}

func checkIndex(i int) {
	if i < 0 || i >= Width {
		panic(fmt.Sprintf("bitmap: index %d out of range [0, %d)", i, Width))
	}
}

// Get reports whether bit i is set. i must be in [0, 256).
func (b Bitmap) Get(i int) bool {
	checkIndex(i)
	return b.bits.Test(uint(i))
}

// Set sets bit i. Idempotent.
func (b Bitmap) Set(i int) {
	checkIndex(i)
	b.bits.Set(uint(i))
}

// Unset clears bit i. Idempotent.
func (b Bitmap) Unset(i int) {
	checkIndex(i)
	b.bits.Clear(uint(i))
}

// SetTo sets or clears bit i depending on value.
func (b Bitmap) SetTo(i int, value bool) {
	if value {
		b.Set(i)
	} else {
		b.Unset(i)
	}
}

// PopcountPrefix returns the number of set bits with index < k. k must be in
// [0, 256].
func (b Bitmap) PopcountPrefix(k int) int {
	if k < 0 || k > Width {
		panic(fmt.Sprintf("bitmap: prefix %d out of range [0, %d]", k, Width))
	}
	count := 0
	for i := 0; i < k; i++ {
		if b.bits.Test(uint(i)) {
			count++
		}
	}
	return count
}

// IsZero reports whether every bit is clear.
func (b Bitmap) IsZero() bool {
	return b.bits.None()
}

// Equal reports whether a and b have the same set bits.
func Equal(a, b Bitmap) bool {
	return a.bits.Equal(b.bits)
}

// Clone returns an independent copy.
func (b Bitmap) Clone() Bitmap {
	return Bitmap{bits: b.bits.Clone()}
}

// Big returns the bitmap's integer view, matching the spec's "256-bit
// unsigned integer interpreted as an indexed set" framing. Used verbatim
// (as a raw 256-bit value) in the shuffle public-input vector.
func (b Bitmap) Big() *big.Int {
	out := new(big.Int)
	for i := 0; i < Width; i++ {
		if b.bits.Test(uint(i)) {
			out.SetBit(out, i, 1)
		}
	}
	return out
}

// FromBig builds a bitmap from an integer view. Panics if v is negative or
// does not fit in 256 bits.
func FromBig(v *big.Int) Bitmap {
	if v.Sign() < 0 || v.BitLen() > Width {
		panic("bitmap: value does not fit in 256 bits")
	}
	b := Zero()
	for i := 0; i < v.BitLen(); i++ {
		if v.Bit(i) == 1 {
			b.bits.Set(uint(i))
		}
	}
	return b
}

// Bytes returns the bitmap's big-endian 256-bit (32-byte) encoding, the
// fixed-width wire form the keeper's codec persists.
func (b Bitmap) Bytes() [32]byte {
	var out [32]byte
	b.Big().FillBytes(out[:])
	return out
}

// FromBytes reconstructs a bitmap from its 32-byte big-endian encoding.
func FromBytes(raw []byte) Bitmap {
	return FromBig(new(big.Int).SetBytes(raw))
}
