// Package deck implements the coordinator's card-deck representation: the
// canonical starting x1 table, the two selector bitmaps whose bit for each
// card slot picks the sign of that card's recovered y-coordinates, and the
// exact public-input ordering
// the external Groth16 shuffle verifier expects.
package deck

import (
	"errors"
	"math/big"

	"github.com/zkshuffle/coordinator/internal/bitmap"
)

// Kind enumerates the deck sizes the coordinator supports.
type Kind int

const (
	Deck5Card Kind = iota
	Deck30Card
	Deck52Card
)

// NumCards returns the number of cards a deck of this kind holds.
func (k Kind) NumCards() int {
	switch k {
	case Deck5Card:
		return 5
	case Deck30Card:
		return 30
	case Deck52Card:
		return 52
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case Deck5Card:
		return "Deck5Card"
	case Deck30Card:
		return "Deck30Card"
	case Deck52Card:
		return "Deck52Card"
	default:
		return "DeckUnknown"
	}
}

const (
	selector0Base uint64 = 4_503_599_627_370_495
	selector1Base uint64 = 3_075_935_501_959_818
)

var (
	ErrLengthMismatch = errors.New("deck: compressed deck length mismatch")
	ErrConfigMismatch = errors.New("deck: deck config mismatch")
)

// selectorFor derives the fixed selector bitmap for a deck of the given
// size: the base constant's low (52 - size) bits are discarded so only the
// first `size` card slots participate.
func selectorFor(numCards int, base uint64) bitmap.Bitmap {
	shift := uint(52 - numCards)
	return bitmap.FromUint64(base >> shift)
}

// Deck is the coordinator's live deck state: one ElGamal-style ciphertext
// per card slot (x0,y0 | x1,y1), the two selector bitmaps (set by New from
// the deck size, replaced by SetFromCompressed with a shuffle's), and the
// per-card decrypt-record bitmaps tracking which players have contributed a
// decryption share to each card.
type Deck struct {
	Kind           Kind
	X0             []*big.Int
	X1             []*big.Int
	Y0             []*big.Int
	Y1             []*big.Int
	Selector0      bitmap.Bitmap
	Selector1      bitmap.Bitmap
	DecryptRecord  []bitmap.Bitmap
	CardsToDeal    bitmap.Bitmap
	PlayerToDeal   uint32
}

// New builds a freshly-initialized deck of the given kind: x1 seeded from
// the canonical INIT_X1 table, x0/y0/y1 zeroed, and both selector masks
// fixed by deck size.
func New(kind Kind) *Deck {
	size := kind.NumCards()
	x0 := make([]*big.Int, size)
	y0 := make([]*big.Int, size)
	y1 := make([]*big.Int, size)
	decryptRecord := make([]bitmap.Bitmap, size)
	for i := 0; i < size; i++ {
		x0[i] = big.NewInt(0)
		y0[i] = big.NewInt(0)
		y1[i] = big.NewInt(0)
		decryptRecord[i] = bitmap.Zero()
	}
	return &Deck{
		Kind:          kind,
		X0:            x0,
		X1:            InitialX1(size),
		Y0:            y0,
		Y1:            y1,
		Selector0:     selectorFor(size, selector0Base),
		Selector1:     selectorFor(size, selector1Base),
		DecryptRecord: decryptRecord,
		CardsToDeal:   bitmap.Zero(),
		PlayerToDeal:  0,
	}
}

// Size returns the number of card slots this deck holds.
func (d *Deck) Size() int {
	return d.Kind.NumCards()
}

// Compressed is the subset of deck state the shuffle circuit consumes and
// produces: the ciphertext x-coordinates plus the two selector bitmaps. y0/y1
// and the decrypt bookkeeping never travel through the shuffle proof.
type Compressed struct {
	Kind      Kind
	X0        []*big.Int
	X1        []*big.Int
	Selector0 bitmap.Bitmap
	Selector1 bitmap.Bitmap
}

// LenMatches reports whether x0/x1 both have exactly Kind.NumCards() entries.
func (c Compressed) LenMatches() bool {
	n := c.Kind.NumCards()
	return len(c.X0) == n && len(c.X1) == n
}

// Compressed extracts the compressed view of this deck.
func (d *Deck) Compressed() Compressed {
	x0 := make([]*big.Int, len(d.X0))
	x1 := make([]*big.Int, len(d.X1))
	for i := range d.X0 {
		x0[i] = new(big.Int).Set(d.X0[i])
		x1[i] = new(big.Int).Set(d.X1[i])
	}
	return Compressed{
		Kind:      d.Kind,
		X0:        x0,
		X1:        x1,
		Selector0: d.Selector0.Clone(),
		Selector1: d.Selector1.Clone(),
	}
}

// SetFromCompressed overwrites this deck's ciphertext and selectors from a
// shuffle result, resizing (and zeroing) y0/y1/decrypt-record to match.
func (d *Deck) SetFromCompressed(c Compressed) error {
	if !c.LenMatches() {
		return ErrLengthMismatch
	}
	size := c.Kind.NumCards()
	d.Kind = c.Kind
	d.X0 = c.X0
	d.X1 = c.X1
	d.Selector0 = c.Selector0
	d.Selector1 = c.Selector1

	d.Y0 = make([]*big.Int, size)
	d.Y1 = make([]*big.Int, size)
	d.DecryptRecord = make([]bitmap.Bitmap, size)
	for i := 0; i < size; i++ {
		d.Y0[i] = big.NewInt(0)
		d.Y1[i] = big.NewInt(0)
		d.DecryptRecord[i] = bitmap.Zero()
	}
	return nil
}

// ShufflePublicInput builds the exact, ordered public-input vector the
// external shuffle verifier checks the proof against: the nonce and
// aggregate public key, then the old deck's x0 then x1 columns, then the
// re-encrypted deck's x0 then x1 columns, then the four selector scalars in
// old0, old1, new0, new1 order.
func ShufflePublicInput(enc, old Compressed, nonce, aggPkX, aggPkY *big.Int) ([]*big.Int, error) {
	if enc.Kind != old.Kind {
		return nil, ErrConfigMismatch
	}
	if !enc.LenMatches() || !old.LenMatches() {
		return nil, ErrLengthMismatch
	}

	size := enc.Kind.NumCards()
	input := make([]*big.Int, 0, 7+size*4)
	input = append(input, new(big.Int).Set(nonce), new(big.Int).Set(aggPkX), new(big.Int).Set(aggPkY))

	for i := 0; i < size; i++ {
		input = append(input, new(big.Int).Set(old.X0[i]))
	}
	for i := 0; i < size; i++ {
		input = append(input, new(big.Int).Set(old.X1[i]))
	}
	for i := 0; i < size; i++ {
		input = append(input, new(big.Int).Set(enc.X0[i]))
	}
	for i := 0; i < size; i++ {
		input = append(input, new(big.Int).Set(enc.X1[i]))
	}

	input = append(input,
		old.Selector0.Big(), old.Selector1.Big(),
		enc.Selector0.Big(), enc.Selector1.Big(),
	)
	return input, nil
}
