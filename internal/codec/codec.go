// Package codec is the coordinator's own binary serialization framing: the
// spec treats "key-value store bindings, serialization framing" as out of
// scope for the core, so this is a small, hand-rolled wire format (not a
// protobuf schema) good enough to round-trip GameInfo/GameState/Config
// through the keeper's KVStore.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/zkshuffle/coordinator/internal/bitmap"
	"github.com/zkshuffle/coordinator/internal/deck"
	"github.com/zkshuffle/coordinator/types"
)

// ErrTruncated is returned when a decode runs out of bytes mid-record.
var ErrTruncated = errors.New("codec: truncated record")

// writer accumulates a record as a flat byte buffer. Every variable-length
// field (strings, big.Int, byte slices) is length-prefixed with a uint32.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) bytes(v []byte) {
	w.uint32(uint32(len(v)))
	w.buf.Write(v)
}

func (w *writer) string(v string) {
	w.bytes([]byte(v))
}

// bigInt encodes a non-negative field element or counter as its big-endian
// magnitude bytes. Every value this codec carries (field elements, phase
// ordinals, hand counts) is non-negative by construction.
func (w *writer) bigInt(v *big.Int) {
	if v == nil {
		w.bytes(nil)
		return
	}
	w.bytes(v.Bytes())
}

func (w *writer) bitmap256(b bitmap.Bitmap) {
	raw := b.Bytes()
	w.buf.Write(raw[:])
}

func (w *writer) bytesOut() []byte {
	return w.buf.Bytes()
}

type reader struct {
	r *bytes.Reader
}

func newReader(b []byte) *reader {
	return &reader{r: bytes.NewReader(b)}
}

func (r *reader) uint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (r *reader) uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.r, out); err != nil {
		return nil, ErrTruncated
	}
	return out, nil
}

func (r *reader) string() (string, error) {
	b, err := r.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) bigInt() (*big.Int, error) {
	b, err := r.bytes()
	if err != nil {
		return nil, err
	}
	if b == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(b), nil
}

func (r *reader) bitmap256() (bitmap.Bitmap, error) {
	var raw [32]byte
	if _, err := io.ReadFull(r.r, raw[:]); err != nil {
		return bitmap.Bitmap{}, ErrTruncated
	}
	return bitmap.FromBytes(raw[:]), nil
}

// EncodeConfig serializes the single global Config record.
func EncodeConfig(c types.Config) []byte {
	w := &writer{}
	w.string(c.EncryptVerifier5Card)
	w.string(c.EncryptVerifier30Card)
	w.string(c.EncryptVerifier52Card)
	w.string(c.DecryptVerifier)
	w.uint64(c.NextGameID)
	return w.bytesOut()
}

// DecodeConfig deserializes a Config record written by EncodeConfig.
func DecodeConfig(b []byte) (types.Config, error) {
	r := newReader(b)
	var c types.Config
	var err error
	if c.EncryptVerifier5Card, err = r.string(); err != nil {
		return c, err
	}
	if c.EncryptVerifier30Card, err = r.string(); err != nil {
		return c, err
	}
	if c.EncryptVerifier52Card, err = r.string(); err != nil {
		return c, err
	}
	if c.DecryptVerifier, err = r.string(); err != nil {
		return c, err
	}
	if c.NextGameID, err = r.uint64(); err != nil {
		return c, err
	}
	return c, nil
}

// EncodeGameInfo serializes the immutable-after-creation GameInfo record.
func EncodeGameInfo(info types.GameInfo) []byte {
	w := &writer{}
	w.uint64(info.GameID)
	w.uint32(uint32(info.DeckKind))
	w.uint32(uint32(info.NumCards))
	w.uint32(uint32(info.NumPlayers))
	w.string(info.EncryptVerifier)
	return w.bytesOut()
}

// DecodeGameInfo deserializes a GameInfo record written by EncodeGameInfo.
func DecodeGameInfo(b []byte) (types.GameInfo, error) {
	r := newReader(b)
	var info types.GameInfo
	var err error
	if info.GameID, err = r.uint64(); err != nil {
		return info, err
	}
	kind, err := r.uint32()
	if err != nil {
		return info, err
	}
	info.DeckKind = deck.Kind(kind)
	numCards, err := r.uint32()
	if err != nil {
		return info, err
	}
	info.NumCards = int(numCards)
	numPlayers, err := r.uint32()
	if err != nil {
		return info, err
	}
	info.NumPlayers = int(numPlayers)
	if info.EncryptVerifier, err = r.string(); err != nil {
		return info, err
	}
	return info, nil
}

// EncodeGameState serializes the mutable per-game GameState record,
// including the embedded Deck.
func EncodeGameState(s types.GameState) []byte {
	w := &writer{}
	w.uint32(uint32(s.Phase))
	w.uint32(uint32(s.Opening))
	w.uint32(uint32(s.CurPlayerIndex))
	w.bigInt(s.AggregatePkX)
	w.bigInt(s.AggregatePkY)
	w.bigInt(s.Nonce)

	w.uint32(uint32(len(s.PlayerAddr)))
	for _, a := range s.PlayerAddr {
		w.string(a)
	}
	w.uint32(uint32(len(s.SigningAddr)))
	for _, a := range s.SigningAddr {
		w.string(a)
	}
	w.uint32(uint32(len(s.PlayerPkX)))
	for _, v := range s.PlayerPkX {
		w.bigInt(v)
	}
	w.uint32(uint32(len(s.PlayerPkY)))
	for _, v := range s.PlayerPkY {
		w.bigInt(v)
	}
	w.uint32(uint32(len(s.PlayerHand)))
	for _, v := range s.PlayerHand {
		w.uint32(v)
	}

	encodeDeck(w, s.Deck)
	return w.bytesOut()
}

// DecodeGameState deserializes a GameState record written by EncodeGameState.
func DecodeGameState(b []byte) (types.GameState, error) {
	r := newReader(b)
	var s types.GameState

	phase, err := r.uint32()
	if err != nil {
		return s, err
	}
	s.Phase = types.Phase(phase)

	opening, err := r.uint32()
	if err != nil {
		return s, err
	}
	s.Opening = int(opening)

	cur, err := r.uint32()
	if err != nil {
		return s, err
	}
	s.CurPlayerIndex = int(cur)

	if s.AggregatePkX, err = r.bigInt(); err != nil {
		return s, err
	}
	if s.AggregatePkY, err = r.bigInt(); err != nil {
		return s, err
	}
	if s.Nonce, err = r.bigInt(); err != nil {
		return s, err
	}

	n, err := r.uint32()
	if err != nil {
		return s, err
	}
	s.PlayerAddr = make([]string, n)
	for i := range s.PlayerAddr {
		if s.PlayerAddr[i], err = r.string(); err != nil {
			return s, err
		}
	}

	if n, err = r.uint32(); err != nil {
		return s, err
	}
	s.SigningAddr = make([]string, n)
	for i := range s.SigningAddr {
		if s.SigningAddr[i], err = r.string(); err != nil {
			return s, err
		}
	}

	if n, err = r.uint32(); err != nil {
		return s, err
	}
	s.PlayerPkX = make([]*big.Int, n)
	for i := range s.PlayerPkX {
		if s.PlayerPkX[i], err = r.bigInt(); err != nil {
			return s, err
		}
	}

	if n, err = r.uint32(); err != nil {
		return s, err
	}
	s.PlayerPkY = make([]*big.Int, n)
	for i := range s.PlayerPkY {
		if s.PlayerPkY[i], err = r.bigInt(); err != nil {
			return s, err
		}
	}

	if n, err = r.uint32(); err != nil {
		return s, err
	}
	s.PlayerHand = make([]uint32, n)
	for i := range s.PlayerHand {
		if s.PlayerHand[i], err = r.uint32(); err != nil {
			return s, err
		}
	}

	d, err := decodeDeck(r)
	if err != nil {
		return s, err
	}
	s.Deck = d
	return s, nil
}

func encodeDeck(w *writer, d *deck.Deck) {
	if d == nil {
		w.uint32(0)
		return
	}
	w.uint32(1)
	w.uint32(uint32(d.Kind))
	size := uint32(len(d.X0))
	w.uint32(size)
	for _, v := range d.X0 {
		w.bigInt(v)
	}
	for _, v := range d.X1 {
		w.bigInt(v)
	}
	for _, v := range d.Y0 {
		w.bigInt(v)
	}
	for _, v := range d.Y1 {
		w.bigInt(v)
	}
	w.bitmap256(d.Selector0)
	w.bitmap256(d.Selector1)
	for _, rec := range d.DecryptRecord {
		w.bitmap256(rec)
	}
	w.bitmap256(d.CardsToDeal)
	w.uint32(d.PlayerToDeal)
}

func decodeDeck(r *reader) (*deck.Deck, error) {
	present, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}

	kind, err := r.uint32()
	if err != nil {
		return nil, err
	}
	size, err := r.uint32()
	if err != nil {
		return nil, err
	}

	d := &deck.Deck{Kind: deck.Kind(kind)}
	if d.X0, err = readBigIntSlice(r, size); err != nil {
		return nil, err
	}
	if d.X1, err = readBigIntSlice(r, size); err != nil {
		return nil, err
	}
	if d.Y0, err = readBigIntSlice(r, size); err != nil {
		return nil, err
	}
	if d.Y1, err = readBigIntSlice(r, size); err != nil {
		return nil, err
	}
	if d.Selector0, err = r.bitmap256(); err != nil {
		return nil, err
	}
	if d.Selector1, err = r.bitmap256(); err != nil {
		return nil, err
	}
	d.DecryptRecord = make([]bitmap.Bitmap, size)
	for i := range d.DecryptRecord {
		if d.DecryptRecord[i], err = r.bitmap256(); err != nil {
			return nil, err
		}
	}
	if d.CardsToDeal, err = r.bitmap256(); err != nil {
		return nil, err
	}
	if d.PlayerToDeal, err = r.uint32(); err != nil {
		return nil, err
	}
	return d, nil
}

func readBigIntSlice(r *reader, n uint32) ([]*big.Int, error) {
	out := make([]*big.Int, n)
	for i := range out {
		v, err := r.bigInt()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
