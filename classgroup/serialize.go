package classgroup

import (
	"errors"
	"math/big"

	"github.com/mlaurent/classvdf/bigint"
)

// ErrOddLength is returned by Deserialize when given a buffer whose length
// is not even, since A and B each occupy exactly half of it.
var ErrOddLength = errors.New("classgroup: serialized form has odd length")

// ErrNonPositiveA is returned by Deserialize when the decoded A is not
// positive, since no reduced form has such an A.
var ErrNonPositiveA = errors.New("classgroup: serialized form has non-positive a")

// DefaultSize returns the default per-field byte width for a discriminant
// D: ((bit_length(-D) + 16) >> 4).
func DefaultSize(D *big.Int) int {
	negD := new(big.Int).Neg(D)
	return (bigint.BitLen(negD) + 16) >> 4
}

// Serialize encodes f.A and f.B as two fixed-width, two's-complement
// big-endian fields of size bytes each, back to back. size <= 0 selects
// DefaultSize(f.D).
func Serialize(f *Form, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize(f.D)
	}
	aBytes, err := bigint.IntToBytes(f.A, size)
	if err != nil {
		return nil, err
	}
	bBytes, err := bigint.IntToBytes(f.B, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 2*size)
	out = append(out, aBytes...)
	out = append(out, bBytes...)
	return out, nil
}

// Deserialize recovers a reduced form of discriminant D from a buffer
// produced by Serialize. It fails if the decoded A is not positive.
func Deserialize(buf []byte, D *big.Int) (*Form, error) {
	if len(buf)%2 != 0 {
		return nil, ErrOddLength
	}
	size := len(buf) / 2
	a := bigint.BytesToInt(buf[:size])
	if a.Sign() <= 0 {
		return nil, ErrNonPositiveA
	}
	b := bigint.BytesToInt(buf[size:])
	return NewForm(a, b, D)
}
