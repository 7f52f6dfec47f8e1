// Package classgroup implements arithmetic on binary quadratic forms of a
// fixed negative discriminant, the group both VDF constructions iterate.
package classgroup

import (
	"errors"
	"math/big"
)

// ErrExactDivision is returned whenever a division that the algorithm
// requires to be exact leaves a non-zero remainder. Composition and
// reduction both depend on several such divisions; a non-zero remainder
// means the two forms did not share a discriminant, or an invariant was
// violated upstream.
var ErrExactDivision = errors.New("classgroup: inexact division")

// ErrDiscriminantMismatch is returned by Compose when its operands carry
// different discriminants.
var ErrDiscriminantMismatch = errors.New("classgroup: discriminant mismatch")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
	four = big.NewInt(4)
)

// Form is a binary quadratic form (A, B, C) of discriminant D, satisfying
// B² - 4AC = D. A form returned by NewForm, Identity, Compose, Square, Pow
// or Reduce is always reduced: A > 0, and -A < B <= A <= C, with B >= 0
// whenever A == C.
type Form struct {
	A, B, C, D *big.Int
}

// NewForm builds the form (a, b, c) with c derived from the invariant
// c = (b² - D) / (4a), and returns its reduction. It fails if that
// division is not exact.
func NewForm(a, b, D *big.Int) (*Form, error) {
	num := new(big.Int).Sub(new(big.Int).Mul(b, b), D)
	den := new(big.Int).Mul(four, a)
	c, err := exactDiv(num, den)
	if err != nil {
		return nil, err
	}
	return Reduce(&Form{A: new(big.Int).Set(a), B: new(big.Int).Set(b), C: c, D: D})
}

// Identity returns the principal form for D, i.e. NewForm(1, 1, D) without
// the reduction round-trip: (1, 1, (1-D)/4) is reduced by construction
// since a == 1 <= c for any D < 0.
func Identity(D *big.Int) *Form {
	num := new(big.Int).Sub(one, D)
	c := new(big.Int).Div(num, four) // exact: D == 1 (mod 8) implies 4 | (1-D)
	return &Form{A: big.NewInt(1), B: big.NewInt(1), C: c, D: D}
}

// Clone returns a deep copy of f.
func (f *Form) Clone() *Form {
	return &Form{
		A: new(big.Int).Set(f.A),
		B: new(big.Int).Set(f.B),
		C: new(big.Int).Set(f.C),
		D: f.D,
	}
}

// Equal reports whether f and g have identical A, B, C and D.
func (f *Form) Equal(g *Form) bool {
	return f.A.Cmp(g.A) == 0 && f.B.Cmp(g.B) == 0 && f.C.Cmp(g.C) == 0 && f.D.Cmp(g.D) == 0
}

// exactDiv divides num by den, failing if the remainder is non-zero.
func exactDiv(num, den *big.Int) (*big.Int, error) {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		return nil, ErrExactDivision
	}
	return q, nil
}

// normalize replaces f.B by its representative in (-f.A, f.A] modulo 2*f.A,
// and recomputes f.C from the invariant. Mutates f in place.
func normalize(f *Form) error {
	a2 := new(big.Int).Lsh(f.A, 1)
	r := new(big.Int).Mod(f.B, a2) // Euclidean mod: r in [0, 2a)
	if r.Cmp(f.A) > 0 {
		r.Sub(r, a2)
	}
	num := new(big.Int).Sub(new(big.Int).Mul(r, r), f.D)
	den := new(big.Int).Lsh(f.A, 2)
	c, err := exactDiv(num, den)
	if err != nil {
		return err
	}
	f.B, f.C = r, c
	return nil
}

// Reduce returns the reduced form equivalent to f, leaving f untouched.
// Reduction repeatedly swaps A and C (negating B) whenever A > C, then
// renormalizes, until A <= C; a final sign fix-up handles A == C, B < 0.
func Reduce(f *Form) (*Form, error) {
	g := f.Clone()
	if err := normalize(g); err != nil {
		return nil, err
	}
	for g.A.Cmp(g.C) > 0 {
		g.A, g.C = g.C, g.A
		g.B.Neg(g.B)
		if err := normalize(g); err != nil {
			return nil, err
		}
	}
	if g.A.Cmp(g.C) == 0 && g.B.Sign() < 0 {
		g.B.Neg(g.B)
	}
	return g, nil
}
