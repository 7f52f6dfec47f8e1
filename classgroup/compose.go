package classgroup

import (
	"math/big"

	"github.com/mlaurent/classvdf/bigint"
)

// SolveLinearCongruence finds mu in [0, v) such that a*mu = b (mod m), where
// v = m / gcd(a, m). It fails if b is not a multiple of gcd(a, m), since the
// congruence would otherwise have no solution.
func SolveLinearCongruence(a, b, m *big.Int) (mu, v *big.Int, err error) {
	g := new(big.Int).GCD(nil, nil, absBig(a), absBig(m))
	bq, err := exactDiv(b, g)
	if err != nil {
		return nil, nil, err
	}
	_, x, _ := bigint.ExtGCD(a, m)
	v = new(big.Int).Div(m, g)
	mu = new(big.Int).Mod(new(big.Int).Mul(x, bq), v)
	return mu, v, nil
}

func absBig(x *big.Int) *big.Int {
	if x.Sign() < 0 {
		return new(big.Int).Neg(x)
	}
	return x
}

// Compose returns the reduced form equivalent to f1 * f2 under NUCOMP-style
// composition. f1 and f2 must carry the same discriminant.
func Compose(f1, f2 *Form) (*Form, error) {
	if f1.D.Cmp(f2.D) != 0 {
		return nil, ErrDiscriminantMismatch
	}

	g, err := exactDiv(new(big.Int).Add(f1.B, f2.B), two)
	if err != nil {
		return nil, err
	}
	h, err := exactDiv(new(big.Int).Sub(f2.B, f1.B), two)
	if err != nil {
		return nil, err
	}

	wBase := new(big.Int).GCD(nil, nil, f1.A, f2.A)
	var w *big.Int
	if g.Sign() == 0 {
		w = new(big.Int).Set(wBase)
	} else {
		w = new(big.Int).GCD(nil, nil, wBase, absBig(g))
	}
	j := new(big.Int).Set(w)

	s, err := exactDiv(f1.A, w)
	if err != nil {
		return nil, err
	}
	t, err := exactDiv(f2.A, w)
	if err != nil {
		return nil, err
	}
	u, err := exactDiv(g, w)
	if err != nil {
		return nil, err
	}

	tu := new(big.Int).Mul(t, u)
	st := new(big.Int).Mul(s, t)

	rhs1 := new(big.Int).Add(new(big.Int).Mul(h, u), new(big.Int).Mul(s, f1.C))
	mu, v, err := SolveLinearCongruence(tu, rhs1, st)
	if err != nil {
		return nil, err
	}

	tv := new(big.Int).Mul(t, v)
	rhs2 := new(big.Int).Sub(h, new(big.Int).Mul(t, mu))
	lambda, _, err := SolveLinearCongruence(tv, rhs2, s)
	if err != nil {
		return nil, err
	}

	k := new(big.Int).Add(mu, new(big.Int).Mul(v, lambda))

	l, err := exactDiv(new(big.Int).Sub(new(big.Int).Mul(k, t), h), s)
	if err != nil {
		return nil, err
	}

	mNum := new(big.Int).Sub(
		new(big.Int).Sub(new(big.Int).Mul(tu, k), new(big.Int).Mul(h, u)),
		new(big.Int).Mul(f1.C, s),
	)
	m, err := exactDiv(mNum, st)
	if err != nil {
		return nil, err
	}

	A := new(big.Int).Mul(s, t)
	B := new(big.Int).Sub(new(big.Int).Mul(j, u), new(big.Int).Add(new(big.Int).Mul(k, t), new(big.Int).Mul(l, s)))
	C := new(big.Int).Sub(new(big.Int).Mul(k, l), new(big.Int).Mul(j, m))

	return Reduce(&Form{A: A, B: B, C: C, D: f1.D})
}

// Square returns the reduction of f composed with itself.
func Square(f *Form) (*Form, error) {
	return Compose(f, f)
}

// RepeatedSquare returns f squared n times.
func RepeatedSquare(f *Form, n int) (*Form, error) {
	cur := f
	for i := 0; i < n; i++ {
		next, err := Square(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Pow returns f raised to the non-negative exponent e, via left-to-right
// binary exponentiation starting from the most significant bit.
func Pow(f *Form, e *big.Int) (*Form, error) {
	if e.Sign() == 0 {
		return Identity(f.D), nil
	}
	result := Identity(f.D)
	for i := e.BitLen() - 1; i >= 0; i-- {
		next, err := Square(result)
		if err != nil {
			return nil, err
		}
		result = next
		if e.Bit(i) == 1 {
			next, err := Compose(result, f)
			if err != nil {
				return nil, err
			}
			result = next
		}
	}
	return result, nil
}
