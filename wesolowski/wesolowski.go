// Package wesolowski implements the Wesolowski VDF over the class group: a
// Fiat-Shamir prime challenge collapses the t-squaring proof into a single
// class-group element, verified with one prime exponentiation instead of
// t sequential squarings.
package wesolowski

import (
	"context"
	"errors"
	"math"
	"math/big"

	"github.com/mlaurent/classvdf/bigint"
	"github.com/mlaurent/classvdf/classgroup"
	"github.com/mlaurent/classvdf/internal/telemetry"
)

// ErrDifficultyTooSmall is returned when t is below the protocol's minimum
// of 1.
var ErrDifficultyTooSmall = errors.New("wesolowski: difficulty must be >= 1")

// ErrMalformedProof is returned by Verify on any parse failure or a
// rejected proof. It intentionally carries no detail about which check
// failed.
var ErrMalformedProof = errors.New("wesolowski: malformed or rejected proof")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// CheckDifficulty reports whether t is an acceptable Wesolowski difficulty:
// at least 1. Unlike Pietrzak, there is no parity constraint.
func CheckDifficulty(t uint64) error {
	if t < 1 {
		return ErrDifficultyTooSmall
	}
	return nil
}

// ApproximateParameters picks (L, k, w) tuning the windowed evaluator for
// a given difficulty t, balancing proof-generation cost against the
// 10-million-entry in-memory budget the reference construction assumes.
func ApproximateParameters(t int) (L, k, w int) {
	logMemory := math.Log(1e7) / math.Log(2)
	logT := math.Log(float64(t)) / math.Log(2)

	L = 1
	if logT-logMemory > 0 {
		L = int(math.Ceil(math.Pow(2, logMemory-20)))
	}

	intermediate := float64(t) * math.Log(2) / float64(2*L)
	k = int(math.Max(math.Round(math.Log(intermediate)-math.Log(math.Log(intermediate))+0.25), 1))

	w = int(math.Floor(float64(t)/(float64(t)/float64(k)+float64(L)*math.Pow(2, float64(k+1))))) - 2

	return L, k, w
}

// HashPrime derives the Fiat-Shamir challenge prime from the transcript
// parts: it hashes "prime" || u64_to_bytes(counter) || parts, incrementing
// counter until the leading 16 bytes of the digest pass a primality check.
func HashPrime(parts ...[]byte) *big.Int {
	var counter uint64
	for {
		ctrBytes := bigint.U64ToBytes(counter)
		seedParts := make([][]byte, 0, len(parts)+2)
		seedParts = append(seedParts, []byte("prime"), ctrBytes[:])
		seedParts = append(seedParts, parts...)

		h := bigint.Sha256(seedParts...)
		z := new(big.Int).SetBytes(h[:16])
		if bigint.IsProbablePrime(z, 2) {
			return z
		}
		counter++
	}
}

// GetBlock returns the k-bit digit of 2^T / B at position i:
// floor((2^(T - k*(i+1)) mod B) * 2^k / B). The caller must ensure
// T - k*(i+1) >= 0.
func GetBlock(i, k, T int, B *big.Int) *big.Int {
	exp := big.NewInt(int64(T - k*(i+1)))
	p2 := new(big.Int).Exp(two, exp, B)
	kExp := new(big.Int).Lsh(one, uint(k))
	num := new(big.Int).Mul(kExp, p2)
	return new(big.Int).Div(num, B)
}

// EvalOptimized computes h^floor(2^T/B) via a windowed long-division
// evaluator, using powers (precomputed at every multiple of k*L, plus T)
// in place of repeated squaring.
func EvalOptimized(identity, h *classgroup.Form, B *big.Int, T, k, L int, powers *classgroup.PowerTable) (*classgroup.Form, error) {
	k0 := k / 2
	k1 := k - k0
	bLimit := 1 << uint(k)
	k0Limit := 1 << uint(k0)
	k1Limit := 1 << uint(k1)
	kExp := new(big.Int).Lsh(one, uint(k))

	x := identity.Clone()
	var err error

	loopCount := int(math.Ceil(float64(T) / float64(k*L)))

	for j := L - 1; j >= 0; j-- {
		x, err = classgroup.Pow(x, kExp)
		if err != nil {
			return nil, err
		}

		ys := make([]*classgroup.Form, bLimit)
		for b := 0; b < bLimit; b++ {
			ys[b] = identity.Clone()
		}

		for i := 0; i < loopCount; i++ {
			if T-k*(i*L+j+1) < 0 {
				continue
			}
			b := int(GetBlock(i*L+j, k, T, B).Int64())
			power, ok := powers.Get(i * k * L)
			if !ok {
				return nil, ErrMalformedProof
			}
			ys[b], err = classgroup.Compose(ys[b], power)
			if err != nil {
				return nil, err
			}
		}

		for b1 := 0; b1 < k1Limit; b1++ {
			z := identity.Clone()
			for b0 := 0; b0 < k0Limit; b0++ {
				z, err = classgroup.Compose(z, ys[b1*k0Limit+b0])
				if err != nil {
					return nil, err
				}
			}
			c, err := classgroup.Pow(z, big.NewInt(int64(b1*k0Limit)))
			if err != nil {
				return nil, err
			}
			x, err = classgroup.Compose(x, c)
			if err != nil {
				return nil, err
			}
		}

		for b0 := 0; b0 < k0Limit; b0++ {
			z := identity.Clone()
			for b1 := 0; b1 < k1Limit; b1++ {
				z, err = classgroup.Compose(z, ys[b1*k0Limit+b0])
				if err != nil {
					return nil, err
				}
			}
			d, err := classgroup.Pow(z, big.NewInt(int64(b0)))
			if err != nil {
				return nil, err
			}
			x, err = classgroup.Compose(x, d)
			if err != nil {
				return nil, err
			}
		}
	}

	return x, nil
}

// powerIndices returns the indices EvalOptimized and the final result need
// cached: every multiple of k*L up to t, plus t itself.
func powerIndices(t uint64, k, L int) []int {
	q := k * L
	loopCount := int(math.Ceil(float64(t) / float64(q)))
	indices := make([]int, 0, loopCount+2)
	for i := 0; i <= loopCount; i++ {
		indices = append(indices, i*q)
	}
	indices = append(indices, int(t))
	return indices
}

// Solve computes y = x^(2^t) and a Wesolowski proof pi for x = (2, 1, D),
// returning serialize(y) || serialize(pi).
func Solve(ctx context.Context, D *big.Int, t uint64, intSizeBits int) ([]byte, error) {
	if err := CheckDifficulty(t); err != nil {
		return nil, err
	}
	log := telemetry.WithConstruction("wesolowski")
	size := (intSizeBits + 16) >> 4

	x, err := classgroup.NewForm(big.NewInt(2), big.NewInt(1), D)
	if err != nil {
		return nil, err
	}

	L, k, _ := ApproximateParameters(int(t))
	table, err := classgroup.IterateSquarings(ctx, x, powerIndices(t, k, L))
	if err != nil {
		return nil, err
	}
	y, ok := table.Get(int(t))
	if !ok {
		return nil, ErrMalformedProof
	}

	xSer, err := classgroup.Serialize(x, size)
	if err != nil {
		return nil, err
	}
	ySer, err := classgroup.Serialize(y, size)
	if err != nil {
		return nil, err
	}
	B := HashPrime(xSer, ySer)

	identity := classgroup.Identity(D)
	pi, err := EvalOptimized(identity, x, B, int(t), k, L, table)
	if err != nil {
		return nil, err
	}

	piSer, err := classgroup.Serialize(pi, size)
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("t", t).Int("k", k).Int("L", L).Msg("proof generated")
	return append(ySer, piSer...), nil
}

// Verify checks a Wesolowski proof against challenge discriminant D and
// difficulty t, returning nil iff the prime-exponentiation check accepts.
func Verify(D *big.Int, t uint64, intSizeBits int, proof []byte) error {
	if err := CheckDifficulty(t); err != nil {
		return err
	}
	log := telemetry.WithConstruction("wesolowski")
	size := (intSizeBits + 16) >> 4

	if len(proof) != 4*size {
		return ErrMalformedProof
	}

	x, err := classgroup.NewForm(big.NewInt(2), big.NewInt(1), D)
	if err != nil {
		return ErrMalformedProof
	}
	y, err := classgroup.Deserialize(proof[:2*size], D)
	if err != nil {
		return ErrMalformedProof
	}
	pi, err := classgroup.Deserialize(proof[2*size:], D)
	if err != nil {
		return ErrMalformedProof
	}

	xSer, err := classgroup.Serialize(x, size)
	if err != nil {
		return ErrMalformedProof
	}
	ySer, err := classgroup.Serialize(y, size)
	if err != nil {
		return ErrMalformedProof
	}
	B := HashPrime(xSer, ySer)

	r := new(big.Int).Exp(two, new(big.Int).SetUint64(t), B)

	piB, err := classgroup.Pow(pi, B)
	if err != nil {
		return ErrMalformedProof
	}
	xR, err := classgroup.Pow(x, r)
	if err != nil {
		return ErrMalformedProof
	}
	z, err := classgroup.Compose(piB, xR)
	if err != nil {
		return ErrMalformedProof
	}

	if !z.Equal(y) {
		log.Warn().Msg("proof rejected: final check failed")
		return ErrMalformedProof
	}
	log.Info().Uint64("t", t).Msg("proof accepted")
	return nil
}
