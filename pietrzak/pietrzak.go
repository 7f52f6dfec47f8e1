// Package pietrzak implements the Pietrzak halving-protocol VDF over the
// class group: a prover squares t times and, alongside the result,
// produces O(log t) proof elements; a verifier checks those elements in
// O(log t) group operations instead of repeating the t squarings.
package pietrzak

import (
	"context"
	"errors"
	"math/big"

	"github.com/mlaurent/classvdf/bigint"
	"github.com/mlaurent/classvdf/classgroup"
	"github.com/mlaurent/classvdf/internal/telemetry"
)

// ErrDifficultyTooSmall is returned when t is below the protocol's minimum
// of 66. finalDifficulty(66) is 66, so at the minimum no halving round runs
// and Verify checks x^(2^66) = y directly.
var ErrDifficultyTooSmall = errors.New("pietrzak: difficulty must be >= 66")

// ErrDifficultyOdd is returned when t is not even, a protocol requirement
// since every round halves the current difficulty.
var ErrDifficultyOdd = errors.New("pietrzak: difficulty must be even")

// ErrMalformedProof is returned by Verify when the proof cannot be parsed
// into a sequence of forms, or rejects the halving check. It intentionally
// carries no detail about which round or invariant failed.
var ErrMalformedProof = errors.New("pietrzak: malformed or rejected proof")

const minDifficulty = 66
const challengeBytes = 16

// finalDifficultyTailBack is how many positions back from the tail of a
// difficulty's halving sequence the recursion stops producing mu elements
// and falls back to a direct check.
const finalDifficultyTailBack = 8

// finalDifficulty computes final_t for a starting difficulty t: repeatedly
// halve t (rounding an odd result up to even) until it reaches 2, pad the
// resulting sequence with a synthetic trailing 1 (it always ends …, 2, 1),
// then step finalDifficultyTailBack positions back from that tail. The
// round loop in Solve and Verify halves current_t by the same recurrence,
// so it always lands on this value exactly rather than overshooting it.
func finalDifficulty(t uint64) uint64 {
	seq := []uint64{t}
	cur := t
	for cur != 2 {
		cur /= 2
		if cur%2 != 0 {
			cur++
		}
		seq = append(seq, cur)
	}
	seq = append(seq, 1)

	idx := len(seq) - finalDifficultyTailBack
	if idx < 0 {
		idx = 0
	}
	return seq[idx]
}

// CheckDifficulty reports whether t is an acceptable Pietrzak difficulty:
// even and at least 66.
func CheckDifficulty(t uint64) error {
	if t < minDifficulty {
		return ErrDifficultyTooSmall
	}
	if t%2 != 0 {
		return ErrDifficultyOdd
	}
	return nil
}

// fiatShamirChallenge derives r_j from the round's transcript: the first
// challengeBytes bytes of SHA256(xSer, ySer, muSer), read as an unsigned
// big integer.
func fiatShamirChallenge(xSer, ySer, muSer []byte) *big.Int {
	h := bigint.Sha256(xSer, ySer, muSer)
	return new(big.Int).SetBytes(h[:challengeBytes])
}

// Solve runs the halving protocol for t squarings of x = (2, 1, D) and
// returns the encoded proof: serialize(y) || serialize(mu_1) || ... .
// ctx is checked between squarings; a cancelled context aborts early.
func Solve(ctx context.Context, D *big.Int, t uint64, intSizeBits int) ([]byte, error) {
	if err := CheckDifficulty(t); err != nil {
		return nil, err
	}
	log := telemetry.WithConstruction("pietrzak")
	size := (intSizeBits + 16) >> 4

	x, err := classgroup.NewForm(big.NewInt(2), big.NewInt(1), D)
	if err != nil {
		return nil, err
	}

	// Only round 0 can reuse the power table (x_round == x only at the
	// very start), so the table only needs indices t/2 and t themselves.
	table, err := classgroup.IterateSquarings(ctx, x, []int{int(t / 2), int(t)})
	if err != nil {
		return nil, err
	}
	y, ok := table.Get(int(t))
	if !ok {
		return nil, ErrMalformedProof
	}

	xInitSer, err := classgroup.Serialize(x, size)
	if err != nil {
		return nil, err
	}
	yInitSer, err := classgroup.Serialize(y, size)
	if err != nil {
		return nil, err
	}

	xRound := x
	yRound := y
	currentT := t
	finalT := finalDifficulty(t)
	var mus []*classgroup.Form

	for round := 0; currentT != finalT; round++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		halfT := currentT / 2

		var mu *classgroup.Form
		if round == 0 {
			cached, ok := table.Get(int(halfT))
			if !ok {
				return nil, ErrMalformedProof
			}
			mu = cached.Clone()
		} else {
			mu, err = classgroup.RepeatedSquare(xRound, int(halfT))
			if err != nil {
				return nil, err
			}
		}
		mus = append(mus, mu)

		muSer, err := classgroup.Serialize(mu, size)
		if err != nil {
			return nil, err
		}
		// The Fiat-Shamir challenge hashes the *initial* x and y on every
		// round, not the running x_round/y_round - this must match the
		// verifier bit-for-bit (see classgroup.Serialize callers in Verify).
		r := fiatShamirChallenge(xInitSer, yInitSer, muSer)

		xr, err := classgroup.Pow(xRound, r)
		if err != nil {
			return nil, err
		}
		xRound, err = classgroup.Compose(xr, mu)
		if err != nil {
			return nil, err
		}

		mur, err := classgroup.Pow(mu, r)
		if err != nil {
			return nil, err
		}
		yRound, err = classgroup.Compose(mur, yRound)
		if err != nil {
			return nil, err
		}

		currentT = halfT
		if currentT%2 != 0 {
			currentT++
			yRound, err = classgroup.Square(yRound)
			if err != nil {
				return nil, err
			}
		}

		log.Debug().Int("round", round).Uint64("current_t", currentT).Msg("round complete")
	}

	out, err := classgroup.Serialize(y, size)
	if err != nil {
		return nil, err
	}
	for _, mu := range mus {
		muSer, err := classgroup.Serialize(mu, size)
		if err != nil {
			return nil, err
		}
		out = append(out, muSer...)
	}
	log.Info().Uint64("t", t).Int("rounds", len(mus)).Msg("proof generated")
	return out, nil
}

// Verify checks a Pietrzak proof against challenge discriminant D and
// difficulty t, returning nil iff the halving check accepts.
func Verify(D *big.Int, t uint64, intSizeBits int, proof []byte) error {
	if err := CheckDifficulty(t); err != nil {
		return err
	}
	log := telemetry.WithConstruction("pietrzak")
	size := (intSizeBits + 16) >> 4
	field := 2 * size

	if len(proof) == 0 || len(proof)%field != 0 {
		return ErrMalformedProof
	}
	n := len(proof) / field

	x, err := classgroup.NewForm(big.NewInt(2), big.NewInt(1), D)
	if err != nil {
		return ErrMalformedProof
	}

	xInitSer, err := classgroup.Serialize(x, size)
	if err != nil {
		return ErrMalformedProof
	}
	y, err := classgroup.Deserialize(proof[:field], D)
	if err != nil {
		return ErrMalformedProof
	}
	yInitSer, err := classgroup.Serialize(y, size)
	if err != nil {
		return ErrMalformedProof
	}

	xCur := x
	yCur := y
	currentT := t
	finalT := finalDifficulty(t)

	for k := 1; k < n; k++ {
		muSer := proof[k*field : (k+1)*field]
		mu, err := classgroup.Deserialize(muSer, D)
		if err != nil {
			return ErrMalformedProof
		}

		r := fiatShamirChallenge(xInitSer, yInitSer, muSer)

		xr, err := classgroup.Pow(xCur, r)
		if err != nil {
			return ErrMalformedProof
		}
		xCur, err = classgroup.Compose(xr, mu)
		if err != nil {
			return ErrMalformedProof
		}

		mur, err := classgroup.Pow(mu, r)
		if err != nil {
			return ErrMalformedProof
		}
		yCur, err = classgroup.Compose(mur, yCur)
		if err != nil {
			return ErrMalformedProof
		}

		currentT /= 2
		if currentT%2 != 0 {
			currentT++
			yCur, err = classgroup.Square(yCur)
			if err != nil {
				return ErrMalformedProof
			}
		}
	}

	if currentT != finalT {
		log.Warn().Msg("proof has wrong round count for difficulty")
		return ErrMalformedProof
	}

	check, err := classgroup.Pow(xCur, new(big.Int).Lsh(big.NewInt(1), uint(currentT)))
	if err != nil {
		return ErrMalformedProof
	}
	if !check.Equal(yCur) {
		log.Warn().Msg("proof rejected: final check failed")
		return ErrMalformedProof
	}
	log.Info().Uint64("t", t).Msg("proof accepted")
	return nil
}
