// Package discriminant deterministically derives a negative, prime,
// VDF-suitable discriminant from a seed and a target bit length.
package discriminant

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/mlaurent/classvdf/bigint"
	"github.com/mlaurent/classvdf/internal/telemetry"
)

// ErrInvalidBitLength is returned by Create when L is not positive.
var ErrInvalidBitLength = errors.New("discriminant: bit length must be positive")

// smallPrimes seeds trial division during the sieve, to skip obviously
// composite candidates before paying for a Miller-Rabin round.
var smallPrimes = sieveEratosthenes(10000)

func sieveEratosthenes(limit int) []int64 {
	composite := make([]bool, limit+1)
	var primes []int64
	for n := 2; n <= limit; n++ {
		if composite[n] {
			continue
		}
		primes = append(primes, int64(n))
		for m := n * n; m <= limit; m += n {
			composite[m] = true
		}
	}
	return primes
}

// expandSeed produces nBytes of pseudorandom output deterministic in seed,
// via SHA-256 in counter mode: hash(seed || counter), counter a 2-byte
// big-endian integer incremented each block.
func expandSeed(seed []byte, nBytes int) []byte {
	out := make([]byte, 0, nBytes+sha256.Size)
	var counter uint16
	for len(out) < nBytes {
		var ctrBytes [2]byte
		binary.BigEndian.PutUint16(ctrBytes[:], counter)
		sum := bigint.Sha256(seed, ctrBytes[:])
		out = append(out, sum[:]...)
		counter++
	}
	return out[:nBytes]
}

// Create derives a negative discriminant D of approximately L bits,
// deterministic in (seed, L), with D = 1 (mod 8) and -D prime.
func Create(seed []byte, L int) (*big.Int, error) {
	if L <= 0 {
		return nil, ErrInvalidBitLength
	}
	log := telemetry.WithComponent("discriminant")

	nBytes := (L + 7) / 8
	raw := expandSeed(seed, nBytes)

	n := new(big.Int).SetBytes(raw)
	shift := uint((8 - (L % 8)) % 8)
	n.Rsh(n, shift)
	n.SetBit(n, L-1, 1)

	// Force candidate = 7 (mod 8): -candidate = 1 (mod 8), the required
	// discriminant residue.
	for i := 0; i < 3; i++ {
		n.SetBit(n, i, 0)
	}
	n.SetBit(n, 0, 1)
	n.SetBit(n, 1, 1)
	n.SetBit(n, 2, 1)

	candidate := new(big.Int).Set(n)
	eight := big.NewInt(8)
	tried := 0
	for {
		if isSieveSurvivor(candidate) && bigint.IsProbablePrime(candidate, 2) {
			log.Debug().Int("bit_length", bigint.BitLen(candidate)).Int("tried", tried).Msg("discriminant found")
			return new(big.Int).Neg(candidate), nil
		}
		candidate.Add(candidate, eight)
		tried++
		if tried%65536 == 0 {
			log.Debug().Int("tried", tried).Msg("discriminant sieve window exhausted")
		}
	}
}

// isSieveSurvivor reports whether candidate has no small prime factor,
// cheaply ruling out the vast majority of composites before a Miller-Rabin
// round is spent on it.
func isSieveSurvivor(candidate *big.Int) bool {
	for _, p := range smallPrimes {
		pb := big.NewInt(p)
		if pb.Cmp(candidate) >= 0 {
			break
		}
		if new(big.Int).Mod(candidate, pb).Sign() == 0 {
			return false
		}
	}
	return true
}
