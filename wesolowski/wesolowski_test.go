package wesolowski

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

var testD = big.NewInt(-23)
var testSizeBits = 8

func TestCheckDifficulty(t *testing.T) {
	require.ErrorIs(t, CheckDifficulty(0), ErrDifficultyTooSmall)
	require.NoError(t, CheckDifficulty(1))
}

func TestApproximateParametersAreSane(t *testing.T) {
	L, k, _ := ApproximateParameters(256)
	require.GreaterOrEqual(t, L, 1)
	require.GreaterOrEqual(t, k, 1)
}

func TestSolveVerifyRoundTrip(t *testing.T) {
	proof, err := Solve(context.Background(), testD, 256, testSizeBits)
	require.NoError(t, err)
	require.Len(t, proof, 4*((testSizeBits+16)>>4))

	err = Verify(testD, 256, testSizeBits, proof)
	require.NoError(t, err)
}

func TestSolveIsDeterministic(t *testing.T) {
	p1, err := Solve(context.Background(), testD, 256, testSizeBits)
	require.NoError(t, err)
	p2, err := Solve(context.Background(), testD, 256, testSizeBits)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	proof, err := Solve(context.Background(), testD, 256, testSizeBits)
	require.NoError(t, err)

	tampered := append([]byte(nil), proof...)
	tampered[len(tampered)-1] ^= 0xFF

	err = Verify(testD, 256, testSizeBits, tampered)
	require.Error(t, err)
}

func TestVerifyRejectsWrongLength(t *testing.T) {
	err := Verify(testD, 256, testSizeBits, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrMalformedProof)
}

func TestHashPrimeReturnsProbablePrime(t *testing.T) {
	p := HashPrime([]byte("a"), []byte("b"))
	require.True(t, p.ProbablyPrime(20))
}

func TestSolveRejectsZeroDifficulty(t *testing.T) {
	_, err := Solve(context.Background(), testD, 0, testSizeBits)
	require.ErrorIs(t, err, ErrDifficultyTooSmall)
}

func TestSolveRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Solve(ctx, testD, 256, testSizeBits)
	require.Error(t, err)
}
