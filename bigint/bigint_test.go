package bigint

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestU64ToBytesExamples(t *testing.T) {
	cases := []struct {
		n    uint64
		want [8]byte
	}{
		{0, [8]byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{1, [8]byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{0xFF, [8]byte{0, 0, 0, 0, 0, 0, 0, 0xFF}},
		{0x100, [8]byte{0, 0, 0, 0, 0, 0, 1, 0}},
		{0xFFFFFFFFFFFFFFFF, [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, U64ToBytes(c.n))
	}
}

func TestU64ToBytesUnique(t *testing.T) {
	seen := make(map[[8]byte]uint64)
	for n := uint64(0); n < 10000; n++ {
		b := U64ToBytes(n)
		if prev, ok := seen[b]; ok {
			t.Fatalf("collision between %d and %d", prev, n)
		}
		seen[b] = n
	}
}

func TestIntToBytesRoundTrip(t *testing.T) {
	cases := []struct {
		v     int64
		width int
	}{
		{0, 1}, {1, 1}, {-1, 1}, {127, 1}, {-128, 1},
		{32767, 2}, {-32768, 2}, {-1, 2}, {256, 2},
	}
	for _, c := range cases {
		v := big.NewInt(c.v)
		enc, err := IntToBytes(v, c.width)
		require.NoError(t, err)
		require.Equal(t, 0, v.Cmp(BytesToInt(enc)), "round trip of %d in %d bytes", c.v, c.width)
	}
}

func TestIntToBytesRejectsOverflow(t *testing.T) {
	_, err := IntToBytes(big.NewInt(32768), 2)
	require.ErrorIs(t, err, ErrWidthTooSmall)

	_, err = IntToBytes(big.NewInt(-32769), 2)
	require.ErrorIs(t, err, ErrWidthTooSmall)
}

func TestBytesToIntEmpty(t *testing.T) {
	require.Equal(t, big.NewInt(0), BytesToInt(nil))
}

func TestModInverse(t *testing.T) {
	inv, err := ModInverse(big.NewInt(3), big.NewInt(11))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(4), inv) // 3*4 = 12 = 1 mod 11

	_, err = ModInverse(big.NewInt(2), big.NewInt(4))
	require.Error(t, err)
}

func TestExtGCD(t *testing.T) {
	g, x, y := ExtGCD(big.NewInt(240), big.NewInt(46))
	require.Equal(t, big.NewInt(2), g)
	check := new(big.Int).Add(
		new(big.Int).Mul(big.NewInt(240), x),
		new(big.Int).Mul(big.NewInt(46), y),
	)
	require.Equal(t, g, check)
}

func TestIsProbablePrime(t *testing.T) {
	require.False(t, IsProbablePrime(big.NewInt(-5), 2))
	require.False(t, IsProbablePrime(big.NewInt(0), 2))
	require.False(t, IsProbablePrime(big.NewInt(1), 2))
	require.True(t, IsProbablePrime(big.NewInt(2), 2))
	require.True(t, IsProbablePrime(big.NewInt(3), 2))
	require.False(t, IsProbablePrime(big.NewInt(4), 2))
	require.True(t, IsProbablePrime(big.NewInt(97), 5))
	require.False(t, IsProbablePrime(big.NewInt(91), 5)) // 7*13

	d256 := new(big.Int).Neg(bigD256())
	require.True(t, IsProbablePrime(d256, 10))
}

func TestBitLen(t *testing.T) {
	require.Equal(t, 0, BitLen(big.NewInt(0)))
	require.Equal(t, 1, BitLen(big.NewInt(-1)))
	require.Equal(t, 8, BitLen(big.NewInt(255)))
}

func bigD256() *big.Int {
	d, _ := new(big.Int).SetString("-94244082954491557865740412536462075406760295174154720908408968004709609548271", 10)
	return d
}

func TestIntToBytesRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("IntToBytes/BytesToInt round-trips for any value in range", prop.ForAll(
		func(width int, raw int64) bool {
			mod := int64(1) << uint(8*width)
			v := big.NewInt(raw % (mod / 2))
			enc, err := IntToBytes(v, width)
			if err != nil {
				return false
			}
			return BytesToInt(enc).Cmp(v) == 0
		},
		gen.IntRange(1, 7),
		gen.Int64Range(-1<<40, 1<<40),
	))

	properties.TestingRun(t)
}
