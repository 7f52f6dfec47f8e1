package classgroup

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// discriminant -23 has class number 3; its non-principal class is
// represented by (2, 1, 3), giving a small, hand-checkable group to test
// composition and reduction against.
var d23 = big.NewInt(-23)

func TestIdentityIsNeutral(t *testing.T) {
	id := Identity(d23)
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	got, err := Compose(id, f)
	require.NoError(t, err)
	require.True(t, got.Equal(f), "identity*f = %+v, want %+v", got, f)
}

func TestOrderThreeClassGroup(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	cubed, err := Pow(f, big.NewInt(3))
	require.NoError(t, err)
	require.True(t, cubed.Equal(Identity(d23)), "f^3 should be identity, got %+v", cubed)

	ff, err := Compose(f, f)
	require.NoError(t, err)
	inv, err := Reduce(&Form{A: f.A, B: new(big.Int).Neg(f.B), C: f.C, D: d23})
	require.NoError(t, err)
	require.True(t, ff.Equal(inv), "f*f should equal f^-1 in an order-3 group")
}

func TestReduceIsIdempotent(t *testing.T) {
	unreduced := &Form{A: big.NewInt(6), B: big.NewInt(5), C: big.NewInt(2), D: d23}
	once, err := Reduce(unreduced)
	require.NoError(t, err)
	twice, err := Reduce(once)
	require.NoError(t, err)
	require.True(t, once.Equal(twice))
	require.True(t, once.A.Cmp(once.C) <= 0)
}

func TestSquareMatchesCompose(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)
	sq, err := Square(f)
	require.NoError(t, err)
	cp, err := Compose(f, f)
	require.NoError(t, err)
	require.True(t, sq.Equal(cp))
}

func TestRepeatedSquareMatchesManualLoop(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	cur := f
	for i := 0; i < 5; i++ {
		cur, err = Square(cur)
		require.NoError(t, err)
	}

	got, err := RepeatedSquare(f, 5)
	require.NoError(t, err)
	require.True(t, got.Equal(cur))
}

func TestPowZeroAndOne(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	zero, err := Pow(f, big.NewInt(0))
	require.NoError(t, err)
	require.True(t, zero.Equal(Identity(d23)))

	one_, err := Pow(f, big.NewInt(1))
	require.NoError(t, err)
	require.True(t, one_.Equal(f))
}

func TestSerializeRoundTrip(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	buf, err := Serialize(f, 0)
	require.NoError(t, err)
	require.Len(t, buf, 2*DefaultSize(d23))

	got, err := Deserialize(buf, d23)
	require.NoError(t, err)
	require.True(t, got.Equal(f))
}

func TestDeserializeRejectsOddLength(t *testing.T) {
	_, err := Deserialize([]byte{1, 2, 3}, d23)
	require.ErrorIs(t, err, ErrOddLength)
}

func TestIterateSquaringsMatchesRepeatedSquare(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	table, err := IterateSquarings(context.Background(), f, []int{0, 1, 3, 3, 7})
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	for _, idx := range []int{0, 1, 3, 7} {
		want, err := RepeatedSquare(f, idx)
		require.NoError(t, err)
		got, ok := table.Get(idx)
		require.True(t, ok)
		require.True(t, got.Equal(want), "mismatch at index %d", idx)
	}

	_, ok := table.Get(2)
	require.False(t, ok)
}

func TestIterateSquaringsEmptyIndices(t *testing.T) {
	f := Identity(d23)
	table, err := IterateSquarings(context.Background(), f, nil)
	require.NoError(t, err)
	require.Equal(t, 0, table.Len())
}

func TestIterateSquaringsRespectsCancellation(t *testing.T) {
	f, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = IterateSquarings(ctx, f, []int{0, 100})
	require.ErrorIs(t, err, context.Canceled)
}

func TestComposeRejectsDiscriminantMismatch(t *testing.T) {
	f1, err := NewForm(big.NewInt(2), big.NewInt(1), d23)
	require.NoError(t, err)
	other := big.NewInt(-47)
	f2, err := NewForm(big.NewInt(2), big.NewInt(1), other)
	require.NoError(t, err)

	_, err = Compose(f1, f2)
	require.ErrorIs(t, err, ErrDiscriminantMismatch)
}
