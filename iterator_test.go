package grovedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectIterator(t *testing.T, it *Iterator) []int64 {
	t.Helper()

	var out []int64
	for !it.IsEnd() {
		k, v, err := it.Entry()
		require.NoError(t, err)
		assert.Equal(t, uint64(k.Int64()), v.Uint64())
		out = append(out, k.Int64())
		require.NoError(t, it.Next())
	}
	return out
}

func TestIteratorEmptyTree(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)

	it, err := tr.Begin()
	require.NoError(t, err)
	assert.True(t, it.IsEnd())
	assert.True(t, it.Equal(tr.End()))

	_, _, err = it.Entry()
	assert.ErrorIs(t, err, ErrIteratorEnd)
	assert.ErrorIs(t, it.Next(), ErrIteratorEnd)
}

func TestIteratorSingleLeaf(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	insertInt(t, tr, 1)
	insertInt(t, tr, 2)
	insertInt(t, tr, 3)

	it, err := tr.Begin()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, collectIterator(t, it))
}

func TestIteratorCrossesLeaves(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	for k := int64(1); k <= 50; k++ {
		insertInt(t, tr, k)
	}

	it, err := tr.Begin()
	require.NoError(t, err)
	got := collectIterator(t, it)
	require.Len(t, got, 50)
	for i, k := range got {
		assert.Equal(t, int64(i+1), k)
	}
}

func TestIteratorSeekExact(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	for k := int64(0); k < 40; k += 2 {
		insertInt(t, tr, k)
	}

	it, err := tr.Seek(KeyFromInt64(20))
	require.NoError(t, err)
	require.False(t, it.IsEnd())
	k, _, err := it.Entry()
	require.NoError(t, err)
	assert.Equal(t, int64(20), k.Int64())

	// Seek walks forward from the hit.
	require.NoError(t, it.Next())
	k, _, err = it.Entry()
	require.NoError(t, err)
	assert.Equal(t, int64(22), k.Int64())
}

func TestIteratorSeekMissIsEnd(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	for k := int64(0); k < 40; k += 2 {
		insertInt(t, tr, k)
	}

	// Seek is exact-or-end: a missing key does not land on the lower bound.
	it, err := tr.Seek(KeyFromInt64(21))
	require.NoError(t, err)
	assert.True(t, it.IsEnd())

	it, err = tr.Seek(KeyFromInt64(-5))
	require.NoError(t, err)
	assert.True(t, it.IsEnd())
}

func TestIteratorEquality(t *testing.T) {
	t.Parallel()

	tr := setup(t, 4, 4)
	insertInt(t, tr, 1)

	a, err := tr.Begin()
	require.NoError(t, err)
	b, err := tr.Begin()
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	require.NoError(t, a.Next())
	assert.False(t, a.Equal(b))
	assert.True(t, a.IsEnd())
	assert.True(t, a.Equal(tr.End()))
	assert.True(t, tr.End().Equal(tr.End()))
}
