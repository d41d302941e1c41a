package buffer

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grovedb/internal/base"
	"grovedb/internal/storage"
)

func newTestPool(t *testing.T, size int) (*Pool, *storage.DiskManager) {
	t.Helper()
	dm, err := storage.NewDiskManager(filepath.Join(t.TempDir(), "pool.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })

	pool, err := NewPool(dm, size, nil)
	require.NoError(t, err)
	return pool, dm
}

func TestPoolNewPageGuarded(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 16)

	id, guard, err := pool.NewPageGuarded()
	require.NoError(t, err)
	assert.Equal(t, base.PageID(1), id)
	assert.Equal(t, id, guard.PageID())

	// Fresh pages come back zeroed.
	for _, b := range guard.Page().Bytes() {
		require.Zero(t, b)
	}
	guard.Drop()
}

func TestPoolWriteThenRead(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 16)

	id, wg, err := pool.NewPageGuarded()
	require.NoError(t, err)
	leaf := wg.Page().AsLeaf()
	leaf.Init(4)
	leaf.SetSize(1)
	leaf.SetAt(0, base.KeyFromInt64(1), base.RIDFromUint64(1))
	wg.Drop()

	rg, err := pool.FetchRead(id)
	require.NoError(t, err)
	defer rg.Drop()
	assert.True(t, rg.Page().IsLeaf())
	assert.Equal(t, 1, rg.Page().Size())
}

func TestPoolEvictionWriteBack(t *testing.T) {
	t.Parallel()

	// Pool much smaller than the working set: every page cycles through
	// eviction with write-back and must survive.
	pool, _ := newTestPool(t, 8)

	const n = 40
	ids := make([]base.PageID, 0, n)
	for i := 0; i < n; i++ {
		id, g, err := pool.NewPageGuarded()
		require.NoError(t, err)
		leaf := g.Page().AsLeaf()
		leaf.Init(8)
		leaf.SetSize(1)
		leaf.SetAt(0, base.KeyFromInt64(int64(i)), base.RIDFromUint64(uint64(i)))
		g.Drop()
		ids = append(ids, id)
	}

	for i, id := range ids {
		g, err := pool.FetchRead(id)
		require.NoError(t, err)
		assert.Equal(t, int64(i), g.Page().AsLeaf().KeyAt(0).Int64())
		g.Drop()
	}
}

func TestPoolExhaustion(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, MinPoolSize)

	guards := make([]*BasicGuard, 0, MinPoolSize)
	for i := 0; i < MinPoolSize; i++ {
		id, wg, err := pool.NewPageGuarded()
		require.NoError(t, err)
		wg.Drop()
		g, err := pool.FetchBasic(id)
		require.NoError(t, err)
		guards = append(guards, g)
	}

	// Every frame pinned: the next fault has no victim.
	_, _, err := pool.NewPageGuarded()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	guards[0].Drop()
	_, wg, err := pool.NewPageGuarded()
	require.NoError(t, err)
	wg.Drop()

	for _, g := range guards[1:] {
		g.Drop()
	}
}

func TestPoolDeletePage(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 16)

	id, wg, err := pool.NewPageGuarded()
	require.NoError(t, err)

	// Pinned pages refuse deletion.
	assert.ErrorIs(t, pool.DeletePage(id), ErrPagePinned)
	wg.Drop()

	require.NoError(t, pool.DeletePage(id))

	// The freed page id is handed out again.
	id2, wg2, err := pool.NewPageGuarded()
	require.NoError(t, err)
	wg2.Drop()
	assert.Equal(t, id, id2)
}

func TestGuardDropIdempotent(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 16)

	id, wg, err := pool.NewPageGuarded()
	require.NoError(t, err)
	wg.Drop()
	wg.Drop()

	rg, err := pool.FetchRead(id)
	require.NoError(t, err)
	rg.Drop()
	rg.Drop()

	bg, err := pool.FetchBasic(id)
	require.NoError(t, err)
	bg.Drop()
	bg.Drop()

	// The page is fully unpinned; a write latch is immediately available.
	wg2, err := pool.FetchWrite(id)
	require.NoError(t, err)
	wg2.Drop()
}

func TestPoolFlushAllPersists(t *testing.T) {
	t.Parallel()

	pool, dm := newTestPool(t, 16)

	id, wg, err := pool.NewPageGuarded()
	require.NoError(t, err)
	leaf := wg.Page().AsLeaf()
	leaf.Init(4)
	leaf.SetSize(1)
	leaf.SetAt(0, base.KeyFromInt64(99), base.RIDFromUint64(99))
	wg.Drop()

	require.NoError(t, pool.FlushAll())

	var p base.Page
	require.NoError(t, dm.ReadPage(id, &p))
	assert.Equal(t, int64(99), p.AsLeaf().KeyAt(0).Int64())
}

func TestPoolConcurrentReaders(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 16)

	id, wg, err := pool.NewPageGuarded()
	require.NoError(t, err)
	leaf := wg.Page().AsLeaf()
	leaf.Init(4)
	leaf.SetSize(1)
	leaf.SetAt(0, base.KeyFromInt64(5), base.RIDFromUint64(5))
	wg.Drop()

	var wgroup sync.WaitGroup
	for i := 0; i < 16; i++ {
		wgroup.Add(1)
		go func() {
			defer wgroup.Done()
			for j := 0; j < 200; j++ {
				g, err := pool.FetchRead(id)
				assert.NoError(t, err)
				assert.Equal(t, int64(5), g.Page().AsLeaf().KeyAt(0).Int64())
				g.Drop()
			}
		}()
	}
	wgroup.Wait()
}
