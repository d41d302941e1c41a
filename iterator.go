package grovedb

import "grovedb/internal/buffer"

// Iterator walks leaf entries in ascending key order along the forward leaf
// chain. It holds no latch between calls: each access latches the current
// leaf, reads, and releases. The end iterator is (InvalidPageID, -1).
type Iterator struct {
	pool   *buffer.Pool
	pageID PageID
	slot   int
}

// End returns the past-the-last iterator. It compares equal only to other
// end iterators.
func (t *BPlusTree) End() *Iterator {
	return &Iterator{pool: t.pool, pageID: InvalidPageID, slot: -1}
}

// Begin positions at the first entry (leftmost leaf, slot 0), or End for an
// empty tree.
func (t *BPlusTree) Begin() (*Iterator, error) {
	headerGuard, err := t.pool.FetchRead(t.headerPageID)
	if err != nil {
		return nil, err
	}

	rootID := headerGuard.Page().AsHeader().RootPageID()
	if rootID == InvalidPageID {
		headerGuard.Drop()
		return t.End(), nil
	}

	guard, err := t.pool.FetchRead(rootID)
	headerGuard.Drop()
	if err != nil {
		return nil, err
	}

	// Child 0 all the way down.
	for !guard.Page().IsLeaf() {
		childID := guard.Page().AsInternal().ValueAt(0)
		child, err := t.pool.FetchRead(childID)
		guard.Drop()
		if err != nil {
			return nil, err
		}
		guard = child
	}

	it := &Iterator{pool: t.pool, pageID: guard.PageID(), slot: 0}
	guard.Drop()
	return it, nil
}

// Seek positions at key if it is present, or End otherwise. Seek does not
// fall to the lower bound on a miss; exact-or-end is the contract.
func (t *BPlusTree) Seek(key Key) (*Iterator, error) {
	headerGuard, err := t.pool.FetchRead(t.headerPageID)
	if err != nil {
		return nil, err
	}

	rootID := headerGuard.Page().AsHeader().RootPageID()
	if rootID == InvalidPageID {
		headerGuard.Drop()
		return t.End(), nil
	}

	guard, err := t.pool.FetchRead(rootID)
	headerGuard.Drop()
	if err != nil {
		return nil, err
	}

	for !guard.Page().IsLeaf() {
		node := guard.Page().AsInternal()
		childID := node.ValueAt(t.internalSearch(node, key))
		child, err := t.pool.FetchRead(childID)
		guard.Drop()
		if err != nil {
			return nil, err
		}
		guard = child
	}

	leaf := guard.Page().AsLeaf()
	slot := t.leafSearch(leaf, key)
	if slot == -1 || t.cmp(leaf.KeyAt(slot), key) != 0 {
		guard.Drop()
		return t.End(), nil
	}

	it := &Iterator{pool: t.pool, pageID: guard.PageID(), slot: slot}
	guard.Drop()
	return it, nil
}

// IsEnd reports whether the iterator is past the last entry.
func (it *Iterator) IsEnd() bool {
	return it.pageID == InvalidPageID
}

// Equal reports whether two iterators reference the same position.
func (it *Iterator) Equal(other *Iterator) bool {
	return it.pageID == other.pageID && it.slot == other.slot
}

// Entry reads the current key and record identifier.
func (it *Iterator) Entry() (Key, RID, error) {
	if it.IsEnd() {
		return Key{}, RID{}, ErrIteratorEnd
	}
	guard, err := it.pool.FetchRead(it.pageID)
	if err != nil {
		return Key{}, RID{}, err
	}
	defer guard.Drop()

	leaf := guard.Page().AsLeaf()
	return leaf.KeyAt(it.slot), leaf.ValueAt(it.slot), nil
}

// Next advances to the following entry, crossing to the next leaf through
// the chain link when the current one is exhausted.
func (it *Iterator) Next() error {
	if it.IsEnd() {
		return ErrIteratorEnd
	}
	guard, err := it.pool.FetchRead(it.pageID)
	if err != nil {
		return err
	}
	defer guard.Drop()

	leaf := guard.Page().AsLeaf()
	it.slot++
	if it.slot < leaf.Size() {
		return nil
	}

	it.pageID = leaf.NextPageID()
	if it.pageID == InvalidPageID {
		it.slot = -1
		return nil
	}
	it.slot = 0
	return nil
}
