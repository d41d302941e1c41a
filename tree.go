package grovedb

import (
	"fmt"

	"grovedb/internal/base"
	"grovedb/internal/buffer"
)

// BPlusTree is a concurrent, disk-resident B+Tree index over a page buffer
// pool. It maps fixed-width keys to record identifiers, enforcing key
// uniqueness. All operations are safe under concurrent use from multiple
// goroutines; correctness relies on latch crabbing over the pool's per-page
// latches.
type BPlusTree struct {
	name            string
	pool            *buffer.Pool
	cmp             Comparator
	leafMaxSize     int
	internalMaxSize int
	headerPageID    PageID
	log             Logger
}

// operation classifies a descent for the safety check.
type operation int

const (
	opSearch operation = iota
	opInsert
	opRemove
)

// New initializes a tree over a pre-allocated header page and resets it to
// empty, so calling it on the header page of an existing tree discards that
// tree's root; no constructor reopens a stored tree. Size bounds outside
// [3, slot capacity] are programmer errors and panic.
func New(name string, headerPageID PageID, pool *buffer.Pool, cmp Comparator,
	leafMaxSize, internalMaxSize int, opts ...TreeOption) (*BPlusTree, error) {

	if leafMaxSize < 3 || leafMaxSize > base.LeafSlotCapacity {
		panic(fmt.Sprintf("grovedb: leaf max size %d out of range [3, %d]",
			leafMaxSize, base.LeafSlotCapacity))
	}
	if internalMaxSize < 3 || internalMaxSize > base.InternalSlotCapacity {
		panic(fmt.Sprintf("grovedb: internal max size %d out of range [3, %d]",
			internalMaxSize, base.InternalSlotCapacity))
	}
	if cmp == nil {
		panic("grovedb: nil comparator")
	}

	options := defaultTreeOptions()
	for _, opt := range opts {
		opt(&options)
	}

	guard, err := pool.FetchWrite(headerPageID)
	if err != nil {
		return nil, fmt.Errorf("init header page %d: %w", headerPageID, err)
	}
	guard.Page().AsHeader().Init()
	guard.Drop()

	return &BPlusTree{
		name:            name,
		pool:            pool,
		cmp:             cmp,
		leafMaxSize:     leafMaxSize,
		internalMaxSize: internalMaxSize,
		headerPageID:    headerPageID,
		log:             options.logger,
	}, nil
}

// IsEmpty reports whether the tree holds no entries.
func (t *BPlusTree) IsEmpty() (bool, error) {
	guard, err := t.pool.FetchRead(t.headerPageID)
	if err != nil {
		return false, err
	}
	defer guard.Drop()
	return guard.Page().AsHeader().RootPageID() == InvalidPageID, nil
}

// RootPageID returns the current root page id. Observational only.
func (t *BPlusTree) RootPageID() (PageID, error) {
	guard, err := t.pool.FetchRead(t.headerPageID)
	if err != nil {
		return InvalidPageID, err
	}
	defer guard.Drop()
	return guard.Page().AsHeader().RootPageID(), nil
}

// Get looks up key and returns its record identifier. The second result is
// false when the key is absent.
func (t *BPlusTree) Get(key Key) (RID, bool, error) {
	ctx := &opContext{}
	defer ctx.drop()

	headerGuard, err := t.pool.FetchRead(t.headerPageID)
	if err != nil {
		return RID{}, false, err
	}
	defer headerGuard.Drop()

	rootID := headerGuard.Page().AsHeader().RootPageID()
	if rootID == InvalidPageID {
		return RID{}, false, nil
	}
	ctx.rootPageID = rootID

	guard, err := t.pool.FetchRead(rootID)
	if err != nil {
		return RID{}, false, err
	}
	ctx.readSet = append(ctx.readSet, guard)

	if err := t.findLeafRead(key, ctx); err != nil {
		return RID{}, false, err
	}

	leaf := ctx.readSet[len(ctx.readSet)-1].Page().AsLeaf()
	idx := t.leafSearch(leaf, key)
	if idx == -1 || t.cmp(leaf.KeyAt(idx), key) != 0 {
		return RID{}, false, nil
	}
	return leaf.ValueAt(idx), true, nil
}

// findLeafRead descends from the latched root to the leaf covering key,
// pushing shared latches. Ancestors never mutate under a read descent, so
// retaining them is correct; they all release together at drop.
func (t *BPlusTree) findLeafRead(key Key, ctx *opContext) error {
	page := ctx.readSet[len(ctx.readSet)-1].Page()
	for !page.IsLeaf() {
		node := page.AsInternal()
		childID := node.ValueAt(t.internalSearch(node, key))
		guard, err := t.pool.FetchRead(childID)
		if err != nil {
			return err
		}
		ctx.readSet = append(ctx.readSet, guard)
		page = guard.Page()
	}
	return nil
}

// findLeafWrite descends from the latched root to the leaf covering key
// under the crabbing rule: each child is latched exclusively, and once a
// child is safe for op, every ancestor latch is released.
func (t *BPlusTree) findLeafWrite(key Key, op operation, ctx *opContext) error {
	page := ctx.writeSet[len(ctx.writeSet)-1].Page()
	for !page.IsLeaf() {
		node := page.AsInternal()
		childID := node.ValueAt(t.internalSearch(node, key))
		guard, err := t.pool.FetchWrite(childID)
		if err != nil {
			return err
		}
		ctx.writeSet = append(ctx.writeSet, guard)
		if isSafe(guard.Page(), op, false) {
			ctx.releaseAncestors()
		}
		page = guard.Page()
	}
	return nil
}

// isSafe reports whether the pending operation cannot propagate structural
// change above this page. Insert on a leaf is safe one entry shy of max (the
// split trigger is post-insert size == max); remove on a root tolerates the
// root-only size bounds.
func isSafe(p *base.Page, op operation, isRoot bool) bool {
	switch op {
	case opSearch:
		return true
	case opInsert:
		if p.IsLeaf() {
			return p.Size()+1 < p.MaxSize()
		}
		return p.Size() < p.MaxSize()
	case opRemove:
		if isRoot {
			if p.IsLeaf() {
				return p.Size() > 1
			}
			return p.Size() > 2
		}
		return p.Size() > p.MinSize()
	}
	return false
}
