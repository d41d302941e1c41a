package grovedb

// Remove deletes key. Absent keys are a no-op. Underfull pages rebalance
// with a sibling (borrow or merge), propagating upward; a root internal
// collapsing to one child hands the root to that child.
func (t *BPlusTree) Remove(key Key) error {
	ctx := &opContext{}
	defer ctx.drop()

	headerGuard, err := t.pool.FetchWrite(t.headerPageID)
	if err != nil {
		return err
	}
	ctx.headerGuard = headerGuard
	header := headerGuard.Page().AsHeader()
	if header.RootPageID() == InvalidPageID {
		return nil
	}

	ctx.rootPageID = header.RootPageID()
	rootGuard, err := t.pool.FetchWrite(ctx.rootPageID)
	if err != nil {
		return err
	}
	ctx.writeSet = append(ctx.writeSet, rootGuard)
	if isSafe(rootGuard.Page(), opRemove, true) {
		ctx.releaseHeader()
	}

	if err := t.findLeafWrite(key, opRemove, ctx); err != nil {
		return err
	}

	leafGuard := ctx.writeSet[len(ctx.writeSet)-1]
	leaf := leafGuard.Page().AsLeaf()

	pos := t.leafSearch(leaf, key)
	if pos == -1 || t.cmp(leaf.KeyAt(pos), key) != 0 {
		return nil
	}

	for i := pos + 1; i < leaf.Size(); i++ {
		leaf.SetAt(i-1, leaf.KeyAt(i), leaf.ValueAt(i))
	}
	leaf.IncSize(-1)

	if leaf.Size() >= leaf.MinSize() {
		return nil
	}

	// Underflow.
	if ctx.isRootPage(leafGuard.PageID()) {
		// A root leaf has no fill bound; only a drained tree resets the
		// header. The header guard is still held here: a root leaf that
		// could drain was not remove-safe.
		if leaf.Size() == 0 {
			ctx.headerGuard.Page().AsHeader().SetRootPageID(InvalidPageID)
		}
		return nil
	}

	parent := ctx.writeSet[len(ctx.writeSet)-2].Page().AsInternal()
	idx := t.internalSearch(parent, key)

	if idx < parent.Size()-1 {
		// Rebalance with the right sibling. Sibling latch follows the
		// child latch; the parent latch is already held from the descent.
		rightGuard, err := t.pool.FetchWrite(parent.ValueAt(idx + 1))
		if err != nil {
			return err
		}
		defer rightGuard.Drop()
		right := rightGuard.Page().AsLeaf()

		if leaf.Size()+right.Size() < leaf.MaxSize() {
			// Merge right into current and unlink it from the chain.
			s := leaf.Size()
			leaf.SetSize(s + right.Size())
			for i := 0; i < right.Size(); i++ {
				leaf.SetAt(i+s, right.KeyAt(i), right.ValueAt(i))
			}
			leaf.SetNextPageID(right.NextPageID())
			return t.removeFromParent(idx+1, ctx, len(ctx.writeSet)-2)
		}

		// Borrow right's first entry.
		leaf.IncSize(1)
		leaf.SetAt(leaf.Size()-1, right.KeyAt(0), right.ValueAt(0))
		for i := 0; i < right.Size()-1; i++ {
			right.SetAt(i, right.KeyAt(i+1), right.ValueAt(i+1))
		}
		right.IncSize(-1)
		parent.SetKeyAt(idx+1, right.KeyAt(0))
		return nil
	}

	// No right sibling: rebalance with the left one.
	leftGuard, err := t.pool.FetchWrite(parent.ValueAt(idx - 1))
	if err != nil {
		return err
	}
	defer leftGuard.Drop()
	left := leftGuard.Page().AsLeaf()

	if left.Size()+leaf.Size() < left.MaxSize() {
		// Merge current into left.
		s := left.Size()
		left.SetSize(s + leaf.Size())
		for i := 0; i < leaf.Size(); i++ {
			left.SetAt(i+s, leaf.KeyAt(i), leaf.ValueAt(i))
		}
		left.SetNextPageID(leaf.NextPageID())
		return t.removeFromParent(idx, ctx, len(ctx.writeSet)-2)
	}

	// Borrow left's last entry.
	leaf.IncSize(1)
	for i := leaf.Size() - 1; i >= 1; i-- {
		leaf.SetAt(i, leaf.KeyAt(i-1), leaf.ValueAt(i-1))
	}
	leaf.SetAt(0, left.KeyAt(left.Size()-1), left.ValueAt(left.Size()-1))
	left.IncSize(-1)
	parent.SetKeyAt(idx, leaf.KeyAt(0))
	return nil
}

// removeFromParent deletes slot valueIndex from the internal page at stack
// index idx, then rebalances that page if it underflowed. Merges recurse
// into the grandparent; a root left with a single child collapses.
func (t *BPlusTree) removeFromParent(valueIndex int, ctx *opContext, idx int) error {
	guard := ctx.writeSet[idx]
	node := guard.Page().AsInternal()

	for i := valueIndex + 1; i < node.Size(); i++ {
		node.SetKeyAt(i-1, node.KeyAt(i))
		node.SetValueAt(i-1, node.ValueAt(i))
	}
	node.IncSize(-1)

	if node.Size() >= node.MinSize() {
		return nil
	}

	if ctx.isRootPage(guard.PageID()) {
		if node.Size() == 1 {
			// Root collapse: the single remaining child becomes the root.
			ctx.headerGuard.Page().AsHeader().SetRootPageID(node.ValueAt(0))
		}
		return nil
	}

	parent := ctx.writeSet[idx-1].Page().AsInternal()
	pos := parent.ValueIndex(guard.PageID())

	if pos < parent.Size()-1 {
		rightGuard, err := t.pool.FetchWrite(parent.ValueAt(pos + 1))
		if err != nil {
			return err
		}
		defer rightGuard.Drop()
		right := rightGuard.Page().AsInternal()

		if node.Size()+right.Size() <= node.MaxSize() {
			s := node.Size()
			node.SetSize(s + right.Size())
			for i := 0; i < right.Size(); i++ {
				node.SetKeyAt(i+s, right.KeyAt(i))
				node.SetValueAt(i+s, right.ValueAt(i))
			}
			return t.removeFromParent(pos+1, ctx, idx-1)
		}

		node.IncSize(1)
		node.SetKeyAt(node.Size()-1, right.KeyAt(0))
		node.SetValueAt(node.Size()-1, right.ValueAt(0))
		for i := 0; i < right.Size()-1; i++ {
			right.SetKeyAt(i, right.KeyAt(i+1))
			right.SetValueAt(i, right.ValueAt(i+1))
		}
		right.IncSize(-1)
		parent.SetKeyAt(pos+1, right.KeyAt(0))
		return nil
	}

	leftGuard, err := t.pool.FetchWrite(parent.ValueAt(pos - 1))
	if err != nil {
		return err
	}
	defer leftGuard.Drop()
	left := leftGuard.Page().AsInternal()

	if left.Size()+node.Size() <= left.MaxSize() {
		s := left.Size()
		left.SetSize(s + node.Size())
		for i := 0; i < node.Size(); i++ {
			left.SetKeyAt(i+s, node.KeyAt(i))
			left.SetValueAt(i+s, node.ValueAt(i))
		}
		return t.removeFromParent(pos, ctx, idx-1)
	}

	node.IncSize(1)
	for i := node.Size() - 1; i >= 1; i-- {
		node.SetKeyAt(i, node.KeyAt(i-1))
		node.SetValueAt(i, node.ValueAt(i-1))
	}
	node.SetKeyAt(0, left.KeyAt(left.Size()-1))
	node.SetValueAt(0, left.ValueAt(left.Size()-1))
	left.IncSize(-1)
	parent.SetKeyAt(pos, node.KeyAt(0))
	return nil
}
