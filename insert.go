package grovedb

// Insert adds a unique key. Returns false (and leaves the tree unchanged)
// when the key already exists.
func (t *BPlusTree) Insert(key Key, value RID) (bool, error) {
	ctx := &opContext{}
	defer ctx.drop()

	headerGuard, err := t.pool.FetchWrite(t.headerPageID)
	if err != nil {
		return false, err
	}
	ctx.headerGuard = headerGuard
	header := headerGuard.Page().AsHeader()

	if header.RootPageID() == InvalidPageID {
		// Empty tree: the first entry becomes a one-element leaf root.
		rootID, rootGuard, err := t.pool.NewPageGuarded()
		if err != nil {
			return false, err
		}
		defer rootGuard.Drop()

		leaf := rootGuard.Page().AsLeaf()
		leaf.Init(t.leafMaxSize)
		leaf.SetSize(1)
		leaf.SetAt(0, key, value)
		header.SetRootPageID(rootID)
		ctx.rootPageID = rootID
		return true, nil
	}

	ctx.rootPageID = header.RootPageID()
	rootGuard, err := t.pool.FetchWrite(ctx.rootPageID)
	if err != nil {
		return false, err
	}
	ctx.writeSet = append(ctx.writeSet, rootGuard)
	if isSafe(rootGuard.Page(), opInsert, true) {
		ctx.releaseHeader()
	}

	if err := t.findLeafWrite(key, opInsert, ctx); err != nil {
		return false, err
	}

	leafGuard := ctx.writeSet[len(ctx.writeSet)-1]
	leaf := leafGuard.Page().AsLeaf()

	idx := t.leafSearch(leaf, key)
	if idx != -1 && t.cmp(leaf.KeyAt(idx), key) == 0 {
		return false, nil
	}

	// Shift the tail right and place the new pair in sorted position.
	idx++
	leaf.IncSize(1)
	for i := leaf.Size() - 1; i > idx; i-- {
		leaf.SetAt(i, leaf.KeyAt(i-1), leaf.ValueAt(i-1))
	}
	leaf.SetAt(idx, key, value)

	if leaf.Size() < leaf.MaxSize() {
		return true, nil
	}

	// Post-insert size hit max: split. The new right leaf takes the high
	// half and slots into the forward chain after the current leaf.
	newLeafID, newLeafGuard, err := t.pool.NewPageGuarded()
	if err != nil {
		return false, err
	}
	defer newLeafGuard.Drop()

	newLeaf := newLeafGuard.Page().AsLeaf()
	newLeaf.Init(t.leafMaxSize)
	newLeaf.SetSize(leaf.Size() - leaf.MinSize())
	newLeaf.SetNextPageID(leaf.NextPageID())
	leaf.SetNextPageID(newLeafID)

	for i := leaf.MinSize(); i < leaf.Size(); i++ {
		newLeaf.SetAt(i-leaf.MinSize(), leaf.KeyAt(i), leaf.ValueAt(i))
	}
	leaf.SetSize(leaf.MinSize())

	splitKey := newLeaf.KeyAt(0)
	if err := t.insertIntoParent(splitKey, newLeafID, ctx, len(ctx.writeSet)-2); err != nil {
		return false, err
	}
	return true, nil
}

// insertIntoParent propagates a split upward: (key, newChildID) describes
// the new right sibling of the node at stack index parentIdx+1. A negative
// parentIdx means the split node was the root and a new root is created.
func (t *BPlusTree) insertIntoParent(key Key, newChildID PageID, ctx *opContext, parentIdx int) error {
	if parentIdx < 0 {
		newRootID, rootGuard, err := t.pool.NewPageGuarded()
		if err != nil {
			return err
		}
		defer rootGuard.Drop()

		root := rootGuard.Page().AsInternal()
		root.Init(t.internalMaxSize)
		root.SetSize(2)
		root.SetValueAt(0, ctx.writeSet[parentIdx+1].PageID())
		root.SetKeyAt(1, key)
		root.SetValueAt(1, newChildID)

		ctx.headerGuard.Page().AsHeader().SetRootPageID(newRootID)
		return nil
	}

	parent := ctx.writeSet[parentIdx].Page().AsInternal()

	if parent.Size() != parent.MaxSize() {
		idx := t.internalSearch(parent, key) + 1
		parent.IncSize(1)
		for i := parent.Size() - 1; i > idx; i-- {
			parent.SetKeyAt(i, parent.KeyAt(i-1))
			parent.SetValueAt(i, parent.ValueAt(i-1))
		}
		parent.SetKeyAt(idx, key)
		parent.SetValueAt(idx, newChildID)
		return nil
	}

	// Parent is full: split it too. The parent keeps minSize slots, the new
	// right internal takes maxSize+1-minSize, and right's slot-0 key is
	// lifted to the grandparent. Three cases by where the new entry lands.
	newRightID, rightGuard, err := t.pool.NewPageGuarded()
	if err != nil {
		return err
	}
	defer rightGuard.Drop()

	right := rightGuard.Page().AsInternal()
	right.Init(t.internalMaxSize)
	right.SetSize(parent.MaxSize() + 1 - parent.MinSize())

	pos := t.internalSearch(parent, key) + 1
	minSize := parent.MinSize()
	switch {
	case pos < minSize:
		// New entry lands in the left node.
		for i := minSize; i < parent.Size(); i++ {
			right.SetKeyAt(i-minSize+1, parent.KeyAt(i))
			right.SetValueAt(i-minSize+1, parent.ValueAt(i))
		}
		right.SetKeyAt(0, parent.KeyAt(minSize-1))
		right.SetValueAt(0, parent.ValueAt(minSize-1))
		for i := minSize - 1; i > pos; i-- {
			parent.SetKeyAt(i, parent.KeyAt(i-1))
			parent.SetValueAt(i, parent.ValueAt(i-1))
		}
		parent.SetKeyAt(pos, key)
		parent.SetValueAt(pos, newChildID)
	case pos == minSize:
		// New entry becomes right's slot 0; its key is the one lifted.
		for i := minSize; i < parent.Size(); i++ {
			right.SetKeyAt(i-minSize+1, parent.KeyAt(i))
			right.SetValueAt(i-minSize+1, parent.ValueAt(i))
		}
		right.SetKeyAt(0, key)
		right.SetValueAt(0, newChildID)
	default:
		// New entry lands in the right node.
		for i := minSize; i < parent.Size(); i++ {
			right.SetKeyAt(i-minSize, parent.KeyAt(i))
			right.SetValueAt(i-minSize, parent.ValueAt(i))
		}
		pos -= minSize
		for i := right.Size() - 1; i > pos; i-- {
			right.SetKeyAt(i, right.KeyAt(i-1))
			right.SetValueAt(i, right.ValueAt(i-1))
		}
		right.SetKeyAt(pos, key)
		right.SetValueAt(pos, newChildID)
	}

	parent.SetSize(minSize)
	return t.insertIntoParent(right.KeyAt(0), newRightID, ctx, parentIdx-1)
}
