package grovedb

import "grovedb/internal/base"

// leafSearch returns the largest index i with KeyAt(i) <= key, or -1 when
// key sorts before every entry (or the leaf is empty). Callers distinguish
// an exact match with one extra comparison at i.
func (t *BPlusTree) leafSearch(leaf base.LeafPage, key Key) int {
	l, r := 0, leaf.Size()-1
	for l < r {
		mid := (l + r + 1) >> 1
		if t.cmp(leaf.KeyAt(mid), key) != 1 {
			l = mid
		} else {
			r = mid - 1
		}
	}

	if r >= 0 && t.cmp(leaf.KeyAt(r), key) == 1 {
		r = -1
	}
	return r
}

// internalSearch returns the slot of the child to descend into for key: the
// largest i >= 1 with KeyAt(i) <= key, or 0 when key sorts before KeyAt(1).
// Degenerate internals (size < 2) yield 0; well-formed non-root internals
// always have size >= 2.
func (t *BPlusTree) internalSearch(node base.InternalPage, key Key) int {
	l, r := 1, node.Size()-1
	for l < r {
		mid := (l + r + 1) >> 1
		if t.cmp(node.KeyAt(mid), key) != 1 {
			l = mid
		} else {
			r = mid - 1
		}
	}

	if r == -1 || t.cmp(node.KeyAt(r), key) == 1 {
		r = 0
	}
	return r
}
