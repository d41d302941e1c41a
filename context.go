package grovedb

import "grovedb/internal/buffer"

// opContext carries per-operation descent state: the header guard (mutators
// only, until the root is known safe), the root id observed at descent start,
// and the ordered stack of held page guards. The stack is the only place
// ancestor information is kept; pages never store parent pointers.
type opContext struct {
	headerGuard *buffer.WriteGuard
	rootPageID  PageID
	readSet     []*buffer.ReadGuard
	writeSet    []*buffer.WriteGuard
}

func (c *opContext) isRootPage(id PageID) bool {
	return id == c.rootPageID
}

// releaseHeader drops the header guard once the root is known safe for the
// operation.
func (c *opContext) releaseHeader() {
	if c.headerGuard != nil {
		c.headerGuard.Drop()
		c.headerGuard = nil
	}
}

// releaseAncestors drops every held write guard except the newest. Called
// when the newly latched child is safe: no structural change can propagate
// above it. Release order is top-down.
func (c *opContext) releaseAncestors() {
	n := len(c.writeSet)
	for i := 0; i < n-1; i++ {
		c.writeSet[i].Drop()
	}
	c.writeSet = append(c.writeSet[:0], c.writeSet[n-1])
}

// drop releases everything still held, top-down. Guards drop idempotently,
// so drop is safe on every exit path.
func (c *opContext) drop() {
	c.releaseHeader()
	for _, g := range c.readSet {
		g.Drop()
	}
	c.readSet = c.readSet[:0]
	for _, g := range c.writeSet {
		g.Drop()
	}
	c.writeSet = c.writeSet[:0]
}
