package buffer

import "grovedb/internal/base"

// Guards are scoped tokens for a fetched page. Each guard is owned by exactly
// one operation and must not be copied or shared; Drop releases the latch and
// pin deterministically and is safe to call more than once.

// ReadGuard holds a pin and the shared latch on a page.
type ReadGuard struct {
	pool     *Pool
	f        *frame
	released bool
}

func (g *ReadGuard) PageID() base.PageID {
	return g.f.id
}

func (g *ReadGuard) Page() *base.Page {
	return &g.f.page
}

// Drop releases the shared latch and unpins the page.
func (g *ReadGuard) Drop() {
	if g.released {
		return
	}
	g.released = true
	g.f.latch.RUnlock()
	g.pool.unpin(g.f, false)
}

// WriteGuard holds a pin and the exclusive latch on a page. The page is
// marked dirty when the guard drops.
type WriteGuard struct {
	pool     *Pool
	f        *frame
	released bool
}

func (g *WriteGuard) PageID() base.PageID {
	return g.f.id
}

func (g *WriteGuard) Page() *base.Page {
	return &g.f.page
}

// Drop releases the exclusive latch, marks the page dirty, and unpins it.
func (g *WriteGuard) Drop() {
	if g.released {
		return
	}
	g.released = true
	g.f.latch.Unlock()
	g.pool.unpin(g.f, true)
}

// BasicGuard holds only a pin, no latch. Debug and visualization use.
type BasicGuard struct {
	pool     *Pool
	f        *frame
	released bool
}

func (g *BasicGuard) PageID() base.PageID {
	return g.f.id
}

func (g *BasicGuard) Page() *base.Page {
	return &g.f.page
}

// Drop unpins the page.
func (g *BasicGuard) Drop() {
	if g.released {
		return
	}
	g.released = true
	g.pool.unpin(g.f, false)
}
