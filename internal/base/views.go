package base

import "unsafe"

// leafEntry is one key/RID slot in a leaf page.
type leafEntry struct {
	Key Key
	Val RID
}

// internalEntry is one key/child slot in an internal page.
// Slot 0's key is unused; its child covers keys below slot 1's key.
type internalEntry struct {
	Key   Key
	Child PageID
}

// HeaderPage views a page holding only the tree's root pointer.
type HeaderPage struct {
	p *Page
}

// AsHeader reinterprets the page as a header page.
func (p *Page) AsHeader() HeaderPage {
	return HeaderPage{p: p}
}

// Init marks the page as a header page with no root.
func (h HeaderPage) Init() {
	h.p.Reset()
	h.p.header().Flags = HeaderPageFlag
	h.SetRootPageID(InvalidPageID)
}

func (h HeaderPage) RootPageID() PageID {
	return *(*PageID)(unsafe.Pointer(&h.p.data[pageHeaderSize]))
}

func (h HeaderPage) SetRootPageID(id PageID) {
	*(*PageID)(unsafe.Pointer(&h.p.data[pageHeaderSize])) = id
}

// LeafPage views a page as an ordered run of key/RID pairs plus the forward
// chain link to the next leaf.
type LeafPage struct {
	p *Page
}

// AsLeaf reinterprets the page as a leaf page.
func (p *Page) AsLeaf() LeafPage {
	return LeafPage{p: p}
}

func (l LeafPage) entries() []leafEntry {
	ptr := unsafe.Pointer(&l.p.data[pageHeaderSize])
	return unsafe.Slice((*leafEntry)(ptr), LeafSlotCapacity)
}

// Init zeroes the page and marks it as an empty leaf with the given slot
// limit and no successor.
func (l LeafPage) Init(maxSize int) {
	l.p.Reset()
	h := l.p.header()
	h.Flags = LeafPageFlag
	h.MaxSize = uint16(maxSize)
	h.NextLeaf = InvalidPageID
}

func (l LeafPage) Size() int    { return l.p.Size() }
func (l LeafPage) MaxSize() int { return l.p.MaxSize() }
func (l LeafPage) MinSize() int { return l.p.MinSize() }

func (l LeafPage) SetSize(n int) {
	l.p.header().Size = uint16(n)
}

func (l LeafPage) IncSize(d int) {
	l.p.header().Size = uint16(int(l.p.header().Size) + d)
}

func (l LeafPage) KeyAt(i int) Key {
	return l.entries()[i].Key
}

func (l LeafPage) ValueAt(i int) RID {
	return l.entries()[i].Val
}

func (l LeafPage) SetAt(i int, k Key, v RID) {
	l.entries()[i] = leafEntry{Key: k, Val: v}
}

func (l LeafPage) NextPageID() PageID {
	return l.p.header().NextLeaf
}

func (l LeafPage) SetNextPageID(id PageID) {
	l.p.header().NextLeaf = id
}

// InternalPage views a page as an ordered run of separator-key/child slots.
type InternalPage struct {
	p *Page
}

// AsInternal reinterprets the page as an internal page.
func (p *Page) AsInternal() InternalPage {
	return InternalPage{p: p}
}

func (n InternalPage) entries() []internalEntry {
	ptr := unsafe.Pointer(&n.p.data[pageHeaderSize])
	return unsafe.Slice((*internalEntry)(ptr), InternalSlotCapacity)
}

// Init zeroes the page and marks it as an empty internal page with the given
// slot limit.
func (n InternalPage) Init(maxSize int) {
	n.p.Reset()
	h := n.p.header()
	h.Flags = InternalPageFlag
	h.MaxSize = uint16(maxSize)
	h.NextLeaf = InvalidPageID
}

func (n InternalPage) Size() int    { return n.p.Size() }
func (n InternalPage) MaxSize() int { return n.p.MaxSize() }
func (n InternalPage) MinSize() int { return n.p.MinSize() }

func (n InternalPage) SetSize(sz int) {
	n.p.header().Size = uint16(sz)
}

func (n InternalPage) IncSize(d int) {
	n.p.header().Size = uint16(int(n.p.header().Size) + d)
}

func (n InternalPage) KeyAt(i int) Key {
	return n.entries()[i].Key
}

func (n InternalPage) SetKeyAt(i int, k Key) {
	n.entries()[i].Key = k
}

func (n InternalPage) ValueAt(i int) PageID {
	return n.entries()[i].Child
}

func (n InternalPage) SetValueAt(i int, id PageID) {
	n.entries()[i].Child = id
}

// ValueIndex returns the slot whose child equals id, or -1 if absent. Used
// during underflow handling, the one place a child-to-slot reverse lookup is
// needed.
func (n InternalPage) ValueIndex(id PageID) int {
	for i := 0; i < n.Size(); i++ {
		if n.entries()[i].Child == id {
			return i
		}
	}
	return -1
}
