package base

import "unsafe"

const (
	PageSize = 4096

	LeafPageFlag     uint16 = 0x01
	InternalPageFlag uint16 = 0x02
	HeaderPageFlag   uint16 = 0x04

	pageHeaderSize    = 16 // Flags(2) + Size(2) + MaxSize(2) + Reserved(2) + NextLeaf(8)
	leafEntrySize     = 24 // Key(8) + RID(16)
	internalEntrySize = 16 // Key(8) + ChildID(8)

	// LeafSlotCapacity is the number of key/RID slots that fit in one page.
	LeafSlotCapacity = (PageSize - pageHeaderSize) / leafEntrySize

	// InternalSlotCapacity is the number of key/child slots that fit in one page.
	InternalSlotCapacity = (PageSize - pageHeaderSize) / internalEntrySize
)

// PageID identifies a page in the backing file.
type PageID uint64

// InvalidPageID marks an absent page reference (empty tree root, leaf chain
// tail, iterator end).
const InvalidPageID = ^PageID(0)

// Page is a raw fixed-size page (4096 bytes).
//
// PAGE LAYOUT:
// ┌──────────────────────────────────────────────────────────────┐
// │ header (16 bytes)                                            │
// │ Flags, Size, MaxSize, Reserved, NextLeaf                     │
// ├──────────────────────────────────────────────────────────────┤
// │ header page:   RootPageID (8 bytes)                          │
// │ leaf page:     leafEntry[0..Size)   {Key, RID}    24 B each  │
// │ internal page: internalEntry[0..Size) {Key, Child} 16 B each │
// └──────────────────────────────────────────────────────────────┘
//
// Slot arrays are reinterpreted in place with unsafe; no serialization pass
// sits between the tree and the bytes handed to the disk manager.
type Page struct {
	data [PageSize]byte
}

// pageHeader is the fixed-size header at the start of each page.
// Layout: [Flags: 2][Size: 2][MaxSize: 2][Reserved: 2][NextLeaf: 8]
type pageHeader struct {
	Flags    uint16
	Size     uint16
	MaxSize  uint16
	Reserved uint16
	NextLeaf PageID
}

func (p *Page) header() *pageHeader {
	return (*pageHeader)(unsafe.Pointer(&p.data[0]))
}

// Bytes exposes the raw page bytes for disk I/O.
func (p *Page) Bytes() []byte {
	return p.data[:]
}

// Reset zeroes the page.
func (p *Page) Reset() {
	p.data = [PageSize]byte{}
}

// IsLeaf reports whether the page is a leaf page.
func (p *Page) IsLeaf() bool {
	return p.header().Flags&LeafPageFlag != 0
}

// IsInternal reports whether the page is an internal page.
func (p *Page) IsInternal() bool {
	return p.header().Flags&InternalPageFlag != 0
}

// Size returns the number of occupied slots.
func (p *Page) Size() int {
	return int(p.header().Size)
}

// MaxSize returns the configured slot limit for this page.
func (p *Page) MaxSize() int {
	return int(p.header().MaxSize)
}

// MinSize returns the underflow bound, ceil(MaxSize/2).
func (p *Page) MinSize() int {
	return (int(p.header().MaxSize) + 1) / 2
}
