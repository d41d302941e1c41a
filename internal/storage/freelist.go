package storage

import "grovedb/internal/base"

// FreeList tracks freed pages for reuse.
type FreeList struct {
	ids []base.PageID // sorted array of free page IDs
}

// NewFreeList creates an empty freelist.
func NewFreeList() *FreeList {
	return &FreeList{ids: make([]base.PageID, 0)}
}

// Allocate returns a free page ID, or InvalidPageID if none available.
func (f *FreeList) Allocate() base.PageID {
	if len(f.ids) == 0 {
		return base.InvalidPageID
	}
	// Pop from end
	id := f.ids[len(f.ids)-1]
	f.ids = f.ids[:len(f.ids)-1]
	return id
}

// Free adds a page ID to the free list.
func (f *FreeList) Free(id base.PageID) {
	// Already free, don't add duplicates
	for _, existing := range f.ids {
		if existing == id {
			return
		}
	}

	f.ids = append(f.ids, id)
	// Keep sorted for deterministic behavior
	for i := len(f.ids) - 1; i > 0; i-- {
		if f.ids[i-1] <= f.ids[i] {
			break
		}
		f.ids[i-1], f.ids[i] = f.ids[i], f.ids[i-1]
	}
}

// Len returns the number of free pages.
func (f *FreeList) Len() int {
	return len(f.ids)
}

// Snapshot returns the free IDs for meta serialization.
func (f *FreeList) Snapshot() []base.PageID {
	out := make([]base.PageID, len(f.ids))
	copy(out, f.ids)
	return out
}

// Restore replaces the list contents from a meta snapshot.
func (f *FreeList) Restore(ids []base.PageID) {
	f.ids = make([]base.PageID, len(ids))
	copy(f.ids, ids)
}
