package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"

	"grovedb/internal/base"
)

var (
	ErrPoolExhausted = errors.New("buffer pool exhausted: all frames pinned")
	ErrPagePinned    = errors.New("page is pinned")
)

const (
	// MinPoolSize must hold a root-to-leaf path plus header, sibling, and a
	// split page for every in-flight operation.
	MinPoolSize = 8
)

// frame is one resident page slot. The latch is the page latch handed out
// through guards; pins and dirty are guarded by the pool mutex.
type frame struct {
	latch sync.RWMutex
	idx   int
	id    base.PageID
	page  base.Page
	pins  int
	dirty bool
}

// Pool is a fixed-size page buffer pool over a DiskManager. Pages are pinned
// while a guard is live; unpinned frames enter the LRU replacer and may be
// evicted (with write-back when dirty) to make room.
type Pool struct {
	mu        sync.Mutex
	disk      Storage
	frames    []frame
	pageTable map[base.PageID]int
	free      []int
	replacer  *freelru.LRU[base.PageID, int]
	log       base.Logger
}

// Storage is the subset of DiskManager the pool consumes.
type Storage interface {
	ReadPage(id base.PageID, p *base.Page) error
	WritePage(id base.PageID, p *base.Page) error
	Allocate() (base.PageID, error)
	Free(id base.PageID) error
	Sync() error
}

func hashPageID(id base.PageID) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id))
	return uint32(xxhash.Sum64(b[:]))
}

// NewPool creates a buffer pool with size frames.
func NewPool(disk Storage, size int, log base.Logger) (*Pool, error) {
	if log == nil {
		log = base.DiscardLogger{}
	}
	size = max(size, MinPoolSize)

	// One extra slot so the replacer never silently evicts its own entries;
	// it only ever holds the unpinned subset of frames.
	replacer, err := freelru.New[base.PageID, int](uint32(size+1), hashPageID)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		disk:      disk,
		frames:    make([]frame, size),
		pageTable: make(map[base.PageID]int, size),
		free:      make([]int, 0, size),
		replacer:  replacer,
		log:       log,
	}
	for i := size - 1; i >= 0; i-- {
		p.frames[i].idx = i
		p.free = append(p.free, i)
	}
	return p, nil
}

// FetchRead pins page id and acquires its shared latch. Blocks until the
// latch is available.
func (p *Pool) FetchRead(id base.PageID) (*ReadGuard, error) {
	f, err := p.acquire(id)
	if err != nil {
		return nil, err
	}
	f.latch.RLock()
	return &ReadGuard{pool: p, f: f}, nil
}

// FetchWrite pins page id and acquires its exclusive latch. Blocks until the
// latch is available.
func (p *Pool) FetchWrite(id base.PageID) (*WriteGuard, error) {
	f, err := p.acquire(id)
	if err != nil {
		return nil, err
	}
	f.latch.Lock()
	return &WriteGuard{pool: p, f: f}, nil
}

// FetchBasic pins page id without latching it. Debug and visualization only.
func (p *Pool) FetchBasic(id base.PageID) (*BasicGuard, error) {
	f, err := p.acquire(id)
	if err != nil {
		return nil, err
	}
	return &BasicGuard{pool: p, f: f}, nil
}

// NewPageGuarded allocates a fresh page and returns its id with an exclusive
// guard over the zeroed contents.
func (p *Pool) NewPageGuarded() (base.PageID, *WriteGuard, error) {
	id, err := p.disk.Allocate()
	if err != nil {
		return base.InvalidPageID, nil, err
	}

	p.mu.Lock()
	fi, err := p.freeFrame()
	if err != nil {
		p.mu.Unlock()
		return base.InvalidPageID, nil, err
	}
	f := &p.frames[fi]
	f.page.Reset()
	f.id = id
	f.pins = 1
	f.dirty = true
	p.pageTable[id] = fi
	p.mu.Unlock()

	f.latch.Lock()
	return id, &WriteGuard{pool: p, f: f}, nil
}

// DeletePage drops an unpinned page from the pool and returns it to the disk
// manager's freelist.
func (p *Pool) DeletePage(id base.PageID) error {
	p.mu.Lock()
	if fi, ok := p.pageTable[id]; ok {
		f := &p.frames[fi]
		if f.pins > 0 {
			p.mu.Unlock()
			return fmt.Errorf("delete page %d: %w", id, ErrPagePinned)
		}
		p.replacer.Remove(id)
		delete(p.pageTable, id)
		p.free = append(p.free, fi)
	}
	p.mu.Unlock()
	return p.disk.Free(id)
}

// FlushPage writes page id back if resident and dirty. The caller must
// ensure no write guard is live on it.
func (p *Pool) FlushPage(id base.PageID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fi, ok := p.pageTable[id]
	if !ok {
		return nil
	}
	return p.flushFrame(&p.frames[fi])
}

// FlushAll writes back every dirty resident page and syncs the file. The
// caller must ensure no write guards are live.
func (p *Pool) FlushAll() error {
	p.mu.Lock()
	for i := range p.frames {
		f := &p.frames[i]
		if fi, resident := p.pageTable[f.id]; !resident || fi != i {
			continue
		}
		if err := p.flushFrame(f); err != nil {
			p.mu.Unlock()
			return err
		}
	}
	p.mu.Unlock()
	return p.disk.Sync()
}

func (p *Pool) flushFrame(f *frame) error {
	if !f.dirty {
		return nil
	}
	if err := p.disk.WritePage(f.id, &f.page); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// acquire pins the frame holding id, reading it from disk if absent.
func (p *Pool) acquire(id base.PageID) (*frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if fi, ok := p.pageTable[id]; ok {
		f := &p.frames[fi]
		f.pins++
		if f.pins == 1 {
			p.replacer.Remove(id)
		}
		return f, nil
	}

	fi, err := p.freeFrame()
	if err != nil {
		return nil, err
	}
	f := &p.frames[fi]
	if err := p.disk.ReadPage(id, &f.page); err != nil {
		p.free = append(p.free, fi)
		return nil, err
	}
	f.id = id
	f.pins = 1
	f.dirty = false
	p.pageTable[id] = fi
	return f, nil
}

// freeFrame returns an unused frame index, evicting the LRU unpinned page if
// necessary. Caller holds mu.
func (p *Pool) freeFrame() (int, error) {
	if n := len(p.free); n > 0 {
		fi := p.free[n-1]
		p.free = p.free[:n-1]
		return fi, nil
	}

	victimID, fi, ok := p.replacer.RemoveOldest()
	if !ok {
		return 0, ErrPoolExhausted
	}
	f := &p.frames[fi]
	if err := p.flushFrame(f); err != nil {
		// Put the victim back; the pool stays consistent and the caller
		// sees the I/O error.
		p.log.Warn("evict write-back failed", "page", victimID, "error", err)
		p.replacer.Add(victimID, fi)
		return 0, err
	}
	delete(p.pageTable, victimID)
	return fi, nil
}

// unpin releases one pin; the frame becomes evictable at zero pins.
func (p *Pool) unpin(f *frame, dirty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dirty {
		f.dirty = true
	}
	f.pins--
	if f.pins == 0 {
		p.replacer.Add(f.id, f.idx)
	}
}
