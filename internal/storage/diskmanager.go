package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"grovedb/internal/base"
)

const (
	// MagicNumber for file format identification ("grvd" in hex)
	MagicNumber uint32 = 0x67727664

	FormatVersion uint16 = 1

	// Meta block layout on page 0:
	// [Magic: 4][Version: 2][Reserved: 2][PageSize: 4][Reserved: 4]
	// [NumPages: 8][FreeCount: 8] [free IDs ...] ... [Checksum: 8]
	metaHeaderSize   = 32
	metaChecksumSize = 8

	// metaFreeCapacity is the number of free page IDs that fit in the meta
	// block. Freed IDs beyond this are dropped at close and the space leaks
	// until the file is rebuilt.
	metaFreeCapacity = (base.PageSize - metaHeaderSize - metaChecksumSize) / 8
)

// DiskManager stores fixed-size pages in a single file. Page 0 holds the
// meta block; tree pages start at 1.
type DiskManager struct {
	mu       sync.Mutex
	file     *os.File
	numPages uint64 // includes the meta page
	freelist *FreeList
	log      base.Logger
}

// NewDiskManager opens or creates a page file.
func NewDiskManager(path string, log base.Logger) (*DiskManager, error) {
	if log == nil {
		log = base.DiscardLogger{}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}

	dm := &DiskManager{
		file:     file,
		freelist: NewFreeList(),
		log:      log,
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if info.Size() == 0 {
		dm.numPages = 1
		if err := dm.writeMeta(); err != nil {
			file.Close()
			return nil, err
		}
	} else {
		if err := dm.readMeta(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return dm, nil
}

// ReadPage reads page id into p.
func (dm *DiskManager) ReadPage(id base.PageID, p *base.Page) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := dm.checkID(id); err != nil {
		return err
	}
	_, err := dm.file.ReadAt(p.Bytes(), int64(id)*base.PageSize)
	if err != nil {
		return fmt.Errorf("read page %d: %w", id, err)
	}
	return nil
}

// WritePage writes p to page id.
func (dm *DiskManager) WritePage(id base.PageID, p *base.Page) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := dm.checkID(id); err != nil {
		return err
	}
	return dm.writePageLocked(id, p)
}

func (dm *DiskManager) writePageLocked(id base.PageID, p *base.Page) error {
	_, err := dm.file.WriteAt(p.Bytes(), int64(id)*base.PageSize)
	if err != nil {
		return fmt.Errorf("write page %d: %w", id, err)
	}
	return nil
}

func (dm *DiskManager) checkID(id base.PageID) error {
	if id == 0 || uint64(id) >= dm.numPages {
		return fmt.Errorf("page %d: %w", id, base.ErrPageNotAllocated)
	}
	return nil
}

// Allocate returns a fresh page ID, reusing a freed page when possible.
func (dm *DiskManager) Allocate() (base.PageID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if id := dm.freelist.Allocate(); id != base.InvalidPageID {
		return id, nil
	}

	// Grow file
	id := base.PageID(dm.numPages)
	dm.numPages++

	var empty base.Page
	if err := dm.writePageLocked(id, &empty); err != nil {
		dm.numPages--
		return base.InvalidPageID, err
	}
	return id, nil
}

// Free returns a page to the freelist for reuse.
func (dm *DiskManager) Free(id base.PageID) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := dm.checkID(id); err != nil {
		return err
	}
	dm.freelist.Free(id)
	return nil
}

// NumPages returns the file size in pages, meta page included.
func (dm *DiskManager) NumPages() uint64 {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.numPages
}

// Sync flushes file contents to stable storage.
func (dm *DiskManager) Sync() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return datasync(dm.file)
}

// Close persists the meta block and closes the file.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := dm.writeMeta(); err != nil {
		dm.file.Close()
		return err
	}
	if err := datasync(dm.file); err != nil {
		dm.file.Close()
		return err
	}
	return dm.file.Close()
}

// writeMeta serializes the meta block to page 0. Caller holds mu.
func (dm *DiskManager) writeMeta() error {
	var p base.Page
	buf := p.Bytes()

	binary.LittleEndian.PutUint32(buf[0:], MagicNumber)
	binary.LittleEndian.PutUint16(buf[4:], FormatVersion)
	binary.LittleEndian.PutUint32(buf[8:], base.PageSize)
	binary.LittleEndian.PutUint64(buf[16:], dm.numPages)

	free := dm.freelist.Snapshot()
	if len(free) > metaFreeCapacity {
		dm.log.Warn("freelist exceeds meta capacity, dropping entries",
			"free", len(free), "capacity", metaFreeCapacity)
		free = free[:metaFreeCapacity]
	}
	binary.LittleEndian.PutUint64(buf[24:], uint64(len(free)))
	for i, id := range free {
		binary.LittleEndian.PutUint64(buf[metaHeaderSize+i*8:], uint64(id))
	}

	sum := xxhash.Sum64(buf[:base.PageSize-metaChecksumSize])
	binary.LittleEndian.PutUint64(buf[base.PageSize-metaChecksumSize:], sum)

	_, err := dm.file.WriteAt(buf, 0)
	return err
}

// readMeta loads and validates the meta block from page 0. Caller holds mu.
func (dm *DiskManager) readMeta() error {
	var p base.Page
	buf := p.Bytes()
	if _, err := dm.file.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("read meta: %w", err)
	}

	stored := binary.LittleEndian.Uint64(buf[base.PageSize-metaChecksumSize:])
	if sum := xxhash.Sum64(buf[:base.PageSize-metaChecksumSize]); sum != stored {
		return base.ErrInvalidChecksum
	}
	if binary.LittleEndian.Uint32(buf[0:]) != MagicNumber {
		return base.ErrInvalidMagicNumber
	}
	if binary.LittleEndian.Uint16(buf[4:]) != FormatVersion {
		return base.ErrInvalidVersion
	}
	if binary.LittleEndian.Uint32(buf[8:]) != base.PageSize {
		return base.ErrInvalidPageSize
	}

	dm.numPages = binary.LittleEndian.Uint64(buf[16:])
	count := binary.LittleEndian.Uint64(buf[24:])
	ids := make([]base.PageID, 0, count)
	for i := uint64(0); i < count; i++ {
		ids = append(ids, base.PageID(binary.LittleEndian.Uint64(buf[metaHeaderSize+i*8:])))
	}
	dm.freelist.Restore(ids)
	return nil
}
