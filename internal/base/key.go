package base

import (
	"bytes"
	"encoding/binary"
)

// KeySize is the fixed key width in bytes.
const KeySize = 8

// Key is a fixed-width index key. Ordering is defined entirely by the
// Comparator injected at tree construction; the big-endian int64 helpers
// below produce keys whose byte order matches their numeric order.
type Key [KeySize]byte

// KeyFromInt64 encodes v as a big-endian key with the sign bit flipped so
// byte order matches numeric order.
func KeyFromInt64(v int64) Key {
	var k Key
	binary.BigEndian.PutUint64(k[:], uint64(v)^(1<<63))
	return k
}

// Int64 decodes a key produced by KeyFromInt64.
func (k Key) Int64() int64 {
	return int64(binary.BigEndian.Uint64(k[:]) ^ (1 << 63))
}

// Comparator is a three-valued total order over keys: -1, 0, +1.
// It must be deterministic and stable.
type Comparator func(a, b Key) int

// BytesComparator orders keys by raw byte comparison.
func BytesComparator(a, b Key) int {
	return bytes.Compare(a[:], b[:])
}

// Int64Comparator orders keys produced by KeyFromInt64 numerically.
func Int64Comparator(a, b Key) int {
	av, bv := a.Int64(), b.Int64()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// RID is a record identifier: the page holding the record and its slot.
type RID struct {
	PageNum PageID
	Slot    uint32
	_       uint32
}

// RIDFromUint64 packs v into a RID (page in the high 32 bits, slot in the
// low 32). The file-driven test harness uses this to treat an integer key as
// its own payload.
func RIDFromUint64(v uint64) RID {
	return RID{PageNum: PageID(v >> 32), Slot: uint32(v)}
}

// Uint64 is the inverse of RIDFromUint64.
func (r RID) Uint64() uint64 {
	return uint64(r.PageNum)<<32 | uint64(r.Slot)
}
