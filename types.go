package grovedb

import "grovedb/internal/base"

// Re-exported key, value, and page identifier types. The tree operates on
// fixed-width keys whose order is defined by the injected Comparator; values
// are record identifiers.
type (
	Key        = base.Key
	RID        = base.RID
	PageID     = base.PageID
	Comparator = base.Comparator
)

const (
	PageSize = base.PageSize
	KeySize  = base.KeySize

	// InvalidPageID marks an absent page reference: the root of an empty
	// tree, the tail of the leaf chain, and the end iterator.
	InvalidPageID = base.InvalidPageID
)

var (
	KeyFromInt64  = base.KeyFromInt64
	RIDFromUint64 = base.RIDFromUint64

	// Int64Comparator orders keys produced by KeyFromInt64 numerically.
	Int64Comparator Comparator = base.Int64Comparator

	// BytesComparator orders keys by raw byte comparison.
	BytesComparator Comparator = base.BytesComparator
)
