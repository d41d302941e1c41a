package grovedb

import (
	"errors"

	"grovedb/internal/base"
	"grovedb/internal/buffer"
)

//goland:noinspection GoUnusedGlobalVariable
var (
	ErrIteratorEnd = errors.New("iterator past the last entry")

	ErrPoolExhausted = buffer.ErrPoolExhausted
	ErrPagePinned    = buffer.ErrPagePinned

	ErrInvalidMagicNumber = base.ErrInvalidMagicNumber
	ErrInvalidVersion     = base.ErrInvalidVersion
	ErrInvalidPageSize    = base.ErrInvalidPageSize
	ErrInvalidChecksum    = base.ErrInvalidChecksum
	ErrPageNotAllocated   = base.ErrPageNotAllocated
)
