// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cursor implements the bounded, bounds-checked cursor over a
// framed region's payload that every decoding layer above it builds on.
// Every operation either advances the cursor by exactly the span it
// consumed and succeeds, or returns rerr.Corrupted. Skip leaves the cursor
// untouched when it fails; the Read* operations skip their offset argument
// first, so one that fails after that skip leaves the cursor advanced past
// the offset.
package cursor

import (
	"fmt"

	"github.com/romland/rofl/internal/bint"
	"github.com/romland/rofl/internal/framed"
	"github.com/romland/rofl/internal/rerr"
)

// Cursor is a bounds-checked cursor over a byte range, carrying its current
// address and the bytes remaining from there to the end of the region it
// was constructed over.
type Cursor struct {
	data []byte
}

// New constructs a Cursor over a framed region's payload (or any other
// bounded byte range -- the file header uses one too).
func New(payload []byte) *Cursor {
	return &Cursor{data: payload}
}

// Remaining reports how many bytes are left to read.
func (c *Cursor) Remaining() int { return len(c.data) }

// HasMore reports whether any bytes remain.
func (c *Cursor) HasMore() bool { return len(c.data) > 0 }

// Skip advances the cursor by n bytes, returning the span it skipped over.
// It fails with rerr.Corrupted, leaving the cursor untouched, if fewer than
// n bytes remain.
func (c *Cursor) Skip(n int) ([]byte, error) {
	if n < 0 || n > len(c.data) {
		return nil, fmt.Errorf("cursor: skip(%d) exceeds remaining %d: %w", n, len(c.data), rerr.Corrupted)
	}
	skipped := c.data[:n]
	c.data = c.data[n:]
	return skipped, nil
}

// ReadUint8 skips offset bytes, reads a 1-byte unsigned integer, and skips
// past it.
func (c *Cursor) ReadUint8(offset int) (uint8, error) {
	if _, err := c.Skip(offset); err != nil {
		return 0, err
	}
	v, err := bint.Uint8(c.data)
	if err != nil {
		return 0, err
	}
	if _, err := c.Skip(1); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUint16 skips offset bytes, reads a 2-byte big-endian unsigned integer,
// and skips past it.
func (c *Cursor) ReadUint16(offset int) (uint16, error) {
	if _, err := c.Skip(offset); err != nil {
		return 0, err
	}
	v, err := bint.Uint16(c.data)
	if err != nil {
		return 0, err
	}
	if _, err := c.Skip(2); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUint32 skips offset bytes, reads a 4-byte big-endian unsigned integer,
// and skips past it.
func (c *Cursor) ReadUint32(offset int) (uint32, error) {
	if _, err := c.Skip(offset); err != nil {
		return 0, err
	}
	v, err := bint.Uint32(c.data)
	if err != nil {
		return 0, err
	}
	if _, err := c.Skip(4); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUint64 skips offset bytes, reads an 8-byte big-endian unsigned
// integer, and skips past it.
func (c *Cursor) ReadUint64(offset int) (uint64, error) {
	if _, err := c.Skip(offset); err != nil {
		return 0, err
	}
	v, err := bint.Uint64(c.data)
	if err != nil {
		return 0, err
	}
	if _, err := c.Skip(8); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadBytes skips offset bytes, returns a view of the next n bytes, and
// skips past them.
func (c *Cursor) ReadBytes(offset, n int) ([]byte, error) {
	if _, err := c.Skip(offset); err != nil {
		return nil, err
	}
	if n < 0 || n > len(c.data) {
		return nil, fmt.Errorf("cursor: read %d bytes exceeds remaining %d: %w", n, len(c.data), rerr.Corrupted)
	}
	return c.Skip(n)
}

// Handle is a parsed framed region: its length prefix plus the payload it
// describes, still addressed relative to whatever the enclosing cursor was
// built over.
type Handle struct {
	kind   framed.Kind
	region []byte
}

// Kind reports which framed-region flavor this handle is.
func (h Handle) Kind() framed.Kind { return h.kind }

// Region returns the whole framed region: length prefix plus payload.
func (h Handle) Region() []byte { return h.region }

// Payload returns the region's payload, with the length prefix stripped.
func (h Handle) Payload() []byte { return h.region[h.kind.LenWidth:] }

// ReadFramed skips offset bytes, reads a length prefix for region kind k,
// verifies the declared payload fits in what remains, and skips past the
// entire region (prefix and payload). The returned Handle addresses the
// region it was given, not a copy.
func (c *Cursor) ReadFramed(offset int, k framed.Kind) (Handle, error) {
	if _, err := c.Skip(offset); err != nil {
		return Handle{}, err
	}
	length, err := k.ReadLen(c.data)
	if err != nil {
		return Handle{}, err
	}
	// Computed without adding length to k.LenWidth first: length is read
	// straight off an 8-byte on-disk field for framed.ValueCollectionKind,
	// so k.LenWidth+length can overflow a uint64 on a corrupted file and
	// wrap around to a tiny total that passes a naive bounds check.
	if len(c.data) < k.LenWidth || length > uint64(len(c.data))-uint64(k.LenWidth) {
		return Handle{}, fmt.Errorf("cursor: framed %s declares a %d-byte payload, leaving only %d bytes after its length prefix: %w", k, length, len(c.data)-k.LenWidth, rerr.Corrupted)
	}
	total := k.LenWidth + int(length)
	region, err := c.Skip(total)
	if err != nil {
		return Handle{}, err
	}
	return Handle{kind: k, region: region}, nil
}
