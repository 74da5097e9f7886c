// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dbfile

import (
	"fmt"

	"github.com/romland/rofl/internal/cursor"
	"github.com/romland/rofl/internal/framed"
)

// ValueCollection is the concatenated heap of Value records embedded in a
// ROFL file's ValueCollection framed region.
type ValueCollection struct {
	payload []byte
}

// NewValueCollection wraps a ValueCollection framed region's payload
// (everything after its 8-byte length prefix).
func NewValueCollection(payload []byte) ValueCollection {
	return ValueCollection{payload: payload}
}

// GetByOffset resolves a ValueOffset, as returned by Tree.Get, into the
// value bytes it addresses -- a zero-copy view into whatever backs the
// collection's payload.
func (vc ValueCollection) GetByOffset(offset uint32) ([]byte, error) {
	c := cursor.New(vc.payload)
	handle, err := c.ReadFramed(int(offset), framed.ValueKind)
	if err != nil {
		return nil, fmt.Errorf("value at offset %d: %w", offset, err)
	}
	return handle.Payload(), nil
}
