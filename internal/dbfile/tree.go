// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dbfile

import (
	"fmt"

	"github.com/romland/rofl/internal/cursor"
	"github.com/romland/rofl/internal/framed"
	"github.com/romland/rofl/internal/rerr"
)

// minNodeSize is the smallest possible on-disk node record: a 2-byte
// length prefix framing a leaf with an empty key -- a 2-byte key length
// prefix, zero key bytes, and a 4-byte value offset.
const minNodeSize = 2 + 2 + 4

// emptyTreeSentinel is accepted, in addition to a root offset of 0, as
// marking an empty tree, for compatibility with writers that use it.
const emptyTreeSentinel = 0xFFFFFFFF

// Tree is the binary search tree of keyed nodes embedded in a ROFL file's
// Tree framed region.
type Tree struct {
	payload []byte
}

// NewTree wraps a Tree framed region's payload (everything after its
// 4-byte length prefix: the root offset followed by the node heap).
func NewTree(payload []byte) Tree {
	return Tree{payload: payload}
}

// Get searches the tree for key and, if found, returns the ValueCollection
// offset its node points at. It never allocates: every step constructs a
// fresh cursor.Cursor directly over the Tree's backing payload.
func (t Tree) Get(key []byte) (valueOffset uint32, found bool, err error) {
	root := cursor.New(t.payload)
	rootOffset, err := root.ReadUint32(0)
	if err != nil {
		return 0, false, fmt.Errorf("tree root offset: %w", err)
	}
	if rootOffset == 0 || rootOffset == emptyTreeSentinel {
		return 0, false, nil
	}

	hopLimit := len(t.payload) / minNodeSize
	if hopLimit < 1 {
		hopLimit = 1
	}

	offset := rootOffset
	for hop := 0; ; hop++ {
		if hop >= hopLimit {
			return 0, false, fmt.Errorf("tree search exceeded hop limit %d at offset %d, possible cycle: %w", hopLimit, offset, rerr.Corrupted)
		}

		c := cursor.New(t.payload)
		handle, err := c.ReadFramed(int(offset), framed.NodeKind)
		if err != nil {
			return 0, false, fmt.Errorf("node at offset %d: %w", offset, err)
		}

		res, err := newNode(handle.Payload()).Match(key)
		if err != nil {
			return 0, false, fmt.Errorf("node at offset %d: %w", offset, err)
		}

		switch res.Kind {
		case ValueMatch:
			return res.Offset, true, nil
		case NoMatch:
			return 0, false, nil
		case DropDownMatch:
			offset = res.Offset
		}
	}
}
