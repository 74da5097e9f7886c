// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package framed describes the length-prefixed "framed region" shape shared
// by every entity in a ROFL file -- Value, Key, Node, Tree, and
// ValueCollection each differ only in the width of their length prefix and
// what their payload holds. Rather than reflecting over a marker type, each
// kind is an explicit descriptor picked at the call site, per the design
// note in the format's spec.
package framed

import (
	"encoding/binary"
	"fmt"

	"github.com/romland/rofl/internal/rerr"
)

// Kind describes one framed-region flavor: the width of its length prefix,
// in bytes.
type Kind struct {
	name     string
	LenWidth int
}

func (k Kind) String() string { return k.name }

var (
	// ValueKind frames a single value in the ValueCollection heap: a 4-byte
	// length prefix followed by the raw value bytes.
	ValueKind = Kind{"value", 4}

	// KeyKind frames a key embedded inside a Node payload: a 2-byte length
	// prefix followed by the raw key bytes.
	KeyKind = Kind{"key", 2}

	// NodeKind frames a single node record in the Tree's node heap: a
	// 2-byte length prefix followed by the node payload (key, value
	// offset, optional child offsets).
	NodeKind = Kind{"node", 2}

	// TreeKind frames the whole Tree region: a 4-byte length prefix
	// followed by the root offset and the node heap.
	TreeKind = Kind{"tree", 4}

	// ValueCollectionKind frames the whole ValueCollection region: an
	// 8-byte length prefix followed by the concatenated Value records.
	ValueCollectionKind = Kind{"value_collection", 8}
)

// ReadLen decodes the length prefix for k from the front of b. It does not
// check that the payload it describes actually fits in b; callers combine
// this with a bounds check against their own remaining length.
func (k Kind) ReadLen(b []byte) (uint64, error) {
	if len(b) < k.LenWidth {
		return 0, fmt.Errorf("framed %s: need %d bytes for length prefix, have %d: %w", k.name, k.LenWidth, len(b), rerr.Corrupted)
	}
	switch k.LenWidth {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b[:2])), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b[:4])), nil
	case 8:
		return binary.BigEndian.Uint64(b[:8]), nil
	default:
		panic(fmt.Sprintf("framed: unsupported length width %d for kind %s", k.LenWidth, k.name))
	}
}

// WriteLen encodes n as k's length prefix into the front of b, which must be
// at least k.LenWidth bytes long.
func (k Kind) WriteLen(b []byte, n uint64) {
	switch k.LenWidth {
	case 1:
		b[0] = byte(n)
	case 2:
		binary.BigEndian.PutUint16(b, uint16(n))
	case 4:
		binary.BigEndian.PutUint32(b, uint32(n))
	case 8:
		binary.BigEndian.PutUint64(b, n)
	default:
		panic(fmt.Sprintf("framed: unsupported length width %d for kind %s", k.LenWidth, k.name))
	}
}
