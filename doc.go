// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package rofl is a read-only, zero-copy key->value store over a static
// on-disk file. A Builder writes a file once; a Reader maps it (or wraps
// any byte slice already in memory) and answers Get without deserializing
// or copying any value bytes -- a hit returns a view directly into the
// backing mapping.
//
// A ROFL file looks like:
//
//	┌────────────────────┐
//	│ MAGIC + VERSION     │  6 bytes
//	├────────────────────┤
//	│ ValueCollection     │  8-byte length prefix, then a heap of
//	│                     │  length-prefixed value records
//	├────────────────────┤
//	│ Tree                │  4-byte length prefix, then a root offset
//	│                     │  and a heap of length-prefixed node records
//	└────────────────────┘
//
// Every node record holds a key, a value offset into the ValueCollection,
// and up to two child offsets into the Tree's own node heap:
//
//	 0    1    2    3    4
//	+----+----+----+----+----+-...-+----+----+----+----+----+----+----+----+----+
//	|node len | key len | key...   | value offset      | left offset       | right offset      |
//	+----+----+----+----+----+-...-+----+----+----+----+----+----+----+----+----+
//
// The left/right offset pair is only present on a node that has at least
// one child; a leaf's record ends right after the value offset. All
// integers are big-endian.
//
// Get walks the tree from its root, comparing the search key against each
// node's key and descending left or right, until it either lands on a
// matching node (resolving its value offset against the ValueCollection)
// or runs out of tree to search.
package rofl
