// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dbfile

import (
	"bytes"

	"github.com/romland/rofl/internal/cursor"
	"github.com/romland/rofl/internal/framed"
)

// MatchKind tags the outcome of Node.Match. It is a closed three-way
// variant -- ValueMatch, DropDownMatch, or NoMatch -- deliberately not
// encoded as a nullable offset, since a zero offset already means
// something else (an absent child) in the format these nodes come from.
type MatchKind int

const (
	NoMatch MatchKind = iota
	ValueMatch
	DropDownMatch
)

// MatchResult is the outcome of comparing a search key against a node. Offset
// is meaningful only when Kind is ValueMatch (a ValueCollection offset) or
// DropDownMatch (a Tree-relative child node offset).
type MatchResult struct {
	Kind   MatchKind
	Offset uint32
}

// Node is a view into a single on-disk node record's payload: its key,
// value offset, and (if any) left and right child offsets.
type Node struct {
	payload []byte
}

func newNode(payload []byte) Node {
	return Node{payload: payload}
}

// Match compares searchKey against the node's key using unsigned
// lexicographic byte order (shorter-is-less when one key is a prefix of the
// other -- exactly what bytes.Compare already implements) and reports
// whether it's a direct hit, which child to descend into next, or that the
// search has bottomed out with nothing to find.
func (n Node) Match(searchKey []byte) (MatchResult, error) {
	c := cursor.New(n.payload)

	keyHandle, err := c.ReadFramed(0, framed.KeyKind)
	if err != nil {
		return MatchResult{}, err
	}
	nodeKey := keyHandle.Payload()

	valueOffset, err := c.ReadUint32(0)
	if err != nil {
		return MatchResult{}, err
	}

	switch cmp := bytes.Compare(searchKey, nodeKey); {
	case cmp == 0:
		return MatchResult{Kind: ValueMatch, Offset: valueOffset}, nil
	case cmp < 0:
		return n.dropDown(c, true)
	default:
		return n.dropDown(c, false)
	}
}

// dropDown reads the node's child offsets, having already consumed the key
// and value offset from c, and returns whichever side (left if wantLeft,
// right otherwise) the search should continue into. A leaf -- no child
// fields at all -- or a zero offset on the wanted side both mean the search
// ends here with no match: per the format's pinned convention, a node with
// any child at all carries both its left and right offsets, using 0 for
// whichever side is absent, so there is never an ambiguous one-offset case
// to resolve.
func (n Node) dropDown(c *cursor.Cursor, wantLeft bool) (MatchResult, error) {
	if !c.HasMore() {
		return MatchResult{Kind: NoMatch}, nil
	}
	left, err := c.ReadUint32(0)
	if err != nil {
		return MatchResult{}, err
	}
	right, err := c.ReadUint32(0)
	if err != nil {
		return MatchResult{}, err
	}

	offset := right
	if wantLeft {
		offset = left
	}
	if offset == 0 {
		return MatchResult{Kind: NoMatch}, nil
	}
	return MatchResult{Kind: DropDownMatch, Offset: offset}, nil
}
