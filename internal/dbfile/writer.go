// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dbfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/romland/rofl/internal/framed"
)

const defaultBufferSize = 4 * 1024 * 1024

var magic = [4]byte{'R', 'O', 'F', 'L'}

// Entry is a single key/value pair staged for WriteFile. Callers must pass
// entries sorted by Key, with no duplicate keys -- WriteFile does not sort
// or dedupe; that's the Builder's job (see the top-level package).
type Entry struct {
	Key   []byte
	Value []byte
}

// WriteFile encodes entries as a complete ROFL file -- magic, version, the
// ValueCollection heap, and a balanced Tree over the keys -- to w.
func WriteFile(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriterSize(w, defaultBufferSize)

	if _, err := bw.Write(magic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	var version [2]byte
	binary.BigEndian.PutUint16(version[:], 0)
	if _, err := bw.Write(version[:]); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	valuePayload, valueOffsets, err := buildValueCollection(entries)
	if err != nil {
		return fmt.Errorf("build value collection: %w", err)
	}
	if err := writeFramed(bw, framed.ValueCollectionKind, valuePayload); err != nil {
		return fmt.Errorf("write value collection: %w", err)
	}

	treePayload := buildTree(entries, valueOffsets)
	if err := writeFramed(bw, framed.TreeKind, treePayload); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return bw.Flush()
}

// buildValueCollection lays out entries' values as a concatenation of
// framed Value records and records each one's offset into that heap.
func buildValueCollection(entries []Entry) ([]byte, []uint32, error) {
	var buf bytes.Buffer
	offsets := make([]uint32, len(entries))
	for i, e := range entries {
		if len(e.Value) > math.MaxUint32 {
			return nil, nil, fmt.Errorf("value for key %q is %d bytes, exceeds the u32 length prefix", e.Key, len(e.Value))
		}
		if uint64(buf.Len()) > math.MaxUint32 {
			return nil, nil, fmt.Errorf("value collection exceeds u32 offset range before encoding key %q", e.Key)
		}
		offsets[i] = uint32(buf.Len())
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.Value)))
		buf.Write(lenBuf[:])
		buf.Write(e.Value)
	}
	return buf.Bytes(), offsets, nil
}

// buildTree lays entries out as a balanced BST -- always splitting at the
// median so lookups stay O(log n) -- and returns the Tree framed region's
// payload: a 4-byte root offset followed by the node heap.
func buildTree(entries []Entry, valueOffsets []uint32) []byte {
	var heap bytes.Buffer
	rootOffset := placeNode(&heap, entries, valueOffsets, 0, len(entries))

	payload := make([]byte, 4+heap.Len())
	binary.BigEndian.PutUint32(payload[:4], rootOffset)
	copy(payload[4:], heap.Bytes())
	return payload
}

// placeNode serializes entries[lo:hi] into heap in post-order -- both
// children before their parent -- so that by the time a parent node is
// written, its children's offsets are already known and can be embedded
// directly. It returns the offset of entries[lo:hi]'s root node, relative
// to the start of the Tree payload (the node heap itself starts at payload
// offset 4, hence the +4 below).
func placeNode(heap *bytes.Buffer, entries []Entry, valueOffsets []uint32, lo, hi int) uint32 {
	if lo >= hi {
		return 0
	}
	mid := lo + (hi-lo)/2

	leftOffset := placeNode(heap, entries, valueOffsets, lo, mid)
	rightOffset := placeNode(heap, entries, valueOffsets, mid+1, hi)

	var nodePayload bytes.Buffer
	var keyLenBuf [2]byte
	binary.BigEndian.PutUint16(keyLenBuf[:], uint16(len(entries[mid].Key)))
	nodePayload.Write(keyLenBuf[:])
	nodePayload.Write(entries[mid].Key)

	var valOffBuf [4]byte
	binary.BigEndian.PutUint32(valOffBuf[:], valueOffsets[mid])
	nodePayload.Write(valOffBuf[:])

	// Per the format's pinned absent-child convention: if this node has
	// any child at all, both offsets are written, 0 standing in for
	// whichever side is missing. A pure leaf omits both.
	if leftOffset != 0 || rightOffset != 0 {
		var lb, rb [4]byte
		binary.BigEndian.PutUint32(lb[:], leftOffset)
		binary.BigEndian.PutUint32(rb[:], rightOffset)
		nodePayload.Write(lb[:])
		nodePayload.Write(rb[:])
	}

	nodeOffset := uint32(4 + heap.Len())
	var nodeLenBuf [2]byte
	binary.BigEndian.PutUint16(nodeLenBuf[:], uint16(nodePayload.Len()))
	heap.Write(nodeLenBuf[:])
	heap.Write(nodePayload.Bytes())
	return nodeOffset
}

func writeFramed(w io.Writer, k framed.Kind, payload []byte) error {
	lenBuf := make([]byte, k.LenWidth)
	k.WriteLen(lenBuf, uint64(len(payload)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
