// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cursor

import (
	"errors"
	"math"
	"testing"

	"github.com/romland/rofl/internal/framed"
	"github.com/romland/rofl/internal/rerr"
	"github.com/stretchr/testify/require"
)

func TestSkip(t *testing.T) {
	c := New([]byte("hello world"))
	got, err := c.Skip(5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
	require.Equal(t, 6, c.Remaining())

	_, err = c.Skip(100)
	require.True(t, errors.Is(err, rerr.Corrupted))
	require.Equal(t, 6, c.Remaining(), "a failed skip must not move the cursor")
}

func TestReadUintsAdvanceByOffsetAndWidth(t *testing.T) {
	data := []byte{0xaa, 0xaa, 0x00, 0x2a, 0xaa}
	c := New(data)
	v, err := c.ReadUint8(2)
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
	require.Equal(t, 2, c.Remaining())

	c = New(data)
	v16, err := c.ReadUint16(2)
	require.NoError(t, err)
	require.EqualValues(t, 0x002a, v16)
	require.Equal(t, 1, c.Remaining())
}

func TestReadBytes(t *testing.T) {
	c := New([]byte("0123456789"))
	got, err := c.ReadBytes(3, 4)
	require.NoError(t, err)
	require.Equal(t, []byte("3456"), got)

	_, err = c.ReadBytes(0, 100)
	require.True(t, errors.Is(err, rerr.Corrupted))
}

func TestReadFramed(t *testing.T) {
	payload := []byte("value-bytes")
	lenBuf := make([]byte, framed.ValueKind.LenWidth)
	framed.ValueKind.WriteLen(lenBuf, uint64(len(payload)))
	region := append(append([]byte{0xff}, lenBuf...), payload...)

	c := New(region)
	h, err := c.ReadFramed(1, framed.ValueKind)
	require.NoError(t, err)
	require.Equal(t, payload, h.Payload())
	require.Equal(t, 0, c.Remaining())
}

func TestReadFramedRejectsTruncatedRegion(t *testing.T) {
	lenBuf := make([]byte, framed.ValueKind.LenWidth)
	framed.ValueKind.WriteLen(lenBuf, 100)
	c := New(append(lenBuf, []byte("too short")...))
	_, err := c.ReadFramed(0, framed.ValueKind)
	require.True(t, errors.Is(err, rerr.Corrupted))
}

func TestReadFramedRejectsLengthPrefixNearUint64Max(t *testing.T) {
	// A corrupted ValueCollectionKind (8-byte length prefix) declaring a
	// length of 2^64-6 (math.MaxUint64-5) makes k.LenWidth+length wrap
	// around to 2 if added as a uint64 before bounds-checking. With only a
	// few bytes actually following the prefix, a naive check would accept
	// this as a 2-byte region and hand back a payload slice shorter than
	// the 8-byte length prefix it's supposed to have already stripped --
	// Payload() would then panic slicing past the end of a 2-byte
	// region. The fix must reject this outright.
	lenBuf := make([]byte, framed.ValueCollectionKind.LenWidth)
	framed.ValueCollectionKind.WriteLen(lenBuf, math.MaxUint64-5)
	c := New(append(lenBuf, []byte("short")...))

	_, err := c.ReadFramed(0, framed.ValueCollectionKind)
	require.Error(t, err)
	require.True(t, errors.Is(err, rerr.Corrupted))
}

func TestHasMore(t *testing.T) {
	c := New([]byte{0x01})
	require.True(t, c.HasMore())
	_, err := c.Skip(1)
	require.NoError(t, err)
	require.False(t, c.HasMore())
}
