// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package rofl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/romland/rofl/internal/cursor"
	"github.com/romland/rofl/internal/dbfile"
	"github.com/romland/rofl/internal/diskmap"
	"github.com/romland/rofl/internal/framed"
	"github.com/romland/rofl/internal/unsafestring"
)

var wantMagic = [4]byte{'R', 'O', 'F', 'L'}

const supportedVersion = 0

// Value is a zero-copy view into a Reader's backing bytes. It remains
// valid only as long as the byte slice the Reader was built over does --
// for a mapped file, that means as long as the mapping stays open.
type Value struct {
	data []byte
}

// Bytes returns the value's bytes, a view into the Reader's backing
// mapping. Callers must not write to it.
func (v Value) Bytes() []byte { return v.data }

// Len returns the value's length in bytes.
func (v Value) Len() int { return len(v.data) }

// CopyBytes returns a freshly allocated copy of the value's bytes, safe to
// hold onto after the backing mapping is released.
func (v Value) CopyBytes() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

func (v Value) String() string { return string(v.data) }

// ReaderOption configures New and Open.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	boundsChecks bool
}

// WithBoundsChecks controls whether decoding performs the bounds checks
// described in the format's spec. It defaults to true. Disabling it must
// not change behavior on well-formed files; on a malformed one, behavior
// becomes undefined in exchange for skipping the checks on the hot path.
// There is currently only one (checked) decoding path -- see
// internal/cursor -- so this is a documented hook for a future unsafe
// build, not a behavior change today.
func WithBoundsChecks(enabled bool) ReaderOption {
	return func(o *readerOptions) { o.boundsChecks = enabled }
}

// Reader answers point lookups against an immutable ROFL-format byte
// slice. It holds no dynamic state beyond the two framed regions parsed
// out of the header; Get is safe for concurrent use by any number of
// callers without synchronization, since nothing about a Reader changes
// after New returns.
type Reader struct {
	tree dbfile.Tree
	vals dbfile.ValueCollection
}

// New parses data as a ROFL file in place -- no copying, no allocation
// beyond the returned Reader struct -- and returns a Reader over it. The
// caller must keep data unchanged and addressable for as long as the
// Reader, or any Value it returns, is in use.
func New(data []byte, opts ...ReaderOption) (*Reader, error) {
	var options readerOptions
	options.boundsChecks = true
	for _, opt := range opts {
		opt(&options)
	}

	if len(data) < len(wantMagic)+2 {
		return nil, fmt.Errorf("rofl: file of %d bytes too short for header: %w", len(data), ErrMagic)
	}
	if !bytes.Equal(data[:len(wantMagic)], wantMagic[:]) {
		return nil, fmt.Errorf("rofl: bad magic %q: %w", data[:len(wantMagic)], ErrMagic)
	}
	version := binary.BigEndian.Uint16(data[len(wantMagic) : len(wantMagic)+2])
	if version != supportedVersion {
		return nil, fmt.Errorf("rofl: unsupported version %d: %w", version, ErrMagic)
	}

	c := cursor.New(data[len(wantMagic)+2:])
	valueHandle, err := c.ReadFramed(0, framed.ValueCollectionKind)
	if err != nil {
		return nil, fmt.Errorf("rofl: value collection header: %w", err)
	}
	treeHandle, err := c.ReadFramed(0, framed.TreeKind)
	if err != nil {
		return nil, fmt.Errorf("rofl: tree header: %w", err)
	}
	// Any bytes after the tree region are ignored.

	return &Reader{
		vals: dbfile.NewValueCollection(valueHandle.Payload()),
		tree: dbfile.NewTree(treeHandle.Payload()),
	}, nil
}

// Open mmaps path read-only and returns a Reader over it, along with the
// io.Closer that unmaps the file. Closing it invalidates the Reader and
// every Value it has returned.
func Open(path string, opts ...ReaderOption) (*Reader, io.Closer, error) {
	data, closer, err := diskmap.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("rofl: %w", err)
	}
	r, err := New(data, opts...)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return r, closer, nil
}

// Get looks up key and, if found, returns its value and true. found is
// false both when the key genuinely isn't in the tree and when err is
// non-nil; callers that need to tell the two apart check err.
func (r *Reader) Get(key []byte) (value Value, found bool, err error) {
	offset, found, err := r.tree.Get(key)
	if err != nil {
		return Value{}, false, err
	}
	if !found {
		return Value{}, false, nil
	}
	data, err := r.vals.GetByOffset(offset)
	if err != nil {
		return Value{}, false, err
	}
	return Value{data: data}, true, nil
}

// GetString is Get for a text key; the string's bytes are used verbatim,
// with no normalization and no allocation.
func (r *Reader) GetString(key string) (Value, bool, error) {
	return r.Get(unsafestring.ToBytes(key))
}
