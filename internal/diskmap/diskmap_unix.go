// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build unix

// Package diskmap is the Mapper collaborator: it opens a file read-only and
// maps it into the address space, handing back the bytes for a Reader to
// parse and the io.Closer that unmaps them. Reader itself never imports
// this package -- it accepts any []byte -- this is wiring for the
// rofl.Open convenience constructor.
package diskmap

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// mapping is a memory-mapped file's bytes plus the means to unmap them.
type mapping struct {
	data []byte
}

// Open mmaps path read-only and advises the kernel that access will be
// random (point lookups, not a sequential scan), matching how a ROFL file
// is actually read.
func Open(path string) (data []byte, closer io.Closer, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("f.Stat: %w", err)
	}
	size := st.Size()
	if size == 0 {
		return nil, nil, fmt.Errorf("diskmap: %s is empty", path)
	}

	b, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("unix.Mmap(%s): %w", path, err)
	}

	if err := unix.Madvise(b, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(b)
		return nil, nil, fmt.Errorf("unix.Madvise: %w", err)
	}

	return b, &mapping{data: b}, nil
}

func (m *mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
