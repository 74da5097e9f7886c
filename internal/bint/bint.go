// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bint decodes fixed-width big-endian unsigned integers from the
// front of a byte slice, bounds-checked against the slice's length. It
// never allocates and never looks past the width it was asked to read.
package bint

import (
	"encoding/binary"
	"fmt"

	"github.com/romland/rofl/internal/rerr"
)

// Uint8 reads a 1-byte unsigned integer from the start of b.
func Uint8(b []byte) (uint8, error) {
	if len(b) < 1 {
		return 0, fmt.Errorf("bint: need 1 byte, have %d: %w", len(b), rerr.Corrupted)
	}
	return b[0], nil
}

// Uint16 reads a 2-byte big-endian unsigned integer from the start of b.
func Uint16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, fmt.Errorf("bint: need 2 bytes, have %d: %w", len(b), rerr.Corrupted)
	}
	// bounds check elimination
	_ = b[1]
	return binary.BigEndian.Uint16(b[:2]), nil
}

// Uint32 reads a 4-byte big-endian unsigned integer from the start of b.
func Uint32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("bint: need 4 bytes, have %d: %w", len(b), rerr.Corrupted)
	}
	_ = b[3]
	return binary.BigEndian.Uint32(b[:4]), nil
}

// Uint64 reads an 8-byte big-endian unsigned integer from the start of b.
func Uint64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("bint: need 8 bytes, have %d: %w", len(b), rerr.Corrupted)
	}
	_ = b[7]
	return binary.BigEndian.Uint64(b[:8]), nil
}
