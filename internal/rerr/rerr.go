// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package rerr holds the two sentinel errors shared across the decoding
// layers, so every package below the public API can return errors the
// caller can test with errors.Is without importing the top-level package.
package rerr

import "errors"

var (
	// Magic is returned when a file's magic number or version doesn't match
	// what this package understands. Only ever raised during construction.
	Magic = errors.New("magic_error")

	// Corrupted is returned whenever decoding hits a bounds or structural
	// violation: a region whose declared length disagrees with its actual
	// bounds, an offset that escapes its enclosing region, or a tree search
	// that exceeds its hop limit.
	Corrupted = errors.New("data_corrupted")
)
