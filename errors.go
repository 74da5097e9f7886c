// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package rofl

import "github.com/romland/rofl/internal/rerr"

var (
	// ErrMagic is returned by New and Open when a file's magic number or
	// version isn't one this package understands. It is never returned
	// from Get -- by the time a Reader exists, its header has already
	// been validated.
	ErrMagic = rerr.Magic

	// ErrDataCorrupted is returned from Get, GetString, or the
	// collaborators in internal/dbfile whenever decoding hits a bounds or
	// structural violation in an otherwise well-formed-looking file: an
	// offset that escapes its region, a length prefix that disagrees with
	// what actually follows it, or a tree search that exceeds its hop
	// limit.
	ErrDataCorrupted = rerr.Corrupted
)
