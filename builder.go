// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package rofl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/romland/rofl/internal/dbfile"
)

var (
	// ErrKeyTooBig is returned by Put for a key too long to fit the
	// format's 2-byte key length prefix.
	ErrKeyTooBig = errors.New("rofl: keys must be shorter than 65536 bytes")

	// ErrDuplicateKey is returned by Finalize when two Put calls staged
	// the same key. The format has no room for a second value at the
	// same tree position, so this is a build-time error, not something
	// Get ever has to resolve.
	ErrDuplicateKey = errors.New("rofl: duplicate key")
)

// BuilderOption configures NewBuilder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	logger *slog.Logger
}

// WithBuilderLogger sets an optional logger for the builder to use for
// progress updates. If not provided, no logging output is produced.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// Builder accumulates key/value pairs in memory and, on Finalize, writes
// them out as a single balanced ROFL file. A Builder is not safe for
// concurrent use.
type Builder struct {
	resultPath string
	entries    []dbfile.Entry
	logger     *slog.Logger
	done       bool
}

// NewBuilder creates a Builder that will write its finished file to path.
// Nothing is written to disk until Finalize is called.
func NewBuilder(path string, opts ...BuilderOption) (*Builder, error) {
	var options builderOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}

	return &Builder{
		resultPath: path,
		logger:     options.logger,
	}, nil
}

// Put stages a key/value pair for the table being built. Put does not copy
// k or v; callers must not mutate either afterward. Calling Put twice with
// the same key is allowed here but fails at Finalize, once the full set of
// keys is known and can be sorted.
func (b *Builder) Put(k, v []byte) error {
	if len(k) > math.MaxUint16 {
		return ErrKeyTooBig
	}
	b.entries = append(b.entries, dbfile.Entry{Key: k, Value: v})
	return nil
}

// Finalize sorts the staged entries, writes them to a temporary file next
// to the destination path, and atomically publishes that file read-only
// at path. After Finalize returns (successfully or not), the Builder must
// not be used again.
func (b *Builder) Finalize() error {
	if b.done {
		return fmt.Errorf("rofl: Finalize called twice")
	}
	b.done = true

	sort.Slice(b.entries, func(i, j int) bool {
		return bytes.Compare(b.entries[i].Key, b.entries[j].Key) < 0
	})
	for i := 1; i < len(b.entries); i++ {
		if bytes.Equal(b.entries[i-1].Key, b.entries[i].Key) {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, b.entries[i].Key)
		}
	}
	b.logger.Info("finalizing rofl file", "entries", len(b.entries), "path", b.resultPath)

	dir := filepath.Dir(b.resultPath)
	tmp, err := os.CreateTemp(dir, "rofl-builder.*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s): %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := dbfile.WriteFile(tmp, b.entries); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("dbfile.WriteFile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o444); err != nil {
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(tmpPath, b.resultPath); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	if err := os.Chmod(b.resultPath, 0o444); err != nil {
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}

	b.logger.Info("wrote rofl file", "path", b.resultPath)
	return nil
}
