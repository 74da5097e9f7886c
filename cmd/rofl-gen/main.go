// Copyright 2024 The rofl Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command rofl-gen builds a ROFL file from a text input of "key\tvalue"
// lines, one pair per line.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/romland/rofl"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rofl-gen:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rofl-gen", flag.ContinueOnError)
	input := fs.String("in", "-", `input path, or "-" for stdin`)
	output := fs.String("out", "", "output .rofl path (required)")
	verbose := fs.Bool("v", false, "log progress while building")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("-out is required")
	}

	in := os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	var opts []rofl.BuilderOption
	if *verbose {
		opts = append(opts, rofl.WithBuilderLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	b, err := rofl.NewBuilder(*output, opts...)
	if err != nil {
		return fmt.Errorf("rofl.NewBuilder: %w", err)
	}

	if err := load(in, b); err != nil {
		return err
	}

	if err := b.Finalize(); err != nil {
		return fmt.Errorf("Finalize: %w", err)
	}
	return nil
}

// load reads "key\tvalue" lines from r and stages each as a Put against b.
func load(r io.Reader, b *rofl.Builder) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		key, value, ok := bytes.Cut(line, []byte("\t"))
		if !ok {
			return fmt.Errorf("line %d: missing tab separator", lineNo)
		}
		if err := b.Put(bytes.Clone(key), bytes.Clone(value)); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}
	return nil
}
