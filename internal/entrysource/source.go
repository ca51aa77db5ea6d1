// Copyright 2026 Marko Milivojevic
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package entrysource produces the lazy, possibly-failing sequences of
// archive entries the tar pipeline consumes: filesystem trees filtered by
// glob, consistent SQLite snapshots, and inline literal payloads.
package entrysource

import (
	"context"
	"io"
)

// ArchiveEntry is one unit of content destined for the tar stream.
//
// Exactly one of PathSrc or ReaderSrc is set. PathSrc names a file on the
// host filesystem whose contents the tar writer reads directly; ReaderSrc is
// an owned byte stream (already open, already positioned at its start).
// Dst is the path recorded inside the archive and is always archive-relative
// — never resolved against the host filesystem.
type ArchiveEntry struct {
	PathSrc   string
	ReaderSrc io.ReadCloser
	Dst       string

	// release, if set, is called exactly once when the entry is done with,
	// whether or not the tar writer consumed it (e.g. to remove a scoped
	// temp file backing PathSrc).
	release func() error
}

// NewPathEntry builds an entry backed by a file already on disk.
func NewPathEntry(path, dst string, release func() error) ArchiveEntry {
	return ArchiveEntry{PathSrc: path, Dst: dst, release: release}
}

// NewReaderEntry builds an entry backed by an owned reader.
func NewReaderEntry(r io.ReadCloser, dst string) ArchiveEntry {
	return ArchiveEntry{ReaderSrc: r, Dst: dst}
}

// Close releases any resource backing the entry. Safe to call multiple
// times; only the first call has effect.
func (e *ArchiveEntry) Close() error {
	var err error
	if e.ReaderSrc != nil {
		err = e.ReaderSrc.Close()
		e.ReaderSrc = nil
	}
	if e.release != nil {
		release := e.release
		e.release = nil
		if rerr := release(); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

// Result is either a successfully produced entry or a per-element failure.
// One Err never stops the remaining sequence — only the caller decides
// whether to keep pulling.
type Result struct {
	Entry ArchiveEntry
	Err   error
}

// Iterator is a pull-based, possibly-failing sequence of entries.
type Iterator interface {
	// Next returns the next result and true, or a zero Result and false once
	// the sequence is exhausted.
	Next() (Result, bool)
}

// Source produces a lazy sequence of archive entries. An outer failure
// (e.g. a missing source directory) is reported as a single-element
// iterator yielding one Err, not by Entries itself returning an error — so
// every caller has one uniform failure path regardless of when the failure
// is discovered.
type Source interface {
	Entries(ctx context.Context) Iterator
}

// errIterator is a one-shot iterator yielding a single error result.
type errIterator struct {
	err  error
	done bool
}

func errOnly(err error) Iterator {
	return &errIterator{err: err}
}

func (it *errIterator) Next() (Result, bool) {
	if it.done {
		return Result{}, false
	}
	it.done = true
	return Result{Err: it.err}, true
}

// sliceIterator replays a pre-built slice of results. Used by sources whose
// entire sequence is known up front (Inline, Database).
type sliceIterator struct {
	results []Result
	i       int
}

func (it *sliceIterator) Next() (Result, bool) {
	if it.i >= len(it.results) {
		return Result{}, false
	}
	r := it.results[it.i]
	it.i++
	return r, true
}
