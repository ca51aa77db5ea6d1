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

package entrysource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem walks SrcDir and emits every regular file whose path relative
// to SrcDir matches the union of Globs. A symlinked regular file is included
// since stat, not lstat, decides at the leaf. Symlinked directories are not
// descended into.
type Filesystem struct {
	SrcDir string
	DstDir string
	Globs  []string
}

func (f Filesystem) Entries(ctx context.Context) Iterator {
	info, err := os.Stat(f.SrcDir)
	if err != nil {
		return errOnly(fmt.Errorf("stat %s: %w", f.SrcDir, err))
	}
	if !info.IsDir() {
		return errOnly(fmt.Errorf("%s is not a directory", f.SrcDir))
	}
	return &filesystemIterator{f: f, ctx: ctx}
}

// filesystemIterator walks SrcDir lazily via filepath.WalkDir driven from a
// background goroutine that feeds a buffered channel, so a caller that stops
// pulling early leaks no more than one pending walk callback.
type filesystemIterator struct {
	f       Filesystem
	ctx     context.Context
	ch      chan Result
	started bool
}

func (it *filesystemIterator) start() {
	it.ch = make(chan Result, 16)
	go func() {
		defer close(it.ch)
		_ = filepath.WalkDir(it.f.SrcDir, func(path string, d os.DirEntry, err error) error {
			select {
			case <-it.ctx.Done():
				return it.ctx.Err()
			default:
			}
			if err != nil {
				it.ch <- Result{Err: fmt.Errorf("walking %s: %w", path, err)}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			st, statErr := os.Stat(path)
			if statErr != nil {
				it.ch <- Result{Err: fmt.Errorf("stat %s: %w", path, statErr)}
				return nil
			}
			if !st.Mode().IsRegular() {
				return nil
			}
			rel, relErr := filepath.Rel(it.f.SrcDir, path)
			if relErr != nil {
				it.ch <- Result{Err: fmt.Errorf("relativizing %s: %w", path, relErr)}
				return nil
			}
			slashRel := filepath.ToSlash(rel)
			if !matchAny(it.f.Globs, slashRel) {
				return nil
			}
			dst := rel
			if it.f.DstDir != "" {
				dst = filepath.Join(it.f.DstDir, rel)
			}
			it.ch <- Result{Entry: NewPathEntry(path, filepath.ToSlash(dst), nil)}
			return nil
		})
	}()
}

func (it *filesystemIterator) Next() (Result, bool) {
	if !it.started {
		it.started = true
		it.start()
	}
	r, ok := <-it.ch
	return r, ok
}
