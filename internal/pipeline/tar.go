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

// Package pipeline drives the archive-build graph: entries flow from one or
// more source iterators through a tar writer, a compressor, and an
// encryptor, into a temp file that is atomically promoted on success.
package pipeline

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/icemarkom/backup-daemon/internal/entrysource"
)

// tarAppender writes one ArchiveEntry into tw and releases the entry's
// backing resource regardless of success.
func tarAppender(tw *tar.Writer, entry entrysource.ArchiveEntry) error {
	defer entry.Close()

	switch {
	case entry.PathSrc != "":
		return appendPath(tw, entry)
	case entry.ReaderSrc != nil:
		return appendReader(tw, entry)
	default:
		return fmt.Errorf("archive entry %s has neither a path nor a reader source", entry.Dst)
	}
}

func appendPath(tw *tar.Writer, entry entrysource.ArchiveEntry) error {
	f, err := os.Open(entry.PathSrc)
	if err != nil {
		return fmt.Errorf("opening %s: %w", entry.PathSrc, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", entry.PathSrc, err)
	}

	header, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return fmt.Errorf("building tar header for %s: %w", entry.Dst, err)
	}
	header.Name = entry.Dst

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing tar header for %s: %w", entry.Dst, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("writing tar data for %s: %w", entry.Dst, err)
	}
	return nil
}

// appendReader writes a ReaderSource entry (only the inline source yields
// one; the database snapshot is a PathSrc entry). The reader is read fully
// into memory first, so a precise header size is always written — there is
// no "unknown length, grow the header after the fact" fallback here.
func appendReader(tw *tar.Writer, entry entrysource.ArchiveEntry) error {
	data, err := io.ReadAll(entry.ReaderSrc)
	if err != nil {
		return fmt.Errorf("reading inline entry %s: %w", entry.Dst, err)
	}
	header := &tar.Header{
		Name: entry.Dst,
		Mode: 0o644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing tar header for %s: %w", entry.Dst, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing tar data for %s: %w", entry.Dst, err)
	}
	return nil
}
