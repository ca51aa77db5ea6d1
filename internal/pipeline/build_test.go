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

package pipeline

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icemarkom/backup-daemon/internal/compress"
	"github.com/icemarkom/backup-daemon/internal/encrypt"
	"github.com/icemarkom/backup-daemon/internal/entrysource"
)

func TestBuildProducesReadableTarArchive(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("alpha"), 0o644))

	spec := BackupSpec{
		BaseName: "nightly",
		OutDir:   outDir,
		Sources: []entrysource.Source{
			entrysource.Filesystem{SrcDir: srcDir, DstDir: "files"},
		},
		Compressor: compress.Config{Method: compress.None},
		Encryptor:  encrypt.Config{Method: encrypt.None},
	}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	path, err := Build(context.Background(), now, 2, spec, nil, nil)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	tr := tar.NewReader(f)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	assert.Equal(t, []string{"files/a.txt"}, names)
}

func TestBuildSurvivesPerElementEnumerationFailure(t *testing.T) {
	outDir := t.TempDir()

	spec := BackupSpec{
		BaseName: "nightly",
		OutDir:   outDir,
		Sources: []entrysource.Source{
			entrysource.Filesystem{SrcDir: filepath.Join(outDir, "does-not-exist")},
		},
		Compressor: compress.Config{Method: compress.None},
		Encryptor:  encrypt.Config{Method: encrypt.None},
	}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	path, err := Build(context.Background(), now, 2, spec, nil, nil)
	require.Error(t, err, "missing source directory becomes a non-fatal enumeration error")
	require.NotEmpty(t, path, "build must still succeed and promote an (empty) archive")
	require.FileExists(t, path)
}

func TestBuildCompressesWithLzma(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("alpha"), 0o644))

	spec := BackupSpec{
		BaseName: "nightly",
		OutDir:   outDir,
		Sources: []entrysource.Source{
			entrysource.Filesystem{SrcDir: srcDir},
		},
		Compressor: compress.Config{Method: compress.Lzma, Threads: 1},
		Encryptor:  encrypt.Config{Method: encrypt.None},
	}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	path, err := Build(context.Background(), now, 2, spec, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, path, ".tar.xz")
}
