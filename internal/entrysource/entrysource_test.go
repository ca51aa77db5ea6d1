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
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, it Iterator) []Result {
	t.Helper()
	var out []Result
	for {
		r, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}

func TestFilesystemMatchesDefaultGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b"), 0o644))

	f := Filesystem{SrcDir: dir, DstDir: "data"}
	results := drain(t, f.Entries(context.Background()))

	var dsts []string
	for _, r := range results {
		require.NoError(t, r.Err)
		dsts = append(dsts, r.Entry.Dst)
	}
	sort.Strings(dsts)
	assert.Equal(t, []string{"data/a.txt", "data/sub/b.txt"}, dsts)
}

func TestFilesystemRestrictsByGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("a"), 0o644))

	f := Filesystem{SrcDir: dir, Globs: []string{"*.txt"}}
	results := drain(t, f.Entries(context.Background()))
	require.Len(t, results, 1)
	assert.Equal(t, "a.txt", results[0].Entry.Dst)
}

func TestFilesystemMissingDirYieldsSingleError(t *testing.T) {
	f := Filesystem{SrcDir: filepath.Join(t.TempDir(), "nope")}
	results := drain(t, f.Entries(context.Background()))
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestGlobMatchDoubleStarCrossesDirectories(t *testing.T) {
	assert.True(t, matchGlob("**/*.txt", "a/b/c.txt"))
	assert.True(t, matchGlob("**/*.txt", "c.txt"))
	assert.False(t, matchGlob("*.txt", "a/b.txt"))
	assert.True(t, matchGlob("*.txt", "b.txt"))
}

func TestInlineDecodesEagerlyAndYieldsOnce(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))
	src, err := NewInline(payload, "notes/hello.txt")
	require.NoError(t, err)

	results := drain(t, src.Entries(context.Background()))
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	data, err := io.ReadAll(results[0].Entry.ReaderSrc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestInlineRejectsMalformedPayloadAtConstruction(t *testing.T) {
	_, err := NewInline("not-valid-base64!!!", "x")
	assert.Error(t, err)
}
