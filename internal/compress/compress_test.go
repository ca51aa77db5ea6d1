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

package compress

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestNoneRoundTrip(t *testing.T) {
	c, err := New(Config{Method: None})
	require.NoError(t, err)
	assert.Equal(t, None, c.Type())

	var out bytes.Buffer
	w, err := c.Wrap(&out)
	require.NoError(t, err)

	_, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "hello world", out.String())
}

func TestLzmaSingleThreadRoundTrip(t *testing.T) {
	c, err := New(Config{Method: Lzma, Level: 6, Threads: 1})
	require.NoError(t, err)
	assert.Equal(t, Lzma, c.Type())

	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 500)

	var out bytes.Buffer
	w, err := c.Wrap(&out)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	xr, err := xz.NewReader(&out)
	require.NoError(t, err)
	decoded, err := io.ReadAll(xr)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestLzmaMultiThreadRoundTrip(t *testing.T) {
	c, err := New(Config{Method: Lzma, Level: 1, Threads: 4})
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("0123456789abcdef"), (2*blockSize+blockSize/2)/16) // > 2 blocks

	var out bytes.Buffer
	w, err := c.Wrap(&out)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Concatenated xz streams decode back as one logical stream.
	r := bytes.NewReader(out.Bytes())
	var decoded bytes.Buffer
	for r.Len() > 0 {
		xr, err := xz.NewReader(r)
		require.NoError(t, err)
		_, err = io.Copy(&decoded, xr)
		require.NoError(t, err)
	}
	assert.Equal(t, payload, decoded.Bytes())
}

func TestResolveThreadsClampsAndDefaults(t *testing.T) {
	def := Config{Threads: 0}.ResolveThreads()
	assert.GreaterOrEqual(t, def, 1)
	assert.LessOrEqual(t, def, 32)

	assert.Equal(t, 32, Config{Threads: 1000}.ResolveThreads())
	assert.Equal(t, 1, Config{Threads: 1}.ResolveThreads())
}

func TestLevelToDictCapClamps(t *testing.T) {
	assert.Equal(t, levelDictCaps[0], levelToDictCap(-5))
	assert.Equal(t, levelDictCaps[9], levelToDictCap(42))
	assert.Equal(t, levelDictCaps[3], levelToDictCap(3))
}

func TestUnknownMethod(t *testing.T) {
	_, err := New(Config{Method: Method(99)})
	assert.Error(t, err)
}
