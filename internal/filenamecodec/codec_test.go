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

package filenamecodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icemarkom/backup-daemon/internal/compress"
	"github.com/icemarkom/backup-daemon/internal/encrypt"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("", 5*3600))
	c := compress.Config{Method: compress.Lzma}
	e := encrypt.Config{Method: encrypt.Passphrase}

	name := Encode(now, "nightly", c, e)
	assert.Contains(t, name, "nightly.")
	assert.Contains(t, name, ".tar.xz.age")
	assert.NotContains(t, name, "+")

	parsed, ok := Parse(name, "nightly", c, e)
	require.True(t, ok)
	assert.True(t, now.Equal(parsed))
}

func TestEncodeNoCompressionOrEncryption(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	name := Encode(now, "base", compress.Config{Method: compress.None}, encrypt.Config{Method: encrypt.None})
	assert.Equal(t, "base", name[:len("base")])
	assert.Contains(t, name, ".tar")
	assert.NotContains(t, name, ".xz")
	assert.NotContains(t, name, ".age")
}

func TestParseRejectsWrongBase(t *testing.T) {
	now := time.Now()
	c := compress.Config{Method: compress.None}
	e := encrypt.Config{Method: encrypt.None}
	name := Encode(now, "nightly", c, e)

	_, ok := Parse(name, "other", c, e)
	assert.False(t, ok)
}

func TestParseRejectsWrongExtensionChain(t *testing.T) {
	now := time.Now()
	name := Encode(now, "nightly", compress.Config{Method: compress.None}, encrypt.Config{Method: encrypt.None})

	_, ok := Parse(name, "nightly", compress.Config{Method: compress.Lzma}, encrypt.Config{Method: encrypt.None})
	assert.False(t, ok)
}

func TestParseRejectsMalformedTimestamp(t *testing.T) {
	_, ok := Parse("nightly.not-a-timestamp.tar", "nightly", compress.Config{Method: compress.None}, encrypt.Config{Method: encrypt.None})
	assert.False(t, ok)
}
