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

// Package filenamecodec encodes and parses the timestamped archive filename
// the scheduler recognizes on disk: {base}.{timestamp}.{ext chain}.
package filenamecodec

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/icemarkom/backup-daemon/internal/compress"
	"github.com/icemarkom/backup-daemon/internal/encrypt"
)

// layout produces a timestamp of the shape 2006-01-02T15h04m05s-0700. A "+"
// zone offset collides with no other character in the layout, so it is the
// only rune that needs filesystem escaping.
const layout = "2006-01-02T15h04m05s-0700"

// extChain returns the filename's extension suffix for the given
// compression and encryption configuration: always "tar", optionally
// followed by the compressor's and then the encryptor's extension.
func extChain(c compress.Config, e encrypt.Config) string {
	parts := []string{"tar"}
	if ext := c.Method.Extension(); ext != "" {
		parts = append(parts, ext)
	}
	if ext := e.Method.Extension(); ext != "" {
		parts = append(parts, ext)
	}
	return strings.Join(parts, ".")
}

// Encode formats now and appends the extension chain implied by c and e.
func Encode(now time.Time, base string, c compress.Config, e encrypt.Config) string {
	ts := now.Format(layout)
	ts = strings.ReplaceAll(ts, "+", "_")
	return base + "." + ts + "." + extChain(c, e)
}

// Parse reports whether path names an archive produced by Encode for base,
// c, and e, and if so the timestamp it encodes. It never returns an error:
// any mismatch — wrong base, wrong extension chain, malformed timestamp —
// is reported as (zero, false), since conflating "not a match" with "I/O
// failure" is not a distinction this codec makes.
func Parse(path string, base string, c compress.Config, e encrypt.Config) (time.Time, bool) {
	name := filepath.Base(path)

	prefix := base + "."
	if !strings.HasPrefix(name, prefix) {
		return time.Time{}, false
	}
	suffix := "." + extChain(c, e)
	if !strings.HasSuffix(name, suffix) {
		return time.Time{}, false
	}

	middle := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	if middle == "" {
		return time.Time{}, false
	}
	middle = strings.ReplaceAll(middle, "_", "+")

	t, err := time.Parse(layout, middle)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
