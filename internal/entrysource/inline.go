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
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// Inline emits a single literal payload. NewInline decodes eagerly, so a
// malformed payload fails at construction time rather than during a backup
// run.
type Inline struct {
	decoded []byte
	dst     string
}

// NewInline decodes b64 and returns a Source yielding exactly that payload
// at Dst. An error here means the configured payload itself is malformed,
// not that anything went wrong during a run.
func NewInline(b64, dst string) (Inline, error) {
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Inline{}, fmt.Errorf("decoding inline payload for %s: %w", dst, err)
	}
	return Inline{decoded: decoded, dst: dst}, nil
}

func (i Inline) Entries(ctx context.Context) Iterator {
	reader := io.NopCloser(bytes.NewReader(i.decoded))
	entry := NewReaderEntry(reader, i.dst)
	return &sliceIterator{results: []Result{{Entry: entry}}}
}
