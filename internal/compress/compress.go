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

// Package compress implements the archive's writer-wrapping compression
// stage: identity or LZMA.
package compress

import (
	"fmt"
	"io"
	"runtime"
)

// Method is a closed set of supported compression algorithms.
type Method int

const (
	// None disables compression (passthrough).
	None Method = iota
	// Lzma compresses with LZMA2 (xz container format).
	Lzma
)

const (
	MethodNone = "none"
	MethodLzma = "xz"
)

func (m Method) String() string {
	switch m {
	case None:
		return MethodNone
	case Lzma:
		return MethodLzma
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Extension returns the filename suffix this method contributes to the ext
// chain (without a leading dot separator handling — callers join with ".").
func (m Method) Extension() string {
	switch m {
	case Lzma:
		return "xz"
	default:
		return ""
	}
}

// Config configures the compression stage.
type Config struct {
	Method  Method
	Level   int // 0..9, meaningful only for Lzma
	Threads int // >=1, meaningful only for Lzma; 0 means "pick a default"
}

// ResolveThreads returns the configured thread count, clamped to [1,32], or
// the runtime default (half the available cores, at least 1, at most 32) if
// Threads is unset.
func (c Config) ResolveThreads() int {
	if c.Threads <= 0 {
		n := runtime.NumCPU() / 2
		if n < 1 {
			n = 1
		}
		if n > 32 {
			n = 32
		}
		return n
	}
	if c.Threads > 32 {
		return 32
	}
	return c.Threads
}

// Compressor is a writer-wrapping compression stage. Wrap returns a writer
// whose Close both flushes the compressed stream and finishes it — there is
// no separate Finish step, since io.WriteCloser.Close already has exactly
// that contract.
type Compressor interface {
	Wrap(w io.Writer) (io.WriteCloser, error)
	Type() Method
}

// New constructs a Compressor for cfg.
func New(cfg Config) (Compressor, error) {
	switch cfg.Method {
	case None:
		return noneCompressor{}, nil
	case Lzma:
		return newLzmaCompressor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown compression method: %v", cfg.Method)
	}
}
