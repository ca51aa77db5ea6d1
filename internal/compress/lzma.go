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
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
	"golang.org/x/sync/errgroup"
)

// blockSize is the amount of input buffered per independent xz stream when
// Threads > 1. Concatenated xz streams form one valid xz file, so a single
// decoder reads the concatenation back as one logical stream.
const blockSize = 4 << 20 // 4 MiB

type lzmaCompressor struct {
	cfg Config
}

func newLzmaCompressor(cfg Config) Compressor {
	return &lzmaCompressor{cfg: cfg}
}

func (c *lzmaCompressor) Type() Method {
	return Lzma
}

func (c *lzmaCompressor) Wrap(w io.Writer) (io.WriteCloser, error) {
	threads := c.cfg.ResolveThreads()
	if threads <= 1 {
		return newSingleStreamWriter(w, c.cfg.Level)
	}
	return newMultiStreamWriter(w, c.cfg.Level, threads)
}

func singleStreamConfig(level int) xz.WriterConfig {
	return xz.WriterConfig{DictCap: levelToDictCap(level)}
}

func newSingleStreamWriter(w io.Writer, level int) (io.WriteCloser, error) {
	xw, err := singleStreamConfig(level).NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("initializing xz writer: %w", err)
	}
	return xw, nil
}

// multiStreamWriter buffers input into blockSize chunks, compresses each
// chunk as an independent xz stream (with a CRC64 integrity check) on a
// worker pool bounded by threads, and writes the finished streams to the
// underlying writer strictly in block order.
type multiStreamWriter struct {
	level   int
	pending bytes.Buffer

	g       *errgroup.Group
	order   chan chan []byte
	drainer chan error
	out     io.Writer

	closed bool
}

func newMultiStreamWriter(w io.Writer, level, threads int) (io.WriteCloser, error) {
	g := new(errgroup.Group)
	g.SetLimit(threads)

	order := make(chan chan []byte, threads*2)
	drainer := make(chan error, 1)

	go func() {
		for slot := range order {
			block := <-slot
			if block == nil {
				continue
			}
			if _, err := w.Write(block); err != nil {
				drainer <- fmt.Errorf("writing compressed block: %w", err)
				// Drain remaining slots so producers never block forever.
				for range order {
				}
				return
			}
		}
		drainer <- nil
	}()

	return &multiStreamWriter{level: level, g: g, order: order, drainer: drainer, out: w}, nil
}

func (m *multiStreamWriter) Write(p []byte) (int, error) {
	n, _ := m.pending.Write(p)
	for m.pending.Len() >= blockSize {
		chunk := make([]byte, blockSize)
		copy(chunk, m.pending.Next(blockSize))
		m.submit(chunk)
	}
	return n, nil
}

func (m *multiStreamWriter) submit(chunk []byte) {
	slot := make(chan []byte, 1)
	m.order <- slot
	m.g.Go(func() error {
		var buf bytes.Buffer
		cfg := xz.WriterConfig{DictCap: levelToDictCap(m.level), CheckSum: xz.CRC64}
		xw, err := cfg.NewWriter(&buf)
		if err != nil {
			slot <- nil
			return fmt.Errorf("initializing xz block writer: %w", err)
		}
		if _, err := xw.Write(chunk); err != nil {
			slot <- nil
			return fmt.Errorf("compressing block: %w", err)
		}
		if err := xw.Close(); err != nil {
			slot <- nil
			return fmt.Errorf("finishing block: %w", err)
		}
		slot <- buf.Bytes()
		return nil
	})
}

func (m *multiStreamWriter) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	if m.pending.Len() > 0 {
		chunk := make([]byte, m.pending.Len())
		copy(chunk, m.pending.Bytes())
		m.submit(chunk)
		m.pending.Reset()
	}

	compressErr := m.g.Wait()
	close(m.order)
	writeErr := <-m.drainer

	if compressErr != nil {
		return compressErr
	}
	return writeErr
}
