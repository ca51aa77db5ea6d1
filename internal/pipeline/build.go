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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/icemarkom/backup-daemon/internal/bkerr"
	"github.com/icemarkom/backup-daemon/internal/compress"
	"github.com/icemarkom/backup-daemon/internal/encrypt"
	"github.com/icemarkom/backup-daemon/internal/entrysource"
	"github.com/icemarkom/backup-daemon/internal/filenamecodec"
	"github.com/icemarkom/backup-daemon/internal/retention"
)

// BackupSpec is the daemon's static, shared-immutable configuration. It is
// constructed once by config.Load and never mutated thereafter.
type BackupSpec struct {
	Cron       string
	BaseName   string
	OutDir     string
	Sources    []entrysource.Source
	Compressor compress.Config
	Encryptor  encrypt.Config
	Retention  *retention.Config
}

// ProgressReporter receives one increment per archive entry the consumer
// successfully drains. Build calls it from a single goroutine, so an
// implementation need not be concurrency-safe.
type ProgressReporter interface {
	Increment()
}

type noopProgress struct{}

func (noopProgress) Increment() {}

// NoopProgress is a ProgressReporter that discards every increment, used
// when the caller runs without --verbose.
var NoopProgress ProgressReporter = noopProgress{}

// consumerResult is what the consumer goroutine reports once it has drained
// the entry channel and finished every pipeline stage.
type consumerResult struct {
	tempPath string
	nonFatal error
	fatal    error
}

// Build runs one archive-build firing: enumerate every configured source
// through p worker slots, stream the results through tar, compress, and
// encrypt, and atomically promote the result into spec.OutDir.
//
// It returns (finalPath, nonFatal) on success — nonFatal is non-nil only if
// some entries were skipped — or ("", fatal) wrapping a bkerr.Error when the
// build itself could not complete.
func Build(ctx context.Context, now time.Time, p int, spec BackupSpec, log logrus.FieldLogger, progress ProgressReporter) (string, error) {
	if progress == nil {
		progress = NoopProgress
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make(chan entrysource.Result, p)

	producerDone := make(chan error, 1)
	go runProducer(ctx, spec.Sources, p, entries, producerDone)

	consumerDone := make(chan consumerResult, 1)
	go runConsumer(ctx, cancel, spec, now, entries, progress, consumerDone)

	consumer := <-consumerDone

	if consumer.fatal != nil {
		if consumer.tempPath != "" {
			os.Remove(consumer.tempPath)
		}
		producerErr := <-producerDone
		return "", bkerr.ChainAll(asErr(consumer.fatal), asErr(producerErr))
	}

	finalPath, promoteErr := promote(consumer.tempPath, spec.OutDir, spec.BaseName, spec.Compressor, spec.Encryptor, now)
	if promoteErr != nil {
		os.Remove(consumer.tempPath)
		return "", bkerr.Wrap(bkerr.KindIO, promoteErr, "promoting build output")
	}

	producerErr := <-producerDone

	nonFatal := bkerr.ChainAll(asErr(consumer.nonFatal), asErr(producerErr))
	if nonFatal != nil {
		return finalPath, nonFatal
	}
	return finalPath, nil
}

func asErr(err error) *bkerr.Error {
	if err == nil {
		return nil
	}
	var be *bkerr.Error
	if errors.As(err, &be) {
		return be
	}
	return bkerr.Wrap(bkerr.KindIO, err, "")
}

// runProducer fans one sub-task per configured source out onto an errgroup
// bounded by p, and forwards every result onto entries in whatever order
// the sub-tasks produce them. It closes entries once every sub-task has
// finished, and reports the aggregate of every per-element Err it observed.
func runProducer(ctx context.Context, sources []entrysource.Source, p int, entries chan<- entrysource.Result, done chan<- error) {
	defer close(entries)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p)

	var nonFatal *bkerr.Error
	resultsCh := make(chan error, len(sources))

	for _, src := range sources {
		src := src
		g.Go(func() error {
			it := src.Entries(gctx)
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				r, ok := it.Next()
				if !ok {
					return nil
				}
				if r.Err != nil {
					resultsCh <- r.Err
					continue
				}
				select {
				case entries <- r:
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	go func() {
		g.Wait()
		close(resultsCh)
	}()
	for err := range resultsCh {
		nonFatal = bkerr.Chain(nonFatal, bkerr.Wrap(bkerr.KindDirWalk, err, "enumerating entry"))
	}

	if nonFatal == nil {
		done <- nil
		return
	}
	done <- nonFatal
}

// runConsumer opens the temp output file, builds the tar→compress→encrypt
// stack over it, and drains entries until the channel closes or a fatal
// stage failure occurs.
func runConsumer(ctx context.Context, cancel context.CancelFunc, spec BackupSpec, now time.Time, entries <-chan entrysource.Result, progress ProgressReporter, done chan<- consumerResult) {
	tempFile, err := os.CreateTemp(spec.OutDir, ".build-*")
	if err != nil {
		done <- consumerResult{fatal: bkerr.Wrap(bkerr.KindIO, err, "creating temp output file")}
		return
	}
	tempPath := tempFile.Name()

	comp, err := compress.New(spec.Compressor)
	if err != nil {
		tempFile.Close()
		done <- consumerResult{tempPath: tempPath, fatal: bkerr.Wrap(bkerr.KindCompression, err, "constructing compressor")}
		return
	}
	enc, err := encrypt.New(spec.Encryptor)
	if err != nil {
		tempFile.Close()
		done <- consumerResult{tempPath: tempPath, fatal: bkerr.Wrap(bkerr.KindEncryption, err, "constructing encryptor")}
		return
	}

	encWriter, err := enc.Wrap(tempFile)
	if err != nil {
		tempFile.Close()
		done <- consumerResult{tempPath: tempPath, fatal: bkerr.Wrap(bkerr.KindEncryption, err, "opening encryption stream")}
		return
	}
	compWriter, err := comp.Wrap(encWriter)
	if err != nil {
		encWriter.Close()
		tempFile.Close()
		done <- consumerResult{tempPath: tempPath, fatal: bkerr.Wrap(bkerr.KindCompression, err, "opening compression stream")}
		return
	}
	tw := tar.NewWriter(compWriter)

	var nonFatal *bkerr.Error
	var fatal *bkerr.Error

	// Only a true I/O/tar/compress/encrypt failure aborts the build; a
	// per-element enumeration Err is folded into the non-fatal accumulator
	// and never stops the drain.
	for r := range entries {
		if r.Err != nil {
			nonFatal = bkerr.Chain(nonFatal, bkerr.Wrap(bkerr.KindDirWalk, r.Err, "enumerating entry"))
			continue
		}
		if err := tarAppender(tw, r.Entry); err != nil {
			fatal = bkerr.Wrap(bkerr.KindIO, err, "appending entry")
			cancel()
			break
		}
		progress.Increment()
	}

	if fatal == nil {
		if err := tw.Close(); err != nil {
			fatal = bkerr.Wrap(bkerr.KindIO, err, "finishing tar stream")
		}
	}
	if fatal == nil {
		if err := compWriter.Close(); err != nil {
			fatal = bkerr.Wrap(bkerr.KindCompression, err, "finishing compression stream")
		}
	}
	if fatal == nil {
		if err := encWriter.Close(); err != nil {
			fatal = bkerr.Wrap(bkerr.KindEncryption, err, "finishing encryption stream")
		}
	}
	if err := tempFile.Close(); err != nil && fatal == nil {
		fatal = bkerr.Wrap(bkerr.KindIO, err, "closing temp output file")
	}

	if fatal != nil {
		cancel()
	}

	done <- consumerResult{tempPath: tempPath, nonFatal: errOrNil(nonFatal), fatal: errOrNil(fatal)}
}

func errOrNil(e *bkerr.Error) error {
	if e == nil {
		return nil
	}
	return e
}

// promote atomically moves tempPath into spec.OutDir under the timestamped
// final name. A cross-device rename (EXDEV) falls back to copy+remove.
func promote(tempPath, outDir, base string, c compress.Config, e encrypt.Config, now time.Time) (string, error) {
	finalName := filenamecodec.Encode(now, base, c, e)
	finalPath := filepath.Join(outDir, finalName)

	if err := os.Rename(tempPath, finalPath); err != nil {
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
			return "", fmt.Errorf("renaming temp output to %s: %w", finalPath, err)
		}
		if err := copyAcrossDevices(tempPath, finalPath); err != nil {
			return "", err
		}
	}
	return finalPath, nil
}

func copyAcrossDevices(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening temp output %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating final output %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := ioCopy(out, in); err != nil {
		return fmt.Errorf("copying temp output to %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing temp output %s: %w", src, err)
	}
	return nil
}

func ioCopy(dst, src *os.File) (int64, error) {
	return io.Copy(dst, src)
}
