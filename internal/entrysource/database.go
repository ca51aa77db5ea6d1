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
	"database/sql"
	"fmt"
	"os"

	"github.com/mattn/go-sqlite3"
)

// Database snapshots a live SQLite file via SQLite's own online-backup API,
// so the copy is transactionally consistent even while writers hold the
// source open. Dst is the path recorded inside the archive.
type Database struct {
	SrcFile string
	Dst     string
}

func (d Database) Entries(ctx context.Context) Iterator {
	entry, err := d.backup(ctx)
	if err != nil {
		return errOnly(err)
	}
	return &sliceIterator{results: []Result{{Entry: entry}}}
}

func (d Database) backup(ctx context.Context) (ArchiveEntry, error) {
	srcDSN := fmt.Sprintf("file:%s?mode=ro&_mutex=no", d.SrcFile)
	srcDB, err := sql.Open("sqlite3", srcDSN)
	if err != nil {
		return ArchiveEntry{}, fmt.Errorf("opening %s read-only: %w", d.SrcFile, err)
	}
	defer srcDB.Close()

	tmp, err := os.CreateTemp("", "backup-db-*.sqlite")
	if err != nil {
		return ArchiveEntry{}, fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	dstDB, err := sql.Open("sqlite3", tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return ArchiveEntry{}, fmt.Errorf("opening snapshot destination %s: %w", tmpPath, err)
	}
	defer dstDB.Close()

	if err := copyOnline(ctx, srcDB, dstDB); err != nil {
		os.Remove(tmpPath)
		return ArchiveEntry{}, err
	}

	return NewPathEntry(tmpPath, d.Dst, func() error {
		return os.Remove(tmpPath)
	}), nil
}

// copyOnline drives sqlite3's backup API to completion: a sequence of
// Step(-1) calls until the copy reports done, exactly once per entry.
func copyOnline(ctx context.Context, srcDB, dstDB *sql.DB) error {
	srcConn, err := srcDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring source connection: %w", err)
	}
	defer srcConn.Close()

	dstConn, err := dstDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring destination connection: %w", err)
	}
	defer dstConn.Close()

	var backupErr error
	rawErr := dstConn.Raw(func(dstDriverConn any) error {
		dstSQLiteConn, ok := dstDriverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("destination connection is not a sqlite3 connection")
		}
		return srcConn.Raw(func(srcDriverConn any) error {
			srcSQLiteConn, ok := srcDriverConn.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("source connection is not a sqlite3 connection")
			}
			backup, err := dstSQLiteConn.Backup("main", srcSQLiteConn, "main")
			if err != nil {
				return fmt.Errorf("starting online backup: %w", err)
			}
			defer backup.Close()
			for {
				done, stepErr := backup.Step(-1)
				if stepErr != nil {
					backupErr = fmt.Errorf("backup step: %w", stepErr)
					return nil
				}
				if done {
					return nil
				}
			}
		})
	})
	if rawErr != nil {
		return rawErr
	}
	return backupErr
}
