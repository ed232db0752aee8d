/*
Copyright (C) 2024  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// dayFile is one file holding every record for a single (table,
// dimension tuple, calendar day) triple. It accumulates newly persisted
// records in RAM and merges them into the existing sorted prefix on
// Commit.
type dayFile struct {
	path       string
	recordSize int
	bs         *BinaryStruct

	file      *os.File
	diskCount int // -1 means "not yet computed"
	pending   [][]byte
	cache     *PageCache
}

// openDayFile opens path for read+write, creating parent directories and
// the file itself if absent.
func openDayFile(path string, bs *BinaryStruct) (*dayFile, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0750); mkErr != nil {
			return nil, fmt.Errorf("chronostore: %s: %w", path, mkErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("chronostore: %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0640)
	if err != nil {
		return nil, fmt.Errorf("chronostore: %s: %w", path, err)
	}

	df := &dayFile{
		path:       path,
		recordSize: bs.Size,
		bs:         bs,
		file:       f,
		diskCount:  -1,
	}
	df.cache = NewPageCache(f, bs.Size)
	return df, nil
}

// append pushes a freshly encoded record onto the RAM buffer. O(1),
// cannot fail.
func (d *dayFile) append(record []byte) {
	d.pending = append(d.pending, record)
}

// len returns the on-disk record count, computed once and cached until
// invalidated by a write.
func (d *dayFile) len() (int, error) {
	if d.diskCount < 0 {
		stat, err := d.file.Stat()
		if err != nil {
			return 0, fmt.Errorf("chronostore: %s: %w", d.path, err)
		}
		d.diskCount = int(stat.Size()) / d.recordSize
	}
	return d.diskCount, nil
}

// key returns the timestamp of the record at slot i, via the page
// cache, satisfying the orderedFile interface the merger operates on.
func (d *dayFile) key(i int) (uint32, error) {
	raw, err := d.cache.Get(i)
	if err != nil {
		return 0, fmt.Errorf("chronostore: %s: %w", d.path, err)
	}
	return d.bs.Timestamp(raw)
}

func (d *dayFile) swap(i, j int) error {
	if err := d.cache.Swap(i, j); err != nil {
		return fmt.Errorf("chronostore: %s: %w", d.path, err)
	}
	return nil
}

// commit runs the full write path: sort the RAM buffer, seed the cache
// if there is an existing sorted prefix, append to the file, merge,
// sync, and close.
func (d *dayFile) commit() error {
	n, err := d.len()
	if err != nil {
		return err
	}
	k := len(d.pending)

	sort.Slice(d.pending, func(i, j int) bool {
		ti, _ := d.bs.Timestamp(d.pending[i])
		tj, _ := d.bs.Timestamp(d.pending[j])
		return ti < tj
	})

	if n > 0 {
		for i, record := range d.pending {
			d.cache.Set(n+i, record)
		}
	}

	if k > 0 {
		if _, err := d.file.Seek(0, os.SEEK_END); err != nil {
			return fmt.Errorf("chronostore: %s: %w", d.path, err)
		}
		for _, record := range d.pending {
			if _, err := d.file.Write(record); err != nil {
				return fmt.Errorf("chronostore: %s: %w", d.path, err)
			}
		}
		d.diskCount = -1
	}

	total := n + k
	if n > 0 && k > 0 {
		slog.Debug("chronostore: merging day file", "path", d.path, "sorted_prefix", n, "appended", k)
		if err := mergeInPlace(d, k, total, d.cache.Sync); err != nil {
			return fmt.Errorf("chronostore: %s: %w", d.path, err)
		}
	}

	if err := d.cache.Sync(total); err != nil {
		return fmt.Errorf("chronostore: %s: %w", d.path, err)
	}

	d.pending = nil
	d.diskCount = -1

	return d.file.Close()
}

// entries sequentially reads records from offset 0 to EOF, yielding each
// record's raw bytes to yield. Iteration stops, without error, the
// first time a record's timestamp exceeds endTime — safe only because
// the file is sorted at rest. yield returning false stops iteration
// early without further I/O, for a caller that abandons a query before
// scanning every candidate file.
func (d *dayFile) entries(endTime *uint32, yield func(record []byte) bool) error {
	if _, err := d.file.Seek(0, os.SEEK_SET); err != nil {
		return fmt.Errorf("chronostore: %s: %w", d.path, err)
	}
	stat, err := d.file.Stat()
	if err != nil {
		return fmt.Errorf("chronostore: %s: %w", d.path, err)
	}
	eof := stat.Size()

	buf := make([]byte, d.recordSize)
	var offset int64
	for offset < eof {
		n, err := d.file.Read(buf)
		if err != nil {
			return fmt.Errorf("chronostore: %s: %w", d.path, err)
		}
		if n < d.recordSize {
			return &DecodeError{Field: "record", Reason: "short read"}
		}

		ts, err := d.bs.Timestamp(buf)
		if err != nil {
			return err
		}
		if endTime != nil && ts > *endTime {
			break
		}

		if !yield(buf) {
			break
		}
		offset += int64(d.recordSize)
	}
	return nil
}

// close releases the underlying file handle without running commit,
// used when a query-only day file is done being scanned.
func (d *dayFile) close() error {
	return d.file.Close()
}
