/*
Copyright (C) 2025  MemCP Contributors

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
	"io"
	"os"
)

// pageEntry holds one cached fixed-size record and whether it needs to
// be flushed back to disk.
type pageEntry struct {
	data  []byte
	dirty bool
}

// PageCache is a random-access window over a file of fixed-size records,
// read-through and write-back, addressed by slot index. It is not safe
// for concurrent use; callers serialize access to it the same way the
// rest of the engine is single-threaded.
type PageCache struct {
	file       *os.File
	recordSize int
	entries    map[int]*pageEntry
}

// NewPageCache returns a cache over file, whose records are each
// recordSize bytes.
func NewPageCache(file *os.File, recordSize int) *PageCache {
	return &PageCache{
		file:       file,
		recordSize: recordSize,
		entries:    make(map[int]*pageEntry),
	}
}

// Get returns the record at slot i, reading it from the file and caching
// it (as clean) if it is not already cached.
func (c *PageCache) Get(i int) ([]byte, error) {
	if e, ok := c.entries[i]; ok {
		return e.data, nil
	}

	buf := make([]byte, c.recordSize)
	if _, err := c.file.Seek(int64(i)*int64(c.recordSize), os.SEEK_SET); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(c.file, buf); err != nil {
		return nil, err
	}
	c.entries[i] = &pageEntry{data: buf}
	return buf, nil
}

// Set writes content into slot i's cache entry, marking it dirty. An
// existing clean entry is promoted to dirty.
func (c *PageCache) Set(i int, content []byte) {
	cp := append([]byte(nil), content...)
	if e, ok := c.entries[i]; ok {
		e.data = cp
		e.dirty = true
		return
	}
	c.entries[i] = &pageEntry{data: cp, dirty: true}
}

// Swap exchanges the cached contents of slots i and j; a no-op when
// i == j. Both resulting entries are dirty. Either slot may need to be
// paged in from disk first.
func (c *PageCache) Swap(i, j int) error {
	if i == j {
		return nil
	}
	a, err := c.Get(i)
	if err != nil {
		return err
	}
	b, err := c.Get(j)
	if err != nil {
		return err
	}
	aCopy := append([]byte(nil), a...)
	c.Set(i, b)
	c.Set(j, aCopy)
	return nil
}

// Sync flushes every dirty slot to the file (in arbitrary order) and
// then evicts every cache entry with slot index below watermark. Clean
// entries at or above the watermark remain cached.
func (c *PageCache) Sync(watermark int) error {
	for i, e := range c.entries {
		if !e.dirty {
			continue
		}
		if _, err := c.file.Seek(int64(i)*int64(c.recordSize), os.SEEK_SET); err != nil {
			return err
		}
		if _, err := c.file.Write(e.data); err != nil {
			return err
		}
		e.dirty = false
	}

	for i := range c.entries {
		if i < watermark {
			delete(c.entries, i)
		}
	}
	return nil
}
