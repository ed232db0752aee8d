/*
Copyright (C) 2023  Carl-Philip Hänsch

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
	"iter"
	"time"

	"github.com/launix-de/chronostore/schema"
)

// Session is the top-level handle application code talks to: it owns a
// single Backend, selected once at startup from Settings.Backend, and
// forwards every call to it.
type Session struct {
	backend Backend
}

// NewSession selects and constructs a Backend according to Settings
// (populated by LoadSettings) and wraps it in a Session.
func NewSession(s SettingsT) (*Session, error) {
	backend, err := newBackend(s)
	if err != nil {
		return nil, err
	}
	return &Session{backend: backend}, nil
}

func newBackend(s SettingsT) (Backend, error) {
	switch s.Backend {
	case "":
		return nil, &ConfigError{Reason: "TIME_SERIES_BACKEND is required and was not set"}
	case "fs":
		return NewFilesystemBackend(s)
	case "timestream":
		return NewTimestreamBackend(s)
	case "redis":
		return NewRedisBackend(s)
	case "print":
		return NewPrintBackend(), nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown TIME_SERIES_BACKEND %q", s.Backend)}
	}
}

// PrepareType registers a record type with the session's backend.
func (sess *Session) PrepareType(d *schema.Descriptor) error {
	return sess.backend.PrepareType(d)
}

// Add buffers a point for persistence. It is the verb application code
// actually calls; Persist is the Backend-facing name.
func (sess *Session) Add(p schema.Point) error {
	return sess.backend.Persist(p)
}

// Query returns a lazy sequence of every point matching the given
// table, exact dimension values, and time range. See Backend.Query for
// the error-delivery contract.
func (sess *Session) Query(table string, dimensions map[string]any, start time.Time, end *time.Time) (iter.Seq2[schema.Point, error], error) {
	return sess.backend.Query(table, dimensions, start, end)
}

// Commit flushes buffered writes to durable storage.
func (sess *Session) Commit() error {
	return sess.backend.Commit()
}
