package storage

import (
	"iter"
	"time"

	"github.com/launix-de/chronostore/schema"
)

// Backend is the contract every storage backend implements: register a
// record type, persist points for it, query a time range of points back,
// and flush buffered writes. The filesystem backend is the primary
// implementation; the remaining backends are thin adapters onto an
// external system and some, like Timestream, do not support Query.
type Backend interface {
	// PrepareType registers d so Persist/Query can be called for its
	// table. Calling it twice for the same table is a no-op.
	PrepareType(d *schema.Descriptor) error

	// Persist buffers p for later Commit. Implementations that cannot
	// buffer (print, redis) may write through immediately instead.
	Persist(p schema.Point) error

	// Query returns a lazy sequence of every point of table whose
	// dimension values match dimensions exactly and whose timestamp
	// falls in [start, end] (end == nil means unbounded), paired with
	// a per-item error. The returned sequence does no I/O until ranged
	// over, and a consumer may stop ranging at any point without
	// triggering further I/O. The second return value reports only
	// errors that prevent the query from starting at all (an unknown
	// table, a failed directory walk); errors encountered mid-scan are
	// delivered through the sequence itself.
	Query(table string, dimensions map[string]any, start time.Time, end *time.Time) (iter.Seq2[schema.Point, error], error)

	// Commit flushes every buffered Persist call to durable storage.
	Commit() error
}
