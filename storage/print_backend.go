package storage

import (
	"fmt"
	"iter"
	"time"

	"github.com/launix-de/chronostore/schema"
)

// PrintBackend writes every persisted point to stdout instead of any
// storage medium, for demos and smoke tests. It never buffers, never
// answers a Query, and Commit is a no-op.
type PrintBackend struct{}

func NewPrintBackend() *PrintBackend {
	return &PrintBackend{}
}

func (b *PrintBackend) PrepareType(d *schema.Descriptor) error {
	fmt.Printf("chronostore: prepared table %q (dimensions: %v)\n", d.Table, d.Dimensions)
	return nil
}

func (b *PrintBackend) Persist(p schema.Point) error {
	fmt.Printf("chronostore: %s @ %s: %v\n", p.Descriptor.Table, p.Timestamp.Format(time.RFC3339), p.Values)
	return nil
}

// Query has no storage to read from: it prints the synthesized SELECT
// a real backend would have run and yields no points.
func (b *PrintBackend) Query(table string, dimensions map[string]any, start time.Time, end *time.Time) (iter.Seq2[schema.Point, error], error) {
	endStr := "now"
	if end != nil {
		endStr = end.Format(time.RFC3339)
	}
	fmt.Printf("chronostore: SELECT * FROM %s WHERE %v AND timestamp BETWEEN %s AND %s\n",
		table, dimensions, start.Format(time.RFC3339), endStr)
	return func(func(schema.Point, error) bool) {}, nil
}

func (b *PrintBackend) Commit() error {
	return nil
}
