package schema

import (
	"fmt"
	"time"
)

// Point is one fully-populated instance of a record type: a timestamp
// plus every dimension and attribute value, keyed by field name. This is
// the Go counterpart of the original pydantic TimeSeries model and its
// Data property (schema.py), minus the inheritance machinery.
type Point struct {
	Descriptor *Descriptor
	Timestamp  time.Time
	Values     map[string]any // every non-timestamp field, by name
}

// NewPoint builds a Point, checking that every declared non-timestamp
// field has a value and that no unknown field was supplied.
func (d *Descriptor) NewPoint(timestamp time.Time, values map[string]any) (Point, error) {
	for _, f := range d.Fields {
		if f.Name == "timestamp" {
			continue
		}
		if _, ok := values[f.Name]; !ok {
			return Point{}, fmt.Errorf("schema: point missing field %q", f.Name)
		}
	}
	if len(values) != len(d.Fields)-1 {
		return Point{}, fmt.Errorf("schema: point has values for unknown fields")
	}
	return Point{Descriptor: d, Timestamp: timestamp, Values: values}, nil
}

// Dimension returns the value of the named dimension field.
func (p Point) Dimension(name string) any {
	return p.Values[name]
}

// Attribute returns the value of the named non-dimension, non-timestamp
// field.
func (p Point) Attribute(name string) any {
	return p.Values[name]
}
