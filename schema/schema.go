// Package schema describes record types for the time-series engine: a
// table name, an ordered list of dimension fields and an ordered list of
// all fields, each annotated with a semantic kind and a bounded size.
//
// A Descriptor is owned by the caller, not by a SQL catalog: the
// storage engine only ever reads a *Descriptor, it never persists or
// mutates one.
package schema

import "fmt"

// Kind is the closed set of semantic field types a record can declare.
type Kind uint8

const (
	KindTimestamp Kind = iota
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one field of a record type: its name, semantic kind, and the
// size annotations relevant to that kind (MaxLength for strings,
// MaxDigits/DecimalPlaces for decimals, EnumValues for enums).
type Field struct {
	Name          string
	Kind          Kind
	MaxLength     int            // KindString
	MaxDigits     int            // KindDecimal
	DecimalPlaces int            // KindDecimal
	EnumValues    map[string]uint16 // KindEnum: label -> ordinal
}

// Descriptor is an immutable record type descriptor: a table name, the
// subset of fields that are dimensions (in declaration order), and every
// field (timestamp first) in on-disk layout order.
type Descriptor struct {
	Table      string
	Dimensions []string
	Fields     []Field // Fields[0] is always the timestamp field
}

// New validates and builds a Descriptor. fields must not include the
// timestamp field explicitly; it is injected as Fields[0] automatically,
// since the timestamp field is mandatory and always first in the
// on-disk layout.
func New(table string, dimensions []string, fields ...Field) (*Descriptor, error) {
	if table == "" {
		return nil, fmt.Errorf("schema: table name must not be empty")
	}

	seen := make(map[string]bool, len(fields)+1)
	seen["timestamp"] = true

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field name must not be empty")
		}
		if f.Name == "timestamp" {
			return nil, fmt.Errorf("schema: field %q: timestamp is implicit, do not declare it", f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		if err := validateField(f); err != nil {
			return nil, err
		}
	}

	for _, d := range dimensions {
		if !seen[d] || d == "timestamp" {
			return nil, fmt.Errorf("schema: dimension %q is not a declared field", d)
		}
	}

	all := make([]Field, 0, len(fields)+1)
	all = append(all, Field{Name: "timestamp", Kind: KindTimestamp})
	all = append(all, fields...)

	return &Descriptor{
		Table:      table,
		Dimensions: append([]string(nil), dimensions...),
		Fields:     all,
	}, nil
}

func validateField(f Field) error {
	switch f.Kind {
	case KindString:
		if f.MaxLength <= 0 {
			return fmt.Errorf("schema: field %q: string fields need a positive MaxLength", f.Name)
		}
	case KindDecimal:
		if f.MaxDigits <= 0 {
			return fmt.Errorf("schema: field %q: decimal fields need a positive MaxDigits", f.Name)
		}
		if f.DecimalPlaces < 0 || f.DecimalPlaces > f.MaxDigits {
			return fmt.Errorf("schema: field %q: decimal_places must be within [0, max_digits]", f.Name)
		}
	case KindEnum:
		if len(f.EnumValues) == 0 {
			return fmt.Errorf("schema: field %q: enum fields need at least one declared value", f.Name)
		}
	case KindInt, KindFloat:
		// no size annotation required
	default:
		return fmt.Errorf("schema: field %q: unsupported kind %v", f.Name, f.Kind)
	}
	return nil
}

// FieldByName returns the field with the given name, or false if absent.
func (d *Descriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsDimension reports whether name is one of the descriptor's dimensions.
func (d *Descriptor) IsDimension(name string) bool {
	for _, dim := range d.Dimensions {
		if dim == name {
			return true
		}
	}
	return false
}
