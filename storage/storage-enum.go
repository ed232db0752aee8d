/*
Copyright (C) 2026  Carl-Philip Hänsch

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
	"encoding/binary"
	"fmt"

	"github.com/launix-de/chronostore/schema"
)

// EnumCodec stores a semantic enumerated field as its declared unsigned
// 16-bit ordinal. Encode accepts either the label string or the raw
// ordinal; Decode always returns the label.
type EnumCodec struct {
	valueByLabel map[string]uint16
	labelByValue map[uint16]string
}

func newEnumCodec(f schema.Field) (*EnumCodec, error) {
	labelByValue := make(map[uint16]string, len(f.EnumValues))
	for label, ordinal := range f.EnumValues {
		if existing, ok := labelByValue[ordinal]; ok {
			return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("ordinal %d used by both %q and %q", ordinal, existing, label)}
		}
		labelByValue[ordinal] = label
	}
	return &EnumCodec{valueByLabel: f.EnumValues, labelByValue: labelByValue}, nil
}

func (EnumCodec) Width() int { return 2 }

func (c *EnumCodec) Encode(value any, out []byte) error {
	var ordinal uint16
	switch v := value.(type) {
	case string:
		ord, ok := c.valueByLabel[v]
		if !ok {
			return &EncodingError{Field: "enum", Reason: fmt.Sprintf("value %q is not a declared enum label", v)}
		}
		ordinal = ord
	case uint16:
		if _, ok := c.labelByValue[v]; !ok {
			return &EncodingError{Field: "enum", Reason: fmt.Sprintf("ordinal %d is not declared", v)}
		}
		ordinal = v
	case int:
		ordinal = uint16(v)
		if _, ok := c.labelByValue[ordinal]; !ok {
			return &EncodingError{Field: "enum", Reason: fmt.Sprintf("ordinal %d is not declared", ordinal)}
		}
	default:
		return &EncodingError{Field: "enum", Reason: fmt.Sprintf("value %v (%T) is not an enum label or ordinal", value, value)}
	}
	binary.LittleEndian.PutUint16(out, ordinal)
	return nil
}

func (c *EnumCodec) Decode(in []byte) (any, error) {
	if len(in) < 2 {
		return nil, &DecodeError{Field: "enum", Reason: "short read"}
	}
	ordinal := binary.LittleEndian.Uint16(in)
	label, ok := c.labelByValue[ordinal]
	if !ok {
		return nil, &DecodeError{Field: "enum", Reason: fmt.Sprintf("unknown enumerated ordinal %d", ordinal)}
	}
	return label, nil
}
