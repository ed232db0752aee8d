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
	"encoding/binary"
	"fmt"
	"math"
)

// FloatCodec encodes a semantic floating-point field as a 32-bit
// IEEE-754 little-endian primitive.
type FloatCodec struct{}

func (FloatCodec) Width() int { return 4 }

func (FloatCodec) Encode(value any, out []byte) error {
	v, err := toFloat64(value)
	if err != nil {
		return &EncodingError{Field: "float", Reason: err.Error()}
	}
	binary.LittleEndian.PutUint32(out, math.Float32bits(float32(v)))
	return nil
}

func (FloatCodec) Decode(in []byte) (any, error) {
	if len(in) < 4 {
		return nil, &DecodeError{Field: "float", Reason: "short read"}
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(in))), nil
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not a float", value, value)
	}
}
