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
)

// IntCodec encodes a semantic integer field as a 32-bit unsigned
// little-endian primitive. Also embedded in the binary struct's
// timestampCodec for the mandatory leading timestamp field.
type IntCodec struct{}

func (IntCodec) Width() int { return 4 }

func (IntCodec) Encode(value any, out []byte) error {
	v, err := toUint32(value)
	if err != nil {
		return &EncodingError{Field: "int", Reason: err.Error()}
	}
	binary.LittleEndian.PutUint32(out, v)
	return nil
}

func (IntCodec) Decode(in []byte) (any, error) {
	if len(in) < 4 {
		return nil, &DecodeError{Field: "int", Reason: "short read"}
	}
	return int64(binary.LittleEndian.Uint32(in)), nil
}

func toUint32(value any) (uint32, error) {
	switch v := value.(type) {
	case int:
		return uint32(v), nil
	case int32:
		return uint32(v), nil
	case int64:
		return uint32(v), nil
	case uint:
		return uint32(v), nil
	case uint32:
		return v, nil
	case uint64:
		return uint32(v), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not an integer", value, value)
	}
}
