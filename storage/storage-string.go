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
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// StringCodec stores a semantic string field as exactly MaxLength bytes
// of NFC-normalized UTF-8, right-padded with NUL and NUL-stripped on
// decode. Normalizing before measuring length means a city
// name typed with a decomposed accent (e.g. "São Paulo") is
// measured and stored the same way as its precomposed form.
type StringCodec struct {
	MaxLength int
}

func (c *StringCodec) Width() int { return c.MaxLength }

func (c *StringCodec) Encode(value any, out []byte) error {
	s, ok := value.(string)
	if !ok {
		return &EncodingError{Field: "string", Reason: fmt.Sprintf("value %v (%T) is not a string", value, value)}
	}
	normalized := norm.NFC.String(s)
	raw := []byte(normalized)
	if len(raw) > c.MaxLength {
		return &EncodingError{Field: "string", Reason: fmt.Sprintf("value %q (%d bytes) exceeds max_length %d", s, len(raw), c.MaxLength)}
	}
	copy(out, raw)
	for i := len(raw); i < c.MaxLength; i++ {
		out[i] = 0
	}
	return nil
}

func (c *StringCodec) Decode(in []byte) (any, error) {
	if len(in) < c.MaxLength {
		return nil, &DecodeError{Field: "string", Reason: "short read"}
	}
	return string(bytes.TrimRight(in[:c.MaxLength], "\x00")), nil
}
