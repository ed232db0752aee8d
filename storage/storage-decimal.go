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
	"fmt"
	"math"

	"github.com/launix-de/chronostore/schema"
)

// pow10 are precomputed powers of ten for scaling decimals up to the
// 8-byte width's headroom.
var pow10 = [19]int64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
	1000000000, 10000000000, 100000000000, 1000000000000,
	10000000000000, 100000000000000, 1000000000000000,
	10000000000000000, 100000000000000000, 1000000000000000000,
}

// DecimalCodec stores a bounded-decimal field as real_value * 10^places,
// in a signed integer whose width is chosen from max_digits: d<=2 -> 1
// byte, d<=5 -> 2 bytes, d<=10 -> 4 bytes, else 8 bytes.
type DecimalCodec struct {
	Places int
	width  int
}

func newDecimalCodec(f schema.Field) (*DecimalCodec, error) {
	width := 8
	switch {
	case f.MaxDigits <= 2:
		width = 1
	case f.MaxDigits <= 5:
		width = 2
	case f.MaxDigits <= 10:
		width = 4
	}
	return &DecimalCodec{Places: f.DecimalPlaces, width: width}, nil
}

func (c *DecimalCodec) Width() int { return c.width }

func (c *DecimalCodec) bounds() (int64, int64) {
	switch c.width {
	case 1:
		return math.MinInt8, math.MaxInt8
	case 2:
		return math.MinInt16, math.MaxInt16
	case 4:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func (c *DecimalCodec) Encode(value any, out []byte) error {
	f, err := toDecimalFloat(value)
	if err != nil {
		return &EncodingError{Field: "decimal", Reason: err.Error()}
	}
	scaled := int64(math.Round(f * float64(pow10[c.Places])))
	lo, hi := c.bounds()
	if scaled < lo || scaled > hi {
		return &EncodingError{Field: "decimal", Reason: fmt.Sprintf("scaled value %d overflows %d-byte width", scaled, c.width)}
	}
	putSignedLE(out, scaled, c.width)
	return nil
}

func (c *DecimalCodec) Decode(in []byte) (any, error) {
	if len(in) < c.width {
		return nil, &DecodeError{Field: "decimal", Reason: "short read"}
	}
	scaled := getSignedLE(in, c.width)
	return float64(scaled) / float64(pow10[c.Places]), nil
}

func toDecimalFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
			return 0, fmt.Errorf("value %q is not a decimal", v)
		}
		return f, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not a decimal", value, value)
	}
}

// putSignedLE writes a signed integer's low n bytes, little-endian.
func putSignedLE(out []byte, v int64, n int) {
	u := uint64(v)
	for i := 0; i < n; i++ {
		out[i] = byte(u >> (8 * i))
	}
}

// getSignedLE reads n little-endian bytes and sign-extends from the
// top bit of the n-byte width.
func getSignedLE(in []byte, n int) int64 {
	var u uint64
	for i := 0; i < n; i++ {
		u |= uint64(in[i]) << (8 * i)
	}
	signBit := uint64(1) << (8*n - 1)
	if u&signBit != 0 {
		u |= ^uint64(0) << (8 * n) // sign-extend
	}
	return int64(u)
}
