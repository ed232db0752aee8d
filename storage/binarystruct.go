package storage

import (
	"time"

	"github.com/launix-de/chronostore/schema"
)

// timestampCodec is the dedicated codec for the mandatory leading
// timestamp field: a 32-bit unsigned seconds-since-epoch integer,
// converted to and from time.Time.
type timestampCodec struct{ IntCodec }

func (c timestampCodec) Encode(value any, out []byte) error {
	t, ok := value.(time.Time)
	if !ok {
		return &EncodingError{Field: "timestamp", Reason: "value is not a time.Time"}
	}
	return c.IntCodec.Encode(uint32(t.Unix()), out)
}

func (c timestampCodec) Decode(in []byte) (any, error) {
	v, err := c.IntCodec.Decode(in)
	if err != nil {
		return nil, err
	}
	return time.Unix(v.(int64), 0).UTC(), nil
}

// fieldLayout is one field's compiled position within a record: its
// name, byte offset and codec (whose Width gives the field's size).
type fieldLayout struct {
	name   string
	offset int
	codec  Codec
}

// BinaryStruct compiles a record type into a field-ordered list of
// codecs plus the total record size. Built once per record type via
// NewBinaryStruct and reused for every Encode/Decode.
type BinaryStruct struct {
	Descriptor *schema.Descriptor
	layout     []fieldLayout
	Size       int
}

// NewBinaryStruct compiles d's fields, in declaration order (timestamp
// first), into a BinaryStruct.
func NewBinaryStruct(d *schema.Descriptor) (*BinaryStruct, error) {
	bs := &BinaryStruct{Descriptor: d}
	offset := 0
	for _, f := range d.Fields {
		var codec Codec
		if f.Name == "timestamp" {
			codec = timestampCodec{}
		} else {
			c, err := newCodec(f)
			if err != nil {
				return nil, err
			}
			codec = c
		}
		bs.layout = append(bs.layout, fieldLayout{name: f.Name, offset: offset, codec: codec})
		offset += codec.Width()
	}
	bs.Size = offset
	return bs, nil
}

// Encode packs a point's fields, in declared order with timestamp
// first, into a fixed-Size byte slice.
func (bs *BinaryStruct) Encode(p schema.Point) ([]byte, error) {
	out := make([]byte, bs.Size)
	for _, fl := range bs.layout {
		var value any
		if fl.name == "timestamp" {
			value = p.Timestamp
		} else {
			value = p.Values[fl.name]
		}
		width := fl.codec.Width()
		if err := fl.codec.Encode(value, out[fl.offset:fl.offset+width]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode unpacks a fixed-Size byte slice into a new Point, in the
// BinaryStruct's record type.
func (bs *BinaryStruct) Decode(data []byte) (schema.Point, error) {
	if len(data) < bs.Size {
		return schema.Point{}, &DecodeError{Field: "record", Reason: "short read"}
	}

	values := make(map[string]any, len(bs.layout)-1)
	var timestamp time.Time

	for _, fl := range bs.layout {
		width := fl.codec.Width()
		value, err := fl.codec.Decode(data[fl.offset : fl.offset+width])
		if err != nil {
			return schema.Point{}, err
		}
		if fl.name == "timestamp" {
			timestamp = value.(time.Time)
		} else {
			values[fl.name] = value
		}
	}

	return schema.Point{Descriptor: bs.Descriptor, Timestamp: timestamp, Values: values}, nil
}

// Timestamp reads just the leading timestamp field out of a raw record,
// without decoding the rest — used by the day file and merger for
// ordering comparisons.
func (bs *BinaryStruct) Timestamp(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, &DecodeError{Field: "timestamp", Reason: "short read"}
	}
	return uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24, nil
}
