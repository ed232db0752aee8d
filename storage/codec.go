package storage

import "github.com/launix-de/chronostore/schema"

// Codec binds one field of a record type to its fixed on-disk width and
// converts between the field's semantic value and that many raw little-
// endian bytes. The codec-selection policy (which Codec a Field gets) is
// a pure function of the field's declared Kind and size annotations, not
// of the runtime value.
type Codec interface {
	// Width is the codec's fixed on-disk size in bytes.
	Width() int
	// Encode writes exactly Width() bytes into out, which the caller
	// guarantees is Width() bytes long.
	Encode(value any, out []byte) error
	// Decode reads exactly Width() bytes from in and returns the
	// semantic value.
	Decode(in []byte) (any, error)
}

// newCodec selects the Codec for a field from its declared Kind:
// integer -> 32-bit uint LE, floating-point -> 32-bit IEEE754 LE,
// decimal -> signed int sized by max_digits, string -> fixed L bytes,
// enum -> 16-bit uint. The timestamp field always gets a dedicated
// 32-bit unsigned codec regardless of Kind, since it is not part of the
// field's own Kind space (schema.KindTimestamp has no Codec of its own;
// the binary struct handles it directly, see binarystruct.go).
func newCodec(f schema.Field) (Codec, error) {
	switch f.Kind {
	case schema.KindInt:
		return &IntCodec{}, nil
	case schema.KindFloat:
		return &FloatCodec{}, nil
	case schema.KindDecimal:
		return newDecimalCodec(f)
	case schema.KindString:
		return &StringCodec{MaxLength: f.MaxLength}, nil
	case schema.KindEnum:
		return newEnumCodec(f)
	default:
		return nil, &EncodingError{Field: f.Name, Reason: "unsupported codec kind"}
	}
}
