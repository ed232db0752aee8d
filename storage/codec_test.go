package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launix-de/chronostore/schema"
)

func TestIntCodec_RoundTrip(t *testing.T) {
	c := &IntCodec{}
	buf := make([]byte, c.Width())
	require.NoError(t, c.Encode(42, buf))
	v, err := c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestFloatCodec_RoundTrip(t *testing.T) {
	c := &FloatCodec{}
	buf := make([]byte, c.Width())
	require.NoError(t, c.Encode(3.5, buf))
	v, err := c.Decode(buf)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v, 0.0001)
}

func TestDecimalCodec_RoundTripAndOverflow(t *testing.T) {
	c, err := newDecimalCodec(schema.Field{MaxDigits: 10, DecimalPlaces: 2})
	require.NoError(t, err)
	buf := make([]byte, c.Width())
	require.NoError(t, c.Encode(21.5, buf))
	v, err := c.Decode(buf)
	require.NoError(t, err)
	assert.InDelta(t, 21.5, v, 0.001)

	small, err := newDecimalCodec(schema.Field{MaxDigits: 2, DecimalPlaces: 0})
	require.NoError(t, err)
	buf = make([]byte, small.Width())
	err = small.Encode(1000.0, buf)
	assert.Error(t, err, "a value that overflows the 1-byte width should be rejected")
}

func TestStringCodec_PadsAndTrims(t *testing.T) {
	c := &StringCodec{MaxLength: 8}
	buf := make([]byte, c.Width())
	require.NoError(t, c.Encode("hi", buf))
	v, err := c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestStringCodec_RejectsTooLong(t *testing.T) {
	c := &StringCodec{MaxLength: 4}
	buf := make([]byte, c.Width())
	err := c.Encode("toolong", buf)
	assert.Error(t, err)
}

func TestEnumCodec_LabelAndOrdinal(t *testing.T) {
	c, err := newEnumCodec(schema.Field{Name: "description", EnumValues: map[string]uint16{"SUNNY": 0, "CLOUDY": 1}})
	require.NoError(t, err)
	buf := make([]byte, c.Width())

	require.NoError(t, c.Encode("CLOUDY", buf))
	v, err := c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, "CLOUDY", v)

	err = c.Encode("RAINY", buf)
	assert.Error(t, err, "undeclared label should be rejected")
}

func TestEnumCodec_RejectsDuplicateOrdinal(t *testing.T) {
	_, err := newEnumCodec(schema.Field{Name: "description", EnumValues: map[string]uint16{"SUNNY": 0, "ALSO_SUNNY": 0}})
	assert.Error(t, err)
}
