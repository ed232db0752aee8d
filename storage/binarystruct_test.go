package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launix-de/chronostore/schema"
)

func weatherDescriptor(t *testing.T) *schema.Descriptor {
	t.Helper()
	d, err := schema.New("weather", []string{"city"},
		schema.Field{Name: "city", Kind: schema.KindString, MaxLength: 32},
		schema.Field{Name: "temperature", Kind: schema.KindDecimal, MaxDigits: 10, DecimalPlaces: 2},
		schema.Field{Name: "rainfall", Kind: schema.KindInt},
		schema.Field{Name: "description", Kind: schema.KindEnum, EnumValues: map[string]uint16{
			"SUNNY": 0, "CLOUDY": 1, "SNOWY": 2,
		}},
	)
	require.NoError(t, err)
	return d
}

func TestBinaryStruct_EncodeDecodeRoundTrip(t *testing.T) {
	d := weatherDescriptor(t)
	bs, err := NewBinaryStruct(d)
	require.NoError(t, err)

	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	p, err := d.NewPoint(ts, map[string]any{
		"city": "Berlin", "temperature": 12.75, "rainfall": 3, "description": "CLOUDY",
	})
	require.NoError(t, err)

	record, err := bs.Encode(p)
	require.NoError(t, err)
	assert.Len(t, record, bs.Size)

	decoded, err := bs.Decode(record)
	require.NoError(t, err)
	assert.Equal(t, ts, decoded.Timestamp)
	assert.Equal(t, "Berlin", decoded.Values["city"])
	assert.InDelta(t, 12.75, decoded.Values["temperature"], 0.001)
	assert.Equal(t, int64(3), decoded.Values["rainfall"])
	assert.Equal(t, "CLOUDY", decoded.Values["description"])
}

func TestBinaryStruct_EveryRecordIsSameSize(t *testing.T) {
	d := weatherDescriptor(t)
	bs, err := NewBinaryStruct(d)
	require.NoError(t, err)

	for i, city := range []string{"A", "Berlin", "Sao Paulo"} {
		p, err := d.NewPoint(time.Unix(int64(i), 0), map[string]any{
			"city": city, "temperature": 1.0, "rainfall": i, "description": "SUNNY",
		})
		require.NoError(t, err)
		record, err := bs.Encode(p)
		require.NoError(t, err)
		assert.Len(t, record, bs.Size)
	}
}

func TestBinaryStruct_Timestamp(t *testing.T) {
	d := weatherDescriptor(t)
	bs, err := NewBinaryStruct(d)
	require.NoError(t, err)

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := d.NewPoint(ts, map[string]any{
		"city": "Berlin", "temperature": 1.0, "rainfall": 0, "description": "SUNNY",
	})
	require.NoError(t, err)
	record, err := bs.Encode(p)
	require.NoError(t, err)

	got, err := bs.Timestamp(record)
	require.NoError(t, err)
	assert.Equal(t, uint32(ts.Unix()), got)
}
