package schema_test

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

func TestNew_TimestampAlwaysFirst(t *testing.T) {
	d := weatherDescriptor(t)
	require.NotEmpty(t, d.Fields)
	assert.Equal(t, "timestamp", d.Fields[0].Name)
	assert.Equal(t, schema.KindTimestamp, d.Fields[0].Kind)
}

func TestNew_RejectsExplicitTimestampField(t *testing.T) {
	_, err := schema.New("t", nil, schema.Field{Name: "timestamp", Kind: schema.KindInt})
	assert.Error(t, err)
}

func TestNew_RejectsDuplicateField(t *testing.T) {
	_, err := schema.New("t", nil,
		schema.Field{Name: "a", Kind: schema.KindInt},
		schema.Field{Name: "a", Kind: schema.KindInt},
	)
	assert.Error(t, err)
}

func TestNew_RejectsUnknownDimension(t *testing.T) {
	_, err := schema.New("t", []string{"missing"}, schema.Field{Name: "a", Kind: schema.KindInt})
	assert.Error(t, err)
}

func TestNew_ValidatesSizeAnnotations(t *testing.T) {
	_, err := schema.New("t", nil, schema.Field{Name: "s", Kind: schema.KindString})
	assert.Error(t, err, "string field without MaxLength should be rejected")

	_, err = schema.New("t", nil, schema.Field{Name: "d", Kind: schema.KindDecimal, MaxDigits: 2, DecimalPlaces: 5})
	assert.Error(t, err, "decimal_places greater than max_digits should be rejected")

	_, err = schema.New("t", nil, schema.Field{Name: "e", Kind: schema.KindEnum})
	assert.Error(t, err, "enum without declared values should be rejected")
}

func TestDescriptor_IsDimension(t *testing.T) {
	d := weatherDescriptor(t)
	assert.True(t, d.IsDimension("city"))
	assert.False(t, d.IsDimension("temperature"))
	assert.False(t, d.IsDimension("timestamp"))
}

func TestNewPoint_RequiresEveryField(t *testing.T) {
	d := weatherDescriptor(t)
	_, err := d.NewPoint(time.Now(), map[string]any{"city": "Sao Paulo"})
	assert.Error(t, err)
}

func TestNewPoint_RejectsUnknownField(t *testing.T) {
	d := weatherDescriptor(t)
	_, err := d.NewPoint(time.Now(), map[string]any{
		"city": "Sao Paulo", "temperature": "21.50", "rainfall": 0, "description": "SUNNY", "extra": 1,
	})
	assert.Error(t, err)
}

func TestNewPoint_Accessors(t *testing.T) {
	d := weatherDescriptor(t)
	ts := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	p, err := d.NewPoint(ts, map[string]any{
		"city": "Sao Paulo", "temperature": "21.50", "rainfall": 0, "description": "SUNNY",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sao Paulo", p.Dimension("city"))
	assert.Equal(t, "21.50", p.Attribute("temperature"))
	assert.Equal(t, ts, p.Timestamp)
}
