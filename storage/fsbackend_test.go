package storage

import (
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launix-de/chronostore/schema"
)

func newTestFilesystemBackend(t *testing.T) *FilesystemBackend {
	t.Helper()
	b, err := NewFilesystemBackend(SettingsT{RootDir: t.TempDir()})
	require.NoError(t, err)
	return b
}

// collectPoints drains a Backend.Query sequence into a slice, failing
// the test on the first per-item error.
func collectPoints(t *testing.T, seq iter.Seq2[schema.Point, error]) []schema.Point {
	t.Helper()
	var points []schema.Point
	for p, err := range seq {
		require.NoError(t, err)
		points = append(points, p)
	}
	return points
}

func TestFilesystemBackend_PersistCommitQueryRoundTrip(t *testing.T) {
	b := newTestFilesystemBackend(t)
	d := weatherDescriptor(t)
	require.NoError(t, b.PrepareType(d))

	ts := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	p, err := d.NewPoint(ts, map[string]any{"city": "Berlin", "temperature": 5.0, "rainfall": 1, "description": "CLOUDY"})
	require.NoError(t, err)
	require.NoError(t, b.Persist(p))
	require.NoError(t, b.Commit())

	start := ts.Add(-time.Hour)
	end := ts.Add(time.Hour)
	seq, err := b.Query("weather", map[string]any{"city": "Berlin"}, start, &end)
	require.NoError(t, err)
	points := collectPoints(t, seq)
	require.Len(t, points, 1)
	assert.Equal(t, ts, points[0].Timestamp)
	assert.Equal(t, "CLOUDY", points[0].Values["description"])
}

func TestFilesystemBackend_QueryOnlyOpensMatchingDimensionFiles(t *testing.T) {
	b := newTestFilesystemBackend(t)
	d := weatherDescriptor(t)
	require.NoError(t, b.PrepareType(d))

	day := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	for _, city := range []string{"Berlin", "Paris"} {
		p, err := d.NewPoint(day, map[string]any{"city": city, "temperature": 1.0, "rainfall": 0, "description": "SUNNY"})
		require.NoError(t, err)
		require.NoError(t, b.Persist(p))
	}
	require.NoError(t, b.Commit())

	start := day.Add(-time.Hour)
	end := day.Add(time.Hour)
	seq, err := b.Query("weather", map[string]any{"city": "Berlin"}, start, &end)
	require.NoError(t, err)
	points := collectPoints(t, seq)
	require.Len(t, points, 1)
	assert.Equal(t, "Berlin", points[0].Values["city"])
}

func TestFilesystemBackend_QueryPrunesByDay(t *testing.T) {
	b := newTestFilesystemBackend(t)
	d := weatherDescriptor(t)
	require.NoError(t, b.PrepareType(d))

	inRange := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{inRange, outOfRange} {
		p, err := d.NewPoint(ts, map[string]any{"city": "Berlin", "temperature": 1.0, "rainfall": 0, "description": "SUNNY"})
		require.NoError(t, err)
		require.NoError(t, b.Persist(p))
	}
	require.NoError(t, b.Commit())

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	seq, err := b.Query("weather", map[string]any{"city": "Berlin"}, start, &end)
	require.NoError(t, err)
	points := collectPoints(t, seq)
	require.Len(t, points, 1)
	assert.Equal(t, inRange, points[0].Timestamp)
}

func TestFilesystemBackend_QueryStopsRangingWithoutFurtherIO(t *testing.T) {
	b := newTestFilesystemBackend(t)
	d := weatherDescriptor(t)
	require.NoError(t, b.PrepareType(d))

	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	for _, day := range []int{0, 1, 2} {
		ts := base.Add(time.Duration(day) * 24 * time.Hour)
		p, err := d.NewPoint(ts, map[string]any{"city": "Berlin", "temperature": 1.0, "rainfall": 0, "description": "SUNNY"})
		require.NoError(t, err)
		require.NoError(t, b.Persist(p))
	}
	require.NoError(t, b.Commit())

	start := base.Add(-time.Hour)
	end := base.Add(3 * 24 * time.Hour)
	seq, err := b.Query("weather", map[string]any{"city": "Berlin"}, start, &end)
	require.NoError(t, err)

	seen := 0
	for _, err := range seq {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen, "ranging stopped after the first yield, leaving the other two day files unopened")
}

func TestFilesystemBackend_CustomFilepathFormatOmitsDimensions(t *testing.T) {
	b, err := NewFilesystemBackend(SettingsT{
		RootDir:        t.TempDir(),
		FilepathFormat: "{table}/{year}/{month:02d}/{day:02d}",
	})
	require.NoError(t, err)
	d := weatherDescriptor(t)
	require.NoError(t, b.PrepareType(d))

	ts := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	berlin, err := d.NewPoint(ts, map[string]any{"city": "Berlin", "temperature": 1.0, "rainfall": 0, "description": "SUNNY"})
	require.NoError(t, err)
	paris, err := d.NewPoint(ts, map[string]any{"city": "Paris", "temperature": 2.0, "rainfall": 0, "description": "SUNNY"})
	require.NoError(t, err)
	require.NoError(t, b.Persist(berlin))
	require.NoError(t, b.Persist(paris))
	require.NoError(t, b.Commit())

	start := ts.Add(-time.Hour)
	end := ts.Add(time.Hour)
	seq, err := b.Query("weather", map[string]any{"city": "Berlin"}, start, &end)
	require.NoError(t, err)
	points := collectPoints(t, seq)
	require.Len(t, points, 1, "both cities share one day file, but the per-record dimension check still filters to Berlin")
	assert.Equal(t, "Berlin", points[0].Values["city"])
}

func TestFilesystemBackend_PersistBeforePrepareTypeFails(t *testing.T) {
	b := newTestFilesystemBackend(t)
	d, err := schema.New("unprepared", nil, schema.Field{Name: "x", Kind: schema.KindInt})
	require.NoError(t, err)
	p, err := d.NewPoint(time.Now(), map[string]any{"x": 1})
	require.NoError(t, err)

	err = b.Persist(p)
	assert.Error(t, err)
}
