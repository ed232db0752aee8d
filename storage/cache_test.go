package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempRecordFile(t *testing.T, recordSize, numRecords int) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "cache-*.bin")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	buf := make([]byte, recordSize*numRecords)
	for i := 0; i < numRecords; i++ {
		buf[i*recordSize] = byte(i)
	}
	_, err = f.Write(buf)
	require.NoError(t, err)
	return f
}

func TestPageCache_GetReadsThrough(t *testing.T) {
	f := tempRecordFile(t, 4, 3)
	c := NewPageCache(f, 4)

	v, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, byte(1), v[0])
}

func TestPageCache_SetMarksDirtyAndSyncFlushes(t *testing.T) {
	f := tempRecordFile(t, 4, 2)
	c := NewPageCache(f, 4)

	c.Set(0, []byte{9, 9, 9, 9})
	require.NoError(t, c.Sync(0))

	raw := make([]byte, 4)
	_, err := f.ReadAt(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9}, raw)
}

func TestPageCache_SwapExchangesSlots(t *testing.T) {
	f := tempRecordFile(t, 4, 2)
	c := NewPageCache(f, 4)

	require.NoError(t, c.Swap(0, 1))
	a, err := c.Get(0)
	require.NoError(t, err)
	b, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, byte(1), a[0])
	assert.Equal(t, byte(0), b[0])
}

func TestPageCache_SwapNoOpOnSameIndex(t *testing.T) {
	f := tempRecordFile(t, 4, 1)
	c := NewPageCache(f, 4)
	require.NoError(t, c.Swap(0, 0))
}

func TestPageCache_SyncEvictsBelowWatermark(t *testing.T) {
	f := tempRecordFile(t, 4, 3)
	c := NewPageCache(f, 4)

	_, err := c.Get(0)
	require.NoError(t, err)
	_, err = c.Get(1)
	require.NoError(t, err)

	require.NoError(t, c.Sync(1))
	assert.NotContains(t, c.entries, 0)
	assert.Contains(t, c.entries, 1)
}
