package metrics_test

import (
	"sync"
	"testing"

	"github.com/jonesrussell/geosearch/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	assert.NotNil(t, m)
	assert.False(t, m.Snapshot().StartTime.IsZero())
}

func TestRecordPage(t *testing.T) {
	m := metrics.NewMetrics()

	m.RecordPage(15)
	m.RecordPage(7)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.PagesFetched)
	assert.Equal(t, int64(22), snap.PostsArchived)
	assert.Equal(t, int64(2), snap.Appends)
	assert.NotNil(t, snap.LastPollTime)
}

func TestRecordSealAndMirror(t *testing.T) {
	m := metrics.NewMetrics()

	m.RecordSeal()
	m.RecordSeal()
	m.RecordMirrorUpload()
	m.RecordError()

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Seals)
	assert.Equal(t, int64(1), snap.MirrorUploads)
	assert.Equal(t, int64(1), snap.Errors)
}

func TestReset(t *testing.T) {
	m := metrics.NewMetrics()
	m.RecordPage(3)
	m.RecordSeal()
	m.RecordError()

	m.Reset()

	snap := m.Snapshot()
	assert.Equal(t, int64(0), snap.PagesFetched)
	assert.Equal(t, int64(0), snap.PostsArchived)
	assert.Equal(t, int64(0), snap.Seals)
	assert.Equal(t, int64(0), snap.Errors)
	assert.Nil(t, snap.LastPollTime)
}

func TestRecordConcurrently(t *testing.T) {
	m := metrics.NewMetrics()

	const workers = 8

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordPage(2)
			m.RecordSeal()
			m.RecordError()
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(workers), snap.PagesFetched)
	assert.Equal(t, int64(workers*2), snap.PostsArchived)
	assert.Equal(t, int64(workers), snap.Seals)
	assert.Equal(t, int64(workers), snap.Errors)
}
