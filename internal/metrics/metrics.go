// Package metrics provides in-process metrics for the archiving pipeline.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds counters for the polling and archiving pipeline.
type Metrics struct {
	// mu protects concurrent access to metrics.
	mu sync.Mutex

	// startTime is when the metrics collection began.
	startTime time.Time
	// lastPollTime is the time of the last completed page fetch.
	lastPollTime time.Time
	// pagesFetched is the number of search pages fetched.
	pagesFetched int64
	// postsArchived is the total number of posts written to archives.
	postsArchived int64
	// appends is the number of appends that wrote content. Empty pages
	// count as fetched but append nothing.
	appends int64
	// seals is the number of archives sealed.
	seals int64
	// mirrorUploads is the number of sealed archives mirrored.
	mirrorUploads int64
	// errors is the number of pipeline errors.
	errors int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	StartTime     time.Time  `json:"start_time"`
	LastPollTime  *time.Time `json:"last_poll_time,omitempty"`
	PagesFetched  int64      `json:"pages_fetched"`
	PostsArchived int64      `json:"posts_archived"`
	Appends       int64      `json:"appends"`
	Seals         int64      `json:"seals"`
	MirrorUploads int64      `json:"mirror_uploads"`
	Errors        int64      `json:"errors"`
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordPage records one fetched page and the number of posts it carried.
func (m *Metrics) RecordPage(postCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pagesFetched++
	m.postsArchived += int64(postCount)
	if postCount > 0 {
		m.appends++
	}
	m.lastPollTime = time.Now()
}

// RecordSeal records one sealed archive.
func (m *Metrics) RecordSeal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seals++
}

// RecordMirrorUpload records one mirrored archive.
func (m *Metrics) RecordMirrorUpload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrorUploads++
}

// RecordError records one pipeline error.
func (m *Metrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		StartTime:     m.startTime,
		PagesFetched:  m.pagesFetched,
		PostsArchived: m.postsArchived,
		Appends:       m.appends,
		Seals:         m.seals,
		MirrorUploads: m.mirrorUploads,
		Errors:        m.errors,
	}
	if !m.lastPollTime.IsZero() {
		last := m.lastPollTime
		snap.LastPollTime = &last
	}
	return snap
}

// Reset resets all counters to their initial values.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startTime = time.Now()
	m.lastPollTime = time.Time{}
	m.pagesFetched = 0
	m.postsArchived = 0
	m.appends = 0
	m.seals = 0
	m.mirrorUploads = 0
	m.errors = 0
}
