// Package helpers provides testing utilities for integration tests.
package helpers

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockSearchAPI creates a fake search API for pipeline tests.
// It returns a test server that serves the provided response pages in
// order; once the pages run out it answers every request with an empty
// page. The server records the queries it received.
func MockSearchAPI(pages ...[]byte) (*httptest.Server, *RequestLog) {
	log := &RequestLog{}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		served := log.record(r)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if served < len(pages) {
			_, _ = w.Write(pages[served])
			return
		}
		_, _ = w.Write(EmptySearchPage(0))
	})

	return httptest.NewServer(mux), log
}

// RequestLog records the requests a mock search API received.
type RequestLog struct {
	mu       sync.Mutex
	requests []*http.Request
}

// record stores a request and returns how many were seen before it.
func (l *RequestLog) record(r *http.Request) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, r.Clone(r.Context()))
	return len(l.requests) - 1
}

// Count returns the number of requests received.
func (l *RequestLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

// Query returns the query parameter of the i-th request, or "" when the
// request or parameter is missing.
func (l *RequestLog) Query(i int, param string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.requests) {
		return ""
	}
	return l.requests[i].URL.Query().Get(param)
}
