package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/geosearch/internal/api"
	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/jonesrussell/geosearch/internal/ingest"
	"github.com/jonesrussell/geosearch/internal/logger"
	"github.com/jonesrussell/geosearch/internal/search"
)

// stubSearchClient satisfies search.Client for router wiring tests.
type stubSearchClient struct{}

func (stubSearchClient) Search(_ context.Context, _ search.Query) ([]byte, error) {
	return []byte(`{"statuses":[],"max_id":0,"count":0}`), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	registry, err := archive.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}

	service := ingest.NewService(ingest.Params{
		Registry:  registry,
		Client:    stubSearchClient{},
		Locations: &mockLocationRepo{},
		Logger:    logger.NewNoOp(),
	})

	return api.SetupRouter(api.Params{
		Logger:    logger.NewNoOp(),
		Service:   service,
		Locations: &mockLocationRepo{},
	})
}

func TestSetupRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("expected ok status in body, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "pages_fetched") {
		t.Errorf("expected metrics snapshot in body, got %s", w.Body.String())
	}
}

func TestSetupRouter_RequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("expected request ID to be echoed, got %q", got)
	}
}

// fakePoller signals when PollDue runs.
type fakePoller struct {
	polled chan struct{}
}

func (f *fakePoller) PollDue(_ context.Context) error {
	f.polled <- struct{}{}
	return nil
}

func TestPollHandler_TriggerPoll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	poller := &fakePoller{polled: make(chan struct{}, 1)}
	handler := api.NewPollHandler(poller, logger.NewNoOp())
	router.POST("/api/v1/poll", handler.TriggerPoll)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/poll", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", w.Code)
	}

	select {
	case <-poller.polled:
	case <-time.After(2 * time.Second):
		t.Fatal("expected PollDue to run after trigger")
	}
}
