package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/geosearch/internal/api"
	"github.com/jonesrussell/geosearch/internal/archive"
)

// fakeArchiveService implements api.ArchiveService over a real registry.
type fakeArchiveService struct {
	registry *archive.Registry
	sealErr  error
	sealed   []string
}

func (f *fakeArchiveService) Registry() *archive.Registry { return f.registry }

func (f *fakeArchiveService) SealDay(_ context.Context, key string) error {
	if f.sealErr != nil {
		return f.sealErr
	}
	if !f.registry.Has(key) {
		return fmt.Errorf("archive %q: %w", key, archive.ErrArchiveNotFound)
	}
	f.sealed = append(f.sealed, key)
	return nil
}

func newArchiveFixture(t *testing.T) *fakeArchiveService {
	t.Helper()

	registry, err := archive.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return &fakeArchiveService{registry: registry}
}

func TestArchivesHandler_ListArchives(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	service := newArchiveFixture(t)
	if _, err := service.registry.GetOrCreate("2026-08-23_Toronto").
		Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`)); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	service.registry.GetOrCreate("2026-08-24_Toronto")

	handler := api.NewArchivesHandler(service)
	router.GET("/api/v1/archives", handler.ListArchives)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/archives", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Archives []api.ArchiveInfo `json:"archives"`
		Total    int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 2 {
		t.Errorf("expected 2 archives, got %d", resp.Total)
	}
	if resp.Archives[0].Key != "2026-08-23_Toronto" || resp.Archives[0].State != "appending" {
		t.Errorf("unexpected first archive: %+v", resp.Archives[0])
	}
	if resp.Archives[1].Key != "2026-08-24_Toronto" || resp.Archives[1].State != "open" {
		t.Errorf("unexpected second archive: %+v", resp.Archives[1])
	}
}

func TestArchivesHandler_SealArchive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	service := newArchiveFixture(t)
	service.registry.GetOrCreate("2026-08-23_Toronto")

	handler := api.NewArchivesHandler(service)
	router.POST("/api/v1/archives/:key/seal", handler.SealArchive)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/archives/2026-08-23_Toronto/seal", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(service.sealed) != 1 || service.sealed[0] != "2026-08-23_Toronto" {
		t.Errorf("expected seal of 2026-08-23_Toronto, got %v", service.sealed)
	}
}

func TestArchivesHandler_SealArchive_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := api.NewArchivesHandler(newArchiveFixture(t))
	router.POST("/api/v1/archives/:key/seal", handler.SealArchive)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/archives/2026-08-23_Nowhere/seal", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown archive, got %d", w.Code)
	}
}

func TestArchivesHandler_DeleteArchive_Idempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	service := newArchiveFixture(t)
	if _, err := service.registry.GetOrCreate("2026-08-23_Toronto").
		Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`)); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	handler := api.NewArchivesHandler(service)
	router.DELETE("/api/v1/archives/:key", handler.DeleteArchive)

	for range 2 {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/archives/2026-08-23_Toronto", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	if service.registry.Has("2026-08-23_Toronto") {
		t.Error("expected archive mapping to be released after delete")
	}
}
