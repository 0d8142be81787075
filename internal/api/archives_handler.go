package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/geosearch/internal/archive"
)

// ArchiveService is the subset of the ingestion service the archives
// handler drives.
type ArchiveService interface {
	Registry() *archive.Registry
	SealDay(ctx context.Context, key string) error
}

// ArchivesHandler handles archive-related HTTP requests.
type ArchivesHandler struct {
	service ArchiveService
}

// NewArchivesHandler creates a new archives handler.
func NewArchivesHandler(service ArchiveService) *ArchivesHandler {
	return &ArchivesHandler{service: service}
}

// ListArchives handles GET /api/v1/archives
func (h *ArchivesHandler) ListArchives(c *gin.Context) {
	registry := h.service.Registry()

	keys := registry.Keys()
	archives := make([]ArchiveInfo, 0, len(keys))
	for _, key := range keys {
		file, err := registry.Get(key)
		if err != nil {
			// Released between the snapshot and the lookup.
			continue
		}
		archives = append(archives, ArchiveInfo{
			Key:   key,
			Path:  file.Path(),
			State: file.State().String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"archives": archives,
		"total":    len(archives),
	})
}

// SealArchive handles POST /api/v1/archives/:key/seal
func (h *ArchivesHandler) SealArchive(c *gin.Context) {
	key := c.Param("key")

	if err := h.service.SealDay(c.Request.Context(), key); err != nil {
		if errors.Is(err, archive.ErrArchiveNotFound) {
			respondNotFound(c, "archive")
			return
		}
		respondInternalError(c, "Failed to seal archive")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Archive sealed successfully",
		"key":     key,
	})
}

// DeleteArchive handles DELETE /api/v1/archives/:key. Deleting an
// unknown or already-deleted archive succeeds, so retries are harmless.
func (h *ArchivesHandler) DeleteArchive(c *gin.Context) {
	key := c.Param("key")

	if err := h.service.Registry().Delete(key); err != nil {
		respondInternalError(c, "Failed to delete archive")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Archive deleted successfully",
		"key":     key,
	})
}
