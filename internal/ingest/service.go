// Package ingest drives polling of the search API into per-day,
// per-location archive files and their end-of-day rotation.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/domain"
	"github.com/jonesrussell/geosearch/internal/logger"
	"github.com/jonesrussell/geosearch/internal/metrics"
	"github.com/jonesrussell/geosearch/internal/search"
)

const (
	// defaultPageSize is the page size used when none is configured.
	defaultPageSize = 100
	// defaultMaxPages bounds the pages fetched per location per poll.
	defaultMaxPages = 10
)

// MirrorUploader mirrors sealed archive files to object storage.
// Mirrors the mirror.Uploader surface so tests can substitute a fake.
type MirrorUploader interface {
	Enabled() bool
	Upload(ctx context.Context, key, path string) error
}

// Service polls registered locations and archives the raw response pages.
type Service struct {
	registry  *archive.Registry
	client    search.Client
	locations database.LocationRepositoryInterface
	uploader  MirrorUploader
	metrics   *metrics.Metrics
	logger    logger.Interface
	pageSize  int
	maxPages  int
	now       func() time.Time
}

// Params holds parameters for creating a new Service.
type Params struct {
	Registry  *archive.Registry
	Client    search.Client
	Locations database.LocationRepositoryInterface
	// Uploader is optional; nil disables mirroring.
	Uploader MirrorUploader
	// Metrics is optional; a fresh set is created when nil.
	Metrics *metrics.Metrics
	Logger   logger.Interface
	PageSize int
	MaxPages int
	// Now is optional and exists for tests; defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new ingestion service.
func NewService(p Params) *Service {
	if p.Metrics == nil {
		p.Metrics = metrics.NewMetrics()
	}
	if p.Logger == nil {
		p.Logger = logger.NewNoOp()
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.MaxPages <= 0 {
		p.MaxPages = defaultMaxPages
	}
	if p.Now == nil {
		p.Now = time.Now
	}

	return &Service{
		registry:  p.Registry,
		client:    p.Client,
		locations: p.Locations,
		uploader:  p.Uploader,
		metrics:   p.Metrics,
		logger:    p.Logger,
		pageSize:  p.PageSize,
		maxPages:  p.MaxPages,
		now:       p.Now,
	}
}

// Registry returns the archive registry the service writes into.
func (s *Service) Registry() *archive.Registry {
	return s.registry
}

// Metrics returns the pipeline counters.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// PollLocation fetches pages for one location and appends each raw page
// to today's archive for that location. Pagination follows the since_id
// cursor: each page's max_id becomes the next request's since_id. The
// loop stops on an empty page, a cursor that stops advancing, or the
// page budget. The location's stored cursor is updated once, after the
// loop, with the highest id seen.
func (s *Service) PollLocation(ctx context.Context, loc *domain.Location) error {
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID, "location", loc.Name)

	key := archive.Key(s.now().UTC(), loc.Name)
	file := s.registry.GetOrCreate(key)

	cursor := loc.SinceID
	pages := 0
	posts := 0

	var pollErr error
	for pages < s.maxPages {
		payload, err := s.client.Search(ctx, search.Query{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			RadiusKM:  loc.RadiusKM,
			Count:     s.pageSize,
			SinceID:   cursor,
		})
		if err != nil {
			pollErr = fmt.Errorf("search %s: %w", loc.Name, err)
			break
		}

		meta, err := file.Append(payload)
		if err != nil {
			pollErr = fmt.Errorf("archive page: %w", err)
			break
		}

		pages++
		posts += meta.Count
		s.metrics.RecordPage(meta.Count)

		log.Debug("page archived",
			"key", key,
			"page", pages,
			"count", meta.Count,
			"max_id", meta.MaxID,
		)

		advanced := meta.MaxID > cursor
		if advanced {
			cursor = meta.MaxID
		}
		if meta.Count == 0 || !advanced {
			break
		}
	}

	if pollErr != nil {
		s.metrics.RecordError()
	}

	// Record the poll whenever at least one page landed, so the cursor
	// reflects everything archived even when a later page failed. A poll
	// that fetched nothing leaves the location due for the next tick.
	if pages > 0 {
		if err := s.locations.UpdateCursor(ctx, loc.Name, cursor); err != nil {
			s.metrics.RecordError()
			if pollErr == nil {
				return fmt.Errorf("update cursor %s: %w", loc.Name, err)
			}
			log.Error("failed to update cursor",
				"error", err.Error(),
			)
		}
	}

	if pollErr != nil {
		return pollErr
	}

	log.Info("location polled",
		"key", key,
		"pages", pages,
		"posts", posts,
		"cursor", cursor,
	)
	return nil
}

// PollDue polls every enabled location whose poll interval has elapsed.
// Locations are polled sequentially; one failing location does not stop
// the others.
func (s *Service) PollDue(ctx context.Context) error {
	locations, err := s.locations.ListDueForPolling(ctx)
	if err != nil {
		s.metrics.RecordError()
		return fmt.Errorf("list due locations: %w", err)
	}
	if len(locations) == 0 {
		s.logger.Debug("no locations due for polling")
		return nil
	}

	failed := 0
	for _, loc := range locations {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.PollLocation(ctx, loc); err != nil {
			failed++
			s.logger.Error("location poll failed",
				"location", loc.Name,
				"error", err.Error(),
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d location polls failed", failed, len(locations))
	}
	return nil
}

// SealDay seals the archive for one key, mirrors it when a mirror is
// configured, and releases the registry mapping. An archive already
// sealed by an earlier attempt is not an error here, so a seal whose
// mirror upload failed can be retried.
func (s *Service) SealDay(ctx context.Context, key string) error {
	file, err := s.registry.Get(key)
	if err != nil {
		return err
	}

	if err := file.Seal(); err != nil {
		if !errors.Is(err, archive.ErrArchiveSealed) {
			s.metrics.RecordError()
			return fmt.Errorf("seal %s: %w", key, err)
		}
		s.logger.Debug("archive already sealed", "key", key)
	} else {
		s.metrics.RecordSeal()
	}

	if s.uploader != nil && s.uploader.Enabled() {
		if err := s.uploader.Upload(ctx, key, file.Path()); err != nil {
			// Mapping stays registered so the seal can be retried.
			s.metrics.RecordError()
			return fmt.Errorf("mirror %s: %w", key, err)
		}
		s.metrics.RecordMirrorUpload()
	}

	s.registry.Remove(key)
	s.logger.Info("archive sealed",
		"key", key,
		"path", file.Path(),
	)
	return nil
}

// SealBefore seals every registered archive whose day component falls
// before the given day. The scheduler runs this shortly after midnight
// with the current day, closing out everything from previous days.
func (s *Service) SealBefore(ctx context.Context, day time.Time) error {
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	sealed := 0
	failed := 0
	for _, key := range s.registry.Keys() {
		keyDay, _, err := archive.ParseKey(key)
		if err != nil || !keyDay.Before(cutoff) {
			continue
		}
		if err := s.SealDay(ctx, key); err != nil {
			failed++
			s.logger.Error("rotation seal failed",
				"key", key,
				"error", err.Error(),
			)
			continue
		}
		sealed++
	}

	s.logger.Info("rotation sweep complete",
		"cutoff", cutoff.Format(time.DateOnly),
		"sealed", sealed,
		"failed", failed,
	)

	if failed > 0 {
		return fmt.Errorf("rotation: %d archives failed to seal", failed)
	}
	return nil
}
