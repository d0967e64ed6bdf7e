package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
	"github.com/srgjo27/lesson_booking/internal/core/ports"
)

const catalogCacheKey = "lessons:catalog"

var ErrCatalogUnavailable = errors.New("catalog unavailable, using built-in lessons")

type CatalogService struct {
	source ports.CatalogSource
	cache  *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewCatalogService builds the catalog loader. cache may be nil, in which
// case every load goes to the source.
func NewCatalogService(source ports.CatalogSource, cache *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// Load populates the session catalog with a single fetch. When the fetch
// fails the seed catalog is installed and an error wrapping
// ErrCatalogUnavailable is returned; the session is usable either way.
func (s *CatalogService) Load(ctx context.Context, session *domain.Session) error {
	log := s.log.WithField("session_id", session.ID)

	if lessons, ok := s.cached(ctx, log); ok {
		session.SetLessons(lessons)
		log.WithField("lessons", len(lessons)).Debug("catalog loaded from cache")
		return nil
	}

	raw, err := s.source.FetchLessons(ctx)
	if err == nil && raw == nil {
		err = errors.New("source returned no lesson list")
	}
	if err != nil {
		session.SetLessons(domain.SeedLessons())
		log.WithError(err).Warn("catalog fetch failed, falling back to seed lessons")
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	lessons := make([]domain.Lesson, 0, len(raw))
	for i, r := range raw {
		lessons = append(lessons, domain.NormalizeLesson(r, i))
	}

	session.SetLessons(lessons)
	s.store(ctx, log, lessons)
	log.WithField("lessons", len(lessons)).Info("catalog loaded")

	return nil
}

func (s *CatalogService) cached(ctx context.Context, log logrus.FieldLogger) ([]domain.Lesson, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("catalog cache read failed")
		}
		return nil, false
	}

	var lessons []domain.Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		log.WithError(err).Warn("catalog cache entry is corrupt")
		return nil, false
	}

	return lessons, true
}

func (s *CatalogService) store(ctx context.Context, log logrus.FieldLogger, lessons []domain.Lesson) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(lessons)
	if err != nil {
		log.WithError(err).Warn("encoding catalog for cache")
		return
	}

	if err := s.cache.Set(ctx, catalogCacheKey, data, s.ttl).Err(); err != nil {
		log.WithError(err).Warn("catalog cache write failed")
	}
}

// invalidateCatalog drops the shared catalog copy so the next session sees
// the seat counts written by a checkout.
func invalidateCatalog(ctx context.Context, cache *redis.Client, log logrus.FieldLogger) {
	if cache == nil {
		return
	}

	if err := cache.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.WithError(err).Warn("catalog cache invalidation failed")
	}
}
