package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"reelforge/internal/cache"
	apperrors "reelforge/internal/errors"
	"reelforge/internal/events"
	"reelforge/internal/model"
	"reelforge/internal/repository"
)

const (
	// TrendListCacheKey prefixes the cached trend list. The full key carries the
	// current generation from TrendListGenerationKey.
	TrendListCacheKey = "trends:all"
	// TrendListGenerationKey is bumped by every successful trend write.
	TrendListGenerationKey = "trends:all:gen"
	trendListCacheTTL      = 5 * time.Minute
)

// TrendCache is the part of cache.Client the trend service uses.
type TrendCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Incr(ctx context.Context, key string) error
}

// trendListKey names the list entry for the current generation. A list read
// from storage before a write can only fill an entry no reader will ask for
// once the write has bumped the generation.
func trendListKey(ctx context.Context, c TrendCache) string {
	gen, _ := c.Get(ctx, TrendListGenerationKey)
	if len(gen) == 0 {
		return TrendListCacheKey + ":0"
	}
	return TrendListCacheKey + ":" + string(gen)
}

// InvalidateTrendList retires the cached trend list.
func InvalidateTrendList(ctx context.Context, c TrendCache) {
	_ = c.Incr(ctx, TrendListGenerationKey)
}

// TrendInput carries every mutable trend field. Blank optional fields take
// their defaults on both create and update.
type TrendInput struct {
	Title           string
	Platform        string
	Niche           string
	HookType        string
	Description     string
	EditingTemplate string
	CaptionExample  string
	Hashtags        string
	SoundType       string
	Status          string
	SourceURL       string
}

// Validate checks the required fields.
func (in TrendInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.EditingTemplate) == "" {
		return apperrors.Validation("Title, description and editing template are required.")
	}
	return nil
}

func (in TrendInput) applyTo(t *model.Trend) {
	t.Title = in.Title
	t.Platform = in.Platform
	t.Niche = in.Niche
	t.HookType = in.HookType
	t.Description = in.Description
	t.EditingTemplate = in.EditingTemplate
	t.CaptionExample = in.CaptionExample
	t.Hashtags = in.Hashtags
	t.SoundType = in.SoundType
	t.Status = in.Status
	t.SourceURL = in.SourceURL
	t.ApplyDefaults()
}

// TrendService handles trend template operations. It does no ownership checks.
type TrendService interface {
	List(ctx context.Context) ([]model.Trend, error)
	// Upsert creates a trend when id is empty and replaces the trend with that id
	// otherwise. created reports which of the two happened.
	Upsert(ctx context.Context, id string, in TrendInput) (trend *model.Trend, created bool, err error)
	Delete(ctx context.Context, id string) error
}

type trendService struct {
	repo      repository.TrendRepository
	cache     TrendCache
	publisher events.EventPublisher
	log       logrus.FieldLogger
}

// NewTrendService creates a new trend service.
func NewTrendService(repo repository.TrendRepository, listCache TrendCache, publisher events.EventPublisher, log logrus.FieldLogger) TrendService {
	if listCache == nil {
		// a nil *cache.Client is an always-empty cache
		listCache = (*cache.Client)(nil)
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &trendService{
		repo:      repo,
		cache:     listCache,
		publisher: publisher,
		log:       log,
	}
}

// List returns every trend, most recently created first.
func (s *trendService) List(ctx context.Context) ([]model.Trend, error) {
	key := trendListKey(ctx, s.cache)
	var cached []model.Trend
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	trends, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trends: %w", err)
	}
	if trends == nil {
		trends = []model.Trend{}
	}

	s.cache.SetJSON(ctx, key, trends, trendListCacheTTL)
	return trends, nil
}

func (s *trendService) Upsert(ctx context.Context, id string, in TrendInput) (*model.Trend, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	if id == "" {
		trend := &model.Trend{}
		in.applyTo(trend)
		if err := s.repo.Create(ctx, trend); err != nil {
			return nil, false, fmt.Errorf("create trend: %w", err)
		}
		s.afterChange(ctx, events.SubjectTrendCreated, trend)
		return trend, true, nil
	}

	trend, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.NotFound("Trend not found for update")
		}
		return nil, false, fmt.Errorf("find trend: %w", err)
	}

	in.applyTo(trend)
	if err := s.repo.Update(ctx, trend); err != nil {
		return nil, false, fmt.Errorf("update trend: %w", err)
	}
	s.afterChange(ctx, events.SubjectTrendUpdated, trend)
	return trend, false, nil
}

// Delete removes a trend; a missing id is NotFound and changes nothing.
func (s *trendService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Trend not found")
		}
		return fmt.Errorf("delete trend: %w", err)
	}

	InvalidateTrendList(ctx, s.cache)
	if err := s.publisher.PublishTrendDeleted(id); err != nil {
		s.log.WithError(err).WithField("trend_id", id).Warn("publish trend event failed")
	}
	return nil
}

// afterChange invalidates the list cache and announces the change. Publishing
// failures never fail the request.
func (s *trendService) afterChange(ctx context.Context, subject string, trend *model.Trend) {
	InvalidateTrendList(ctx, s.cache)
	if err := s.publisher.PublishTrendChanged(subject, trend); err != nil {
		s.log.WithError(err).WithField("trend_id", trend.ID).Warn("publish trend event failed")
	}
}
