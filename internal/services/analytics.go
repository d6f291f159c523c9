package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/modules/analytics"
	"github.com/yungbote/mysticwriter-backend/internal/observability"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

type AnalyticsService interface {
	GetSummary(ctx context.Context, userID uuid.UUID) analytics.Summary
	TrackWordsWritten(ctx context.Context, userID uuid.UUID, words int) (*types.DailyActivityRecord, error)
	TrackCharacterCreated(ctx context.Context, userID uuid.UUID)
	TrackStoryCreated(ctx context.Context, userID uuid.UUID)
	GetByDateRange(ctx context.Context, userID uuid.UUID, start, end string) []*types.DailyActivityRecord
	// InvalidateSummary drops today's cached summary after changes outside the
	// ledger, such as character deletes.
	InvalidateSummary(ctx context.Context, userID uuid.UUID)
	Today() time.Time
}

type AnalyticsConfig struct {
	// Location decides which calendar day "today" is, for reads and writes.
	Location *time.Location
	Clock    Clock
	Cache    SummaryCache
	CacheTTL time.Duration
}

type analyticsService struct {
	log           *logger.Logger
	activityRepo  repos.ActivityRepo
	characterRepo repos.CharacterRepo
	loc           *time.Location
	clock         Clock
	cache         SummaryCache
	cacheTTL      time.Duration
	metrics       *observability.Metrics
}

func NewAnalyticsService(
	log *logger.Logger,
	activityRepo repos.ActivityRepo,
	characterRepo repos.CharacterRepo,
	cfg AnalyticsConfig,
) AnalyticsService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &analyticsService{
		log:           log.With("service", "AnalyticsService"),
		activityRepo:  activityRepo,
		characterRepo: characterRepo,
		loc:           loc,
		clock:         clock,
		cache:         cfg.Cache,
		cacheTTL:      ttl,
		metrics:       observability.Current(),
	}
}

func (as *analyticsService) Today() time.Time {
	return as.clock.now().In(as.loc)
}

func (as *analyticsService) todayKey() string {
	return analytics.FormatDate(as.Today())
}

// GetSummary never fails: any read error yields the zero summary.
func (as *analyticsService) GetSummary(ctx context.Context, userID uuid.UUID) analytics.Summary {
	today := as.Today()
	dayKey := analytics.FormatDate(today)

	if as.cache != nil {
		if cached, ok, err := as.cache.Get(ctx, userID, dayKey); err != nil {
			as.metrics.ObserveSummaryCache(ctx, "error")
			as.log.Debug("summary cache read failed", "user_id", userID, "error", err)
		} else if ok {
			as.metrics.ObserveSummaryCache(ctx, "hit")
			return cached
		} else {
			as.metrics.ObserveSummaryCache(ctx, "miss")
		}
	}

	var (
		records    []*types.DailyActivityRecord
		characters int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := as.activityRepo.ListByUser(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("list activity: %w", err)
		}
		records = rows
		return nil
	})
	g.Go(func() error {
		n, err := as.characterRepo.CountByUser(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("count characters: %w", err)
		}
		characters = n
		return nil
	})
	if err := g.Wait(); err != nil {
		as.log.Warn("analytics summary unavailable, returning zero summary", "user_id", userID, "error", err)
		return analytics.Summary{}
	}

	summary := analytics.ComputeSummary(records, today, int(characters))
	if as.cache != nil {
		if err := as.cache.Set(ctx, userID, dayKey, summary, as.cacheTTL); err != nil {
			as.log.Debug("summary cache write failed", "user_id", userID, "error", err)
		}
	}
	return summary
}

// TrackWordsWritten records one segment of words against today.
func (as *analyticsService) TrackWordsWritten(ctx context.Context, userID uuid.UUID, words int) (*types.DailyActivityRecord, error) {
	if userID == uuid.Nil {
		return nil, invalid("invalid_user", "user id required")
	}
	if words < 0 {
		return nil, invalid("invalid_words", "words must be non-negative")
	}
	rec, err := as.increment(ctx, userID, "words", repos.ActivityDelta{Words: words, Segments: 1})
	if err != nil {
		return nil, fmt.Errorf("track words written: %w", err)
	}
	return rec, nil
}

func (as *analyticsService) TrackCharacterCreated(ctx context.Context, userID uuid.UUID) {
	if _, err := as.increment(ctx, userID, "characters", repos.ActivityDelta{Characters: 1}); err != nil {
		as.log.Warn("track character created failed", "user_id", userID, "error", err)
	}
}

func (as *analyticsService) TrackStoryCreated(ctx context.Context, userID uuid.UUID) {
	if _, err := as.increment(ctx, userID, "stories", repos.ActivityDelta{Stories: 1}); err != nil {
		as.log.Warn("track story created failed", "user_id", userID, "error", err)
	}
}

func (as *analyticsService) increment(ctx context.Context, userID uuid.UUID, counter string, delta repos.ActivityDelta) (*types.DailyActivityRecord, error) {
	dayKey := as.todayKey()
	rec, err := as.activityRepo.Increment(ctx, nil, userID, dayKey, delta)
	if err != nil {
		as.metrics.ObserveActivityUpsert(ctx, counter, "error")
		return nil, err
	}
	as.metrics.ObserveActivityUpsert(ctx, counter, "ok")
	as.invalidate(ctx, userID, dayKey)
	return rec, nil
}

func (as *analyticsService) InvalidateSummary(ctx context.Context, userID uuid.UUID) {
	as.invalidate(ctx, userID, as.todayKey())
}

func (as *analyticsService) invalidate(ctx context.Context, userID uuid.UUID, dayKey string) {
	if as.cache == nil {
		return
	}
	if err := as.cache.Invalidate(ctx, userID, dayKey); err != nil {
		as.log.Debug("summary cache invalidate failed", "user_id", userID, "error", err)
	}
}

// GetByDateRange returns [start, end] oldest first, or an empty list on any failure.
func (as *analyticsService) GetByDateRange(ctx context.Context, userID uuid.UUID, start, end string) []*types.DailyActivityRecord {
	if err := analytics.ValidateRange(start, end); err != nil {
		as.log.Debug("invalid analytics range", "start", start, "end", end, "error", err)
		return []*types.DailyActivityRecord{}
	}
	rows, err := as.activityRepo.ListRange(ctx, nil, userID, start, end)
	if err != nil {
		as.log.Warn("analytics range read failed", "user_id", userID, "error", err)
		return []*types.DailyActivityRecord{}
	}
	return rows
}
