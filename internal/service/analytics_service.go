package service

import (
	"context"
	"log"
	"time"

	"pulsecheck/internal/cache"
	"pulsecheck/internal/model"
)

// Feed is the live broadcast surface for funnel events (implemented by the
// WebSocket ops hub).
type Feed interface {
	BroadcastEvent(msgType string, payload interface{})
}

// AnalyticsService receives fire-and-forget funnel notifications and rolls
// them into Redis counters plus the live ops feed. It implements
// flow.Notifier: every call returns immediately and does its I/O on a
// detached goroutine, so the flow never blocks on, or retries, analytics.
type AnalyticsService struct {
	funnelCache cache.FunnelCache
	feed        Feed
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(funnelCache cache.FunnelCache) *AnalyticsService {
	return &AnalyticsService{funnelCache: funnelCache}
}

// SetFeed sets the live broadcast surface for funnel events.
func (s *AnalyticsService) SetFeed(f Feed) {
	s.feed = f
}

// AssessmentStarted records a flow start.
func (s *AnalyticsService) AssessmentStarted(assessmentType string, version model.CatalogVersion, sessionID string) {
	s.dispatch(model.EventStarted, assessmentType, version, sessionID)
}

// AssessmentCompleted records a flow reaching its scored terminal state.
func (s *AnalyticsService) AssessmentCompleted(assessmentType string, version model.CatalogVersion, sessionID string) {
	s.dispatch(model.EventCompleted, assessmentType, version, sessionID)
}

// AssessmentAbandoned records a flow ending without completion.
func (s *AnalyticsService) AssessmentAbandoned(assessmentType string, version model.CatalogVersion, sessionID string) {
	s.dispatch(model.EventAbandoned, assessmentType, version, sessionID)
}

func (s *AnalyticsService) dispatch(event model.FunnelEvent, assessmentType string, version model.CatalogVersion, sessionID string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("analytics: recovered from panic dispatching %s: %v", event, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.funnelCache != nil {
			if err := s.funnelCache.Increment(ctx, assessmentType, version, event); err != nil {
				log.Printf("analytics: counter increment failed for %s/%s %s: %v", assessmentType, version, event, err)
			}
		}
		if s.feed != nil {
			s.feed.BroadcastEvent(string(event), model.FeedEvent{
				Event:          event,
				AssessmentType: assessmentType,
				Version:        version,
				SessionID:      sessionID,
			})
		}
	}()
}

// Stats returns the funnel counters for both scoring versions of a type.
func (s *AnalyticsService) Stats(ctx context.Context, assessmentType string) ([]*model.FunnelStats, error) {
	var out []*model.FunnelStats
	for _, version := range []model.CatalogVersion{model.CatalogVersionV1, model.CatalogVersionV2} {
		stats, err := s.funnelCache.Counts(ctx, assessmentType, version)
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}
