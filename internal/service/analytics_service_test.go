package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsecheck/internal/model"
)

type memFunnelCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func funnelKey(assessmentType string, version model.CatalogVersion, event model.FunnelEvent) string {
	return assessmentType + "/" + string(version) + "/" + string(event)
}

func (c *memFunnelCache) Increment(ctx context.Context, assessmentType string, version model.CatalogVersion, event model.FunnelEvent) error {
	c.mu.Lock()
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[funnelKey(assessmentType, version, event)]++
	c.mu.Unlock()
	return nil
}

func (c *memFunnelCache) Counts(ctx context.Context, assessmentType string, version model.CatalogVersion) (*model.FunnelStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &model.FunnelStats{
		AssessmentType: assessmentType,
		Version:        version,
		Started:        c.counts[funnelKey(assessmentType, version, model.EventStarted)],
		Completed:      c.counts[funnelKey(assessmentType, version, model.EventCompleted)],
		Abandoned:      c.counts[funnelKey(assessmentType, version, model.EventAbandoned)],
	}, nil
}

// memFeed signals done after each event; the counter increment happens
// earlier on the same goroutine, so a drained done channel means the
// counters are settled too.
type memFeed struct {
	mu     sync.Mutex
	events []model.FeedEvent
	done   chan struct{}
}

func (f *memFeed) BroadcastEvent(msgType string, payload interface{}) {
	f.mu.Lock()
	if ev, ok := payload.(model.FeedEvent); ok {
		f.events = append(f.events, ev)
	}
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
}

func waitFor(t *testing.T, done chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for dispatch %d of %d", i+1, n)
		}
	}
}

func TestAnalyticsServiceCountsFunnelEvents(t *testing.T) {
	funnel := &memFunnelCache{}
	feed := &memFeed{done: make(chan struct{}, 8)}
	svc := NewAnalyticsService(funnel)
	svc.SetFeed(feed)

	svc.AssessmentStarted("archetype", model.CatalogVersionV1, "s1")
	svc.AssessmentStarted("archetype", model.CatalogVersionV1, "s2")
	svc.AssessmentCompleted("archetype", model.CatalogVersionV1, "s1")
	svc.AssessmentAbandoned("archetype", model.CatalogVersionV1, "s2")
	waitFor(t, feed.done, 4)

	stats, err := svc.Stats(context.Background(), "archetype")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	v1 := stats[0]
	assert.Equal(t, model.CatalogVersionV1, v1.Version)
	assert.Equal(t, int64(2), v1.Started)
	assert.Equal(t, int64(1), v1.Completed)
	assert.Equal(t, int64(1), v1.Abandoned)

	feed.mu.Lock()
	defer feed.mu.Unlock()
	assert.Len(t, feed.events, 4)
}
