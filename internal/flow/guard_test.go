package flow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsecheck/internal/model"
)

type fakePersister struct {
	mu    sync.Mutex
	calls int
	err   error
	last  *model.Submission
}

func (p *fakePersister) Create(ctx context.Context, sub *model.Submission) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = sub
	return p.err
}

func (p *fakePersister) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func completedMachine(t *testing.T) *Machine {
	t.Helper()
	cat := testCatalog()
	m := NewMachine("s1", cat, nil)
	m.Start()
	answerAll(m, cat)
	require.NotNil(t, m.Result())
	return m
}

func TestGuardBeginClaimsOnce(t *testing.T) {
	var g Guard

	id1, acquired := g.Begin()
	require.True(t, acquired)
	require.NotEmpty(t, id1)

	id2, acquired := g.Begin()
	assert.False(t, acquired)
	assert.Equal(t, id1, id2)

	g.Finish()

	// Settled is still attempted; the slot never reopens.
	id3, acquired := g.Begin()
	assert.False(t, acquired)
	assert.Equal(t, id1, id3)
	assert.True(t, g.Attempted())
}

func TestGuardResetReopensSlot(t *testing.T) {
	var g Guard
	first, _ := g.Begin()
	g.Finish()

	g.Reset()

	assert.False(t, g.Attempted())
	assert.Empty(t, g.SubmissionID())

	second, acquired := g.Begin()
	assert.True(t, acquired)
	assert.NotEqual(t, first, second, "a new run gets a new idempotency key")
}

func TestSubmitWithoutResultIsNoop(t *testing.T) {
	m := NewMachine("s1", testCatalog(), nil)
	m.Start()
	p := &fakePersister{}

	id, err := m.Submit(context.Background(), p, nil)

	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, p.callCount())
	assert.Equal(t, model.StatusInProgress, m.State().Status)
}

func TestSubmitPersistsExactlyOnce(t *testing.T) {
	m := completedMachine(t)
	p := &fakePersister{}

	id1, err := m.Submit(context.Background(), p, map[string]string{"channel": "rest"})
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := m.Submit(context.Background(), p, nil)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "duplicate submits report the original submission ID")
	assert.Equal(t, 1, p.callCount())
	assert.Equal(t, model.StatusCompleted, m.State().Status)

	require.NotNil(t, p.last)
	assert.Equal(t, id1, p.last.SubmissionID)
	assert.Equal(t, "s1", p.last.SessionID)
	assert.Equal(t, model.CatalogVersionV1, p.last.AssessmentVersion)
	assert.Len(t, p.last.Answers, 3)
}

func TestSubmitConcurrentCallersShareOneAttempt(t *testing.T) {
	m := completedMachine(t)
	p := &fakePersister{}

	const callers = 8
	ids := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			id, err := m.Submit(context.Background(), p, nil)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, p.callCount())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestSubmitFailedAttemptStillCounts(t *testing.T) {
	m := completedMachine(t)
	p := &fakePersister{err: errors.New("store unavailable")}

	id1, err := m.Submit(context.Background(), p, nil)
	require.Error(t, err)
	require.NotEmpty(t, id1)

	// The error is settled; the flow is back to completed.
	assert.Equal(t, model.StatusCompleted, m.State().Status)

	// A retry on the same instance is refused even though the first failed.
	p.err = nil
	id2, err := m.Submit(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, p.callCount())
}

func TestRestoredGuardRefusesSecondSubmit(t *testing.T) {
	m := completedMachine(t)
	p := &fakePersister{}

	id, err := m.Submit(context.Background(), p, nil)
	require.NoError(t, err)

	restored := Restore(m.Snapshot(), testCatalog(), nil)

	id2, err := restored.Submit(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Equal(t, 1, p.callCount())
}
