package flow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsecheck/internal/model"
)

func testCatalog() *model.CatalogV1 {
	q := func(id string) model.QuestionV1 {
		return model.QuestionV1{
			ID: id,
			Options: []model.OptionV1{
				{ID: "a", Weights: map[model.ClassID]float64{"alpha": 2, "beta": 0}},
				{ID: "b", Weights: map[model.ClassID]float64{"alpha": 0, "beta": 2}},
			},
		}
	}
	return &model.CatalogV1{
		Type:       "archetype",
		Classes:    []model.ClassID{"alpha", "beta"},
		Thresholds: model.DefaultThresholdsV1(),
		Questions:  []model.QuestionV1{q("q1"), q("q2"), q("q3")},
	}
}

type fakeNotifier struct {
	mu        sync.Mutex
	started   int
	completed int
	abandoned int
}

func (n *fakeNotifier) AssessmentStarted(string, model.CatalogVersion, string) {
	n.mu.Lock()
	n.started++
	n.mu.Unlock()
}

func (n *fakeNotifier) AssessmentCompleted(string, model.CatalogVersion, string) {
	n.mu.Lock()
	n.completed++
	n.mu.Unlock()
}

func (n *fakeNotifier) AssessmentAbandoned(string, model.CatalogVersion, string) {
	n.mu.Lock()
	n.abandoned++
	n.mu.Unlock()
}

func (n *fakeNotifier) counts() (started, completed, abandoned int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.started, n.completed, n.abandoned
}

// answerAll walks the machine through every question with option "a".
func answerAll(m *Machine, cat *model.CatalogV1) {
	for range cat.Questions {
		m.SelectOption("a")
		m.Advance()
	}
}

func TestMachineStartTransitionsToInProgress(t *testing.T) {
	notifier := &fakeNotifier{}
	m := NewMachine("s1", testCatalog(), notifier)

	assert.Equal(t, model.StatusIdle, m.State().Status)

	m.Start()

	state := m.State()
	assert.Equal(t, model.StatusInProgress, state.Status)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
	assert.Empty(t, state.Answers)
	assert.False(t, state.StartedAt.IsZero())

	started, _, _ := notifier.counts()
	assert.Equal(t, 1, started)
}

func TestMachineRestartDiscardsPreviousRun(t *testing.T) {
	cat := testCatalog()
	m := NewMachine("s1", cat, nil)
	m.Start()
	m.SelectOption("a")
	m.Advance()
	m.SelectOption("b")

	m.Start()

	state := m.State()
	assert.Equal(t, 0, state.CurrentQuestionIndex)
	assert.Empty(t, state.Answers)
	assert.Equal(t, model.StatusInProgress, state.Status)
	assert.Nil(t, m.Result())
}

func TestMachineSelectOptionBeforeStartIgnored(t *testing.T) {
	m := NewMachine("s1", testCatalog(), nil)

	m.SelectOption("a")

	assert.Empty(t, m.State().Answers)
}

func TestMachineSelectUnknownOptionIgnored(t *testing.T) {
	m := NewMachine("s1", testCatalog(), nil)
	m.Start()

	m.SelectOption("nope")

	state := m.State()
	assert.Empty(t, state.Answers)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
}

func TestMachineReanswerReplacesChoice(t *testing.T) {
	m := NewMachine("s1", testCatalog(), nil)
	m.Start()

	m.SelectOption("a")
	m.SelectOption("b")

	state := m.State()
	require.Len(t, state.Answers, 1)
	assert.Equal(t, "q1", state.Answers[0].QuestionID)
	assert.Equal(t, "b", state.Answers[0].OptionID)
}

func TestMachineAdvanceRequiresAnswer(t *testing.T) {
	m := NewMachine("s1", testCatalog(), nil)
	m.Start()

	m.Advance()

	assert.Equal(t, 0, m.State().CurrentQuestionIndex)
}

func TestMachineCompletionScoresOnce(t *testing.T) {
	cat := testCatalog()
	notifier := &fakeNotifier{}
	m := NewMachine("s1", cat, notifier)
	m.Start()

	answerAll(m, cat)

	state := m.State()
	assert.Equal(t, model.StatusCompleted, state.Status)
	require.NotNil(t, state.CompletedAt)

	result := m.Result()
	require.NotNil(t, result)
	assert.Equal(t, model.CatalogVersionV1, result.Version)
	require.NotNil(t, result.V1)
	assert.Equal(t, model.ClassID("alpha"), result.V1.PrimaryClass)

	// Further advances past completion change nothing.
	m.Advance()
	assert.Equal(t, result, m.Result())

	_, completed, _ := notifier.counts()
	assert.Equal(t, 1, completed)
}

func TestMachineRetreatFloorsAtZero(t *testing.T) {
	m := NewMachine("s1", testCatalog(), nil)
	m.Start()

	m.Retreat()
	assert.Equal(t, 0, m.State().CurrentQuestionIndex)

	m.SelectOption("a")
	m.Advance()
	assert.Equal(t, 1, m.State().CurrentQuestionIndex)

	m.Retreat()
	assert.Equal(t, 0, m.State().CurrentQuestionIndex)
}

func TestMachineAbandonNotifiesOnlyInProgress(t *testing.T) {
	cat := testCatalog()
	notifier := &fakeNotifier{}
	m := NewMachine("s1", cat, notifier)

	m.Abandon() // idle, no notification
	m.Start()
	m.Abandon()
	answerAll(m, cat)
	m.Abandon() // completed, no notification

	_, _, abandoned := notifier.counts()
	assert.Equal(t, 1, abandoned)

	// Abandon never mutates visible state.
	assert.Equal(t, model.StatusCompleted, m.State().Status)
}

func TestMachineSnapshotRestoreRoundTrip(t *testing.T) {
	cat := testCatalog()
	m := NewMachine("s1", cat, nil)
	m.Start()
	m.SelectOption("a")
	m.Advance()
	m.SelectOption("b")

	snap := m.Snapshot()
	restored := Restore(snap, cat, nil)

	assert.Equal(t, m.State(), restored.State())

	// The restored machine continues where the original left off.
	restored.Advance()
	restored.SelectOption("a")
	restored.Advance()
	assert.Equal(t, model.StatusCompleted, restored.State().Status)
}
