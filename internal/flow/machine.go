// Package flow implements the answer-collection state machine and the
// at-most-once submission guard for one assessment session.
package flow

import (
	"context"
	"log"
	"sync"
	"time"

	"pulsecheck/internal/model"
	"pulsecheck/internal/scoring"
)

// Notifier receives fire-and-forget lifecycle notifications. Implementations
// must not block; the machine calls them synchronously outside its lock.
type Notifier interface {
	AssessmentStarted(assessmentType string, version model.CatalogVersion, sessionID string)
	AssessmentCompleted(assessmentType string, version model.CatalogVersion, sessionID string)
	AssessmentAbandoned(assessmentType string, version model.CatalogVersion, sessionID string)
}

// Persister accepts the finished submission payload. It is satisfied by
// repository.SubmissionRepo.
type Persister interface {
	Create(ctx context.Context, sub *model.Submission) error
}

// Machine owns the AssessmentState of a single flow instance and drives it
// through idle → in_progress → completed → submitting → completed. All
// methods are safe for concurrent use; the mutex stands in for the original
// single-threaded event loop.
type Machine struct {
	mu       sync.Mutex
	catalog  model.Catalog
	notifier Notifier

	state    model.AssessmentState
	selected map[string]string // questionID → optionID, at most one per question
	result   *model.ScoringResult
	guard    Guard
}

// NewMachine creates an idle machine for the given session and catalog.
func NewMachine(sessionID string, catalog model.Catalog, notifier Notifier) *Machine {
	return &Machine{
		catalog:  catalog,
		notifier: notifier,
		selected: make(map[string]string),
		state: model.AssessmentState{
			SessionID:      sessionID,
			AssessmentType: catalog.AssessmentType(),
			Version:        catalog.Version(),
			Status:         model.StatusIdle,
		},
	}
}

// Restore rebuilds a machine from a persisted snapshot. The guard flags come
// back with it so a restored session cannot submit twice.
func Restore(snap *model.Snapshot, catalog model.Catalog, notifier Notifier) *Machine {
	m := &Machine{
		catalog:  catalog,
		notifier: notifier,
		selected: make(map[string]string, len(snap.State.Answers)),
		state:    snap.State,
		result:   snap.Result,
	}
	m.state.Answers = append([]model.Answer(nil), snap.State.Answers...)
	for _, a := range m.state.Answers {
		m.selected[a.QuestionID] = a.OptionID
	}
	m.guard.Restore(snap.SubmissionID, snap.SubmissionAttempted)
	return m
}

// Start begins (or restarts) the flow. A restart fully discards the previous
// run: answers, cursor, result, and guard. Never a merge.
func (m *Machine) Start() {
	m.mu.Lock()
	m.state.CurrentQuestionIndex = 0
	m.state.Answers = nil
	m.state.CompletedAt = nil
	m.state.StartedAt = time.Now()
	m.state.Status = model.StatusInProgress
	m.selected = make(map[string]string)
	m.result = nil
	m.guard.Reset()
	t, v, sid := m.state.AssessmentType, m.state.Version, m.state.SessionID
	m.mu.Unlock()

	if m.notifier != nil {
		m.notifier.AssessmentStarted(t, v, sid)
	}
}

// SelectOption records an answer for the current question. Re-answering
// replaces the prior choice (last-write-wins). Unknown option IDs are
// warn-logged no-ops; state is never corrupted.
func (m *Machine) SelectOption(optionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != model.StatusInProgress {
		log.Printf("flow: selectOption in status %s ignored (session %s)", m.state.Status, m.state.SessionID)
		return
	}
	questionID := m.catalog.QuestionIDAt(m.state.CurrentQuestionIndex)
	if questionID == "" {
		return
	}
	if !m.catalog.HasOption(questionID, optionID) {
		log.Printf("flow: unknown option %q for question %q ignored (session %s)", optionID, questionID, m.state.SessionID)
		return
	}

	m.selected[questionID] = optionID
	for i := range m.state.Answers {
		if m.state.Answers[i].QuestionID == questionID {
			m.state.Answers[i].OptionID = optionID
			return
		}
	}
	m.state.Answers = append(m.state.Answers, model.Answer{QuestionID: questionID, OptionID: optionID})
}

// Advance moves to the next question, or completes the flow when the last
// question has been answered. Advancing past an unanswered question is a
// silent no-op: progression is impossible without an answer, by contract.
// Scoring runs exactly once, here, on the completing advance.
func (m *Machine) Advance() {
	m.mu.Lock()

	if m.state.Status != model.StatusInProgress {
		m.mu.Unlock()
		return
	}
	questionID := m.catalog.QuestionIDAt(m.state.CurrentQuestionIndex)
	if _, answered := m.selected[questionID]; questionID == "" || !answered {
		m.mu.Unlock()
		return
	}
	if m.state.CurrentQuestionIndex < m.catalog.NumQuestions()-1 {
		m.state.CurrentQuestionIndex++
		m.mu.Unlock()
		return
	}

	m.result = score(m.state.Answers, m.catalog)
	now := time.Now()
	m.state.CompletedAt = &now
	m.state.Status = model.StatusCompleted
	t, v, sid := m.state.AssessmentType, m.state.Version, m.state.SessionID
	m.mu.Unlock()

	if m.notifier != nil {
		m.notifier.AssessmentCompleted(t, v, sid)
	}
}

// Retreat steps the cursor back, floored at zero. Status never changes.
func (m *Machine) Retreat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Status != model.StatusInProgress {
		return
	}
	if m.state.CurrentQuestionIndex > 0 {
		m.state.CurrentQuestionIndex--
	}
}

// Abandon signals that the flow ended without completion. It is a
// fire-and-forget notification, not a state transition, and is idempotent
// in its externally visible effect.
func (m *Machine) Abandon() {
	m.mu.Lock()
	inProgress := m.state.Status == model.StatusInProgress
	t, v, sid := m.state.AssessmentType, m.state.Version, m.state.SessionID
	m.mu.Unlock()

	if inProgress && m.notifier != nil {
		m.notifier.AssessmentAbandoned(t, v, sid)
	}
}

// Submit transmits the scored classification to the persister at most once.
// Calls with no scored result, calls while a transmission is in flight, and
// calls after any prior attempt (even a failed one) are logged no-ops. The
// returned submission ID is stable across duplicate calls.
func (m *Machine) Submit(ctx context.Context, p Persister, metadata map[string]string) (string, error) {
	m.mu.Lock()
	if m.result == nil {
		sid := m.state.SessionID
		m.mu.Unlock()
		log.Printf("flow: submit without a scored result ignored (session %s)", sid)
		return "", nil
	}

	submissionID, acquired := m.guard.Begin()
	if !acquired {
		sid := m.state.SessionID
		m.mu.Unlock()
		log.Printf("flow: duplicate submit skipped (session %s)", sid)
		return submissionID, nil
	}

	m.state.Status = model.StatusSubmitting
	sub := &model.Submission{
		SubmissionID:      submissionID,
		AssessmentType:    m.state.AssessmentType,
		AssessmentVersion: m.state.Version,
		SessionID:         m.state.SessionID,
		Answers:           append([]model.Answer(nil), m.state.Answers...),
		Result:            *m.result,
		Metadata:          metadata,
		SubmittedAt:       time.Now(),
	}
	m.mu.Unlock()

	err := p.Create(ctx, sub)

	m.mu.Lock()
	m.state.Status = model.StatusCompleted
	m.mu.Unlock()
	m.guard.Finish()

	if err != nil {
		// Caught locally; the guard refuses a same-instance retry, so a
		// fresh flow instance is required to submit again.
		log.Printf("flow: submission failed (session %s, submission %s): %v", sub.SessionID, submissionID, err)
		return submissionID, err
	}
	return submissionID, nil
}

// State returns a copy of the externally visible state.
func (m *Machine) State() model.AssessmentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Answers = append([]model.Answer(nil), m.state.Answers...)
	return s
}

// Result returns the scored classification, or nil before completion.
func (m *Machine) Result() *model.ScoringResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Snapshot captures everything needed to restore this machine later.
func (m *Machine) Snapshot() *model.Snapshot {
	m.mu.Lock()
	s := m.state
	s.Answers = append([]model.Answer(nil), m.state.Answers...)
	r := m.result
	m.mu.Unlock()

	return &model.Snapshot{
		State:               s,
		Result:              r,
		SubmissionID:        m.guard.SubmissionID(),
		SubmissionAttempted: m.guard.Attempted(),
	}
}

// score dispatches on the sealed catalog union; the type switch is
// exhaustive over its two members.
func score(answers []model.Answer, cat model.Catalog) *model.ScoringResult {
	switch c := cat.(type) {
	case *model.CatalogV1:
		return &model.ScoringResult{Version: model.CatalogVersionV1, V1: scoring.ScoreV1(answers, c)}
	case *model.CatalogV2:
		return &model.ScoringResult{Version: model.CatalogVersionV2, V2: scoring.ScoreV2(answers, c)}
	}
	return nil
}
