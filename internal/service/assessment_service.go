package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"pulsecheck/internal/cache"
	"pulsecheck/internal/flow"
	"pulsecheck/internal/model"
	"pulsecheck/internal/repository"
)

// ErrSessionNotFound is returned when a session is neither live in the
// registry nor restorable from its snapshot.
var ErrSessionNotFound = errors.New("session not found")

// AssessmentService owns the registry of live flow machines and
// orchestrates the funnel end to end: start, answer collection, scoring at
// completion, and the guarded single submission. Each session's state is
// mirrored to the state cache after every mutation so a registry miss can
// be restored (guard flags included).
type AssessmentService struct {
	catalogSvc     *CatalogService
	authSvc        *AuthService
	stateCache     cache.StateCache
	submissionRepo repository.SubmissionRepo
	notifier       flow.Notifier

	mu       sync.Mutex
	machines map[string]*flow.Machine
}

// NewAssessmentService creates a new assessment service.
func NewAssessmentService(
	catalogSvc *CatalogService,
	authSvc *AuthService,
	stateCache cache.StateCache,
	submissionRepo repository.SubmissionRepo,
) *AssessmentService {
	return &AssessmentService{
		catalogSvc:     catalogSvc,
		authSvc:        authSvc,
		stateCache:     stateCache,
		submissionRepo: submissionRepo,
		machines:       make(map[string]*flow.Machine),
	}
}

// SetNotifier sets the analytics notifier for flow lifecycle events.
func (s *AssessmentService) SetNotifier(n flow.Notifier) {
	s.notifier = n
}

// Start creates a fresh flow instance: new session, new state, new guard.
// Previous sessions are never reused or merged.
func (s *AssessmentService) Start(ctx context.Context, assessmentType string, version model.CatalogVersion) (*model.StartResponse, error) {
	if assessmentType == "" {
		if version == model.CatalogVersionV2 {
			assessmentType = DefaultTypeV2
		} else {
			assessmentType = DefaultTypeV1
		}
	}
	if version != model.CatalogVersionV1 && version != model.CatalogVersionV2 {
		return nil, fmt.Errorf("unknown scoring version %q", version)
	}

	catalog := s.catalogSvc.Load(ctx, assessmentType, version)
	sessionID := "s_" + uuid.New().String()[:8]

	token, err := s.authSvc.GenerateSessionToken(sessionID, assessmentType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	m := flow.NewMachine(sessionID, catalog, s.notifier)
	m.Start()

	s.mu.Lock()
	s.machines[sessionID] = m
	s.mu.Unlock()

	s.snapshot(ctx, m)

	return &model.StartResponse{
		SessionID: sessionID,
		Token:     token,
		State:     m.State(),
	}, nil
}

// SelectOption records an answer for the session's current question.
func (s *AssessmentService) SelectOption(ctx context.Context, sessionID, optionID string) (*model.AssessmentState, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.SelectOption(optionID)
	s.snapshot(ctx, m)
	state := m.State()
	return &state, nil
}

// Advance moves the session forward; on the final question this computes
// the classification and completes the flow.
func (s *AssessmentService) Advance(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.Advance()
	s.snapshot(ctx, m)
	state := m.State()
	return &state, nil
}

// Retreat steps the session back one question.
func (s *AssessmentService) Retreat(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.Retreat()
	s.snapshot(ctx, m)
	state := m.State()
	return &state, nil
}

// Abandon signals that the participant left without finishing.
func (s *AssessmentService) Abandon(ctx context.Context, sessionID string) error {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return err
	}
	m.Abandon()
	return nil
}

// GetState returns a read-only view of the session state.
func (s *AssessmentService) GetState(ctx context.Context, sessionID string) (*model.AssessmentState, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := m.State()
	return &state, nil
}

// GetResult returns the computed classification, or nil before completion.
func (s *AssessmentService) GetResult(ctx context.Context, sessionID string) (*model.ScoringResult, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.Result(), nil
}

// Submit transmits the classification at most once for this session. A
// transmission failure stays in the logs; the returned state lets the
// caller see the flow settle back to completed either way.
func (s *AssessmentService) Submit(ctx context.Context, sessionID string) (string, *model.AssessmentState, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}

	submissionID, subErr := m.Submit(ctx, s.submissionRepo, map[string]string{"channel": "rest"})
	s.snapshot(ctx, m)
	state := m.State()
	if subErr != nil {
		// Already logged by the machine; not surfaced to the participant.
		return submissionID, &state, nil
	}
	return submissionID, &state, nil
}

// GetCatalog returns the catalog a participant-facing renderer should show.
func (s *AssessmentService) GetCatalog(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error) {
	if version != model.CatalogVersionV1 && version != model.CatalogVersionV2 {
		return nil, fmt.Errorf("unknown scoring version %q", version)
	}
	return s.catalogSvc.Load(ctx, assessmentType, version), nil
}

// machine resolves a session to its live machine, restoring from the state
// cache when the registry has evicted it.
func (s *AssessmentService) machine(ctx context.Context, sessionID string) (*flow.Machine, error) {
	s.mu.Lock()
	m, ok := s.machines[sessionID]
	s.mu.Unlock()
	if ok {
		return m, nil
	}

	if s.stateCache == nil {
		return nil, ErrSessionNotFound
	}
	snap, err := s.stateCache.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	if snap == nil {
		return nil, ErrSessionNotFound
	}

	catalog := s.catalogSvc.Load(ctx, snap.State.AssessmentType, snap.State.Version)
	m = flow.Restore(snap, catalog, s.notifier)

	s.mu.Lock()
	// Another request may have restored it first; keep the existing one.
	if existing, ok := s.machines[sessionID]; ok {
		m = existing
	} else {
		s.machines[sessionID] = m
	}
	s.mu.Unlock()

	return m, nil
}

// snapshot mirrors the machine to the state cache, best effort.
func (s *AssessmentService) snapshot(ctx context.Context, m *flow.Machine) {
	if s.stateCache == nil {
		return
	}
	snap := m.Snapshot()
	if err := s.stateCache.Set(ctx, snap); err != nil {
		log.Printf("assessment: snapshot failed (session %s): %v", snap.State.SessionID, err)
	}
}
