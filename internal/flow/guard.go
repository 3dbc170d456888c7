package flow

import (
	"sync"

	"github.com/google/uuid"
)

// Guard enforces at-most-once submission per flow instance. The policy is
// deliberate: a failed attempt is still an attempt, and a fresh flow
// instance is required to submit again.
type Guard struct {
	mu           sync.Mutex
	attempted    bool
	inFlight     bool
	submissionID string
}

// Begin tries to claim the single submission slot. The check and the flag
// flip happen under one lock so concurrent callers can never both claim it.
// The returned submission ID is generated lazily on the first claim and
// never regenerated, so duplicate transmission attempts carry an identical
// idempotency key.
func (g *Guard) Begin() (submissionID string, acquired bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight || g.attempted {
		return g.submissionID, false
	}
	g.attempted = true
	g.inFlight = true
	if g.submissionID == "" {
		g.submissionID = uuid.New().String()
	}
	return g.submissionID, true
}

// Finish marks the in-flight transmission as settled, success or failure.
// The attempted flag stays set.
func (g *Guard) Finish() {
	g.mu.Lock()
	g.inFlight = false
	g.mu.Unlock()
}

// Attempted reports whether a submission was ever claimed.
func (g *Guard) Attempted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempted
}

// SubmissionID returns the idempotency key, empty until the first claim.
func (g *Guard) SubmissionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submissionID
}

// Restore seeds the guard from a persisted snapshot so at-most-once
// semantics survive a registry miss.
func (g *Guard) Restore(submissionID string, attempted bool) {
	g.mu.Lock()
	g.submissionID = submissionID
	g.attempted = attempted
	g.inFlight = false
	g.mu.Unlock()
}

// Reset clears the guard for a brand-new flow run.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.attempted = false
	g.inFlight = false
	g.submissionID = ""
	g.mu.Unlock()
}
