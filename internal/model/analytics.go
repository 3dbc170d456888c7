package model

// FunnelEvent is a fire-and-forget lifecycle notification keyed by
// (assessmentType, assessmentVersion, sessionId).
type FunnelEvent string

const (
	EventStarted   FunnelEvent = "started"
	EventCompleted FunnelEvent = "completed"
	EventAbandoned FunnelEvent = "abandoned"
)

// FunnelEvents lists the lifecycle events in funnel order.
var FunnelEvents = []FunnelEvent{EventStarted, EventCompleted, EventAbandoned}

// FunnelStats holds the rolled-up counters for one (type, version) funnel.
type FunnelStats struct {
	AssessmentType string         `json:"assessmentType"`
	Version        CatalogVersion `json:"assessmentVersion"`
	Started        int64          `json:"started"`
	Completed      int64          `json:"completed"`
	Abandoned      int64          `json:"abandoned"`
}

// FeedEvent is the envelope broadcast on the ops WebSocket feed.
type FeedEvent struct {
	Event          FunnelEvent    `json:"event"`
	AssessmentType string         `json:"assessmentType"`
	Version        CatalogVersion `json:"assessmentVersion"`
	SessionID      string         `json:"sessionId"`
}
