package model

import "time"

// Status is the flow lifecycle state of an assessment session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSubmitting Status = "submitting"
)

// Answer is one chosen option for one question. An accumulator holds at
// most one Answer per question; re-answering replaces the prior choice.
type Answer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	OptionID   string `json:"optionId" bson:"optionId"`
}

// AssessmentState is the externally visible state of one flow instance.
// It is owned exclusively by the flow machine; everyone else gets copies.
type AssessmentState struct {
	SessionID            string         `json:"sessionId"`
	AssessmentType       string         `json:"assessmentType"`
	Version              CatalogVersion `json:"assessmentVersion"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Answers              []Answer       `json:"answers"`
	Status               Status         `json:"status"`
	StartedAt            time.Time      `json:"startedAt"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
}

// Snapshot is the persisted view of a flow instance: the state plus the
// scored result and the submission-guard fields needed so at-most-once
// semantics survive a restore.
type Snapshot struct {
	State               AssessmentState `json:"state"`
	Result              *ScoringResult  `json:"result,omitempty"`
	SubmissionID        string          `json:"submissionId,omitempty"`
	SubmissionAttempted bool            `json:"submissionAttempted"`
}

// StartResponse is returned when a new flow instance is created.
type StartResponse struct {
	SessionID string          `json:"sessionId"`
	Token     string          `json:"token"`
	State     AssessmentState `json:"state"`
}
