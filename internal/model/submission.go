package model

import "time"

// Submission is the payload transmitted to persistence exactly once per
// flow instance. SubmissionID is the idempotency key: duplicate transmission
// attempts carry the same ID so the store can deduplicate.
type Submission struct {
	ID                string            `json:"id,omitempty" bson:"_id,omitempty"`
	SubmissionID      string            `json:"submissionId" bson:"submissionId"`
	AssessmentType    string            `json:"assessmentType" bson:"assessmentType"`
	AssessmentVersion CatalogVersion    `json:"assessmentVersion" bson:"assessmentVersion"`
	SessionID         string            `json:"sessionId" bson:"sessionId"`
	Answers           []Answer          `json:"answers" bson:"answers"`
	Result            ScoringResult     `json:"result" bson:"result"`
	Metadata          map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	SubmittedAt       time.Time         `json:"submittedAt" bson:"submittedAt"`
}
