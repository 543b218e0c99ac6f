package models

import "time"

// SubmissionRecord is the audit document stored for each submit attempt.
type SubmissionRecord struct {
	UserID    string           `bson:"user_id" json:"user_id"`
	Result    SubmissionResult `bson:"result" json:"result"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
}
