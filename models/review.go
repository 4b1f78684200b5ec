package models

import "time"

const (
	ReviewPassed  = "passed"
	ReviewFailed  = "failed"
	ReviewPending = "pending"
)

type Review struct {
	ID             int64     `json:"id"`
	InstallationID int64     `json:"installation_id"`
	Repository     string    `json:"repository"`
	PullNumber     int       `json:"pull_number"`
	HeadSHA        string    `json:"head_sha"`
	Status         string    `json:"status"`
	Findings       int       `json:"findings"`
	CreatedAt      time.Time `json:"created_at"`
}
