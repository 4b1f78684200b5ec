package models

import "time"

// StatsSummary is the backend's aggregate view of code reviews.
type StatsSummary struct {
	TotalReviews    int             `json:"totalReviews"`
	PassedReviews   int             `json:"passedReviews"`
	FailedReviews   int             `json:"failedReviews"`
	PendingReviews  int             `json:"pendingReviews"`
	ReviewsOverTime []ReviewsOnDate `json:"reviewsOverTime"`
}

// ReviewsOnDate is one day bucket of review outcomes. Date is YYYY-MM-DD.
type ReviewsOnDate struct {
	Date   string `json:"date"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
}

// StatsState mirrors what the dashboard needs to decide between loading,
// error and data rendering.
type StatsState struct {
	Stats     *StatsSummary `json:"stats"`
	Loading   bool          `json:"loading"`
	Error     string        `json:"error,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}
