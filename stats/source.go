package stats

import (
	"context"

	"ghagga-dashboard/models"
)

// Source produces the current review statistics.
type Source interface {
	Summary(ctx context.Context) (*models.StatsSummary, error)
}

// ReviewCounter is the part of the review store the database source needs.
type ReviewCounter interface {
	StatsSummary(ctx context.Context, days int) (*models.StatsSummary, error)
}

// DBSource computes the summary from the local reviews table.
type DBSource struct {
	reviews ReviewCounter
	days    int
}

func NewDBSource(reviews ReviewCounter, days int) *DBSource {
	if days < 1 {
		days = 30
	}
	return &DBSource{reviews: reviews, days: days}
}

func (s *DBSource) Summary(ctx context.Context) (*models.StatsSummary, error) {
	return s.reviews.StatsSummary(ctx, s.days)
}
