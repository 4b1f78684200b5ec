package database

import (
	"context"
	"database/sql"
	"fmt"

	"ghagga-dashboard/models"
)

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

func (s *ReviewStore) CreateReview(ctx context.Context, r models.Review) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO reviews (installation_id, repository, pull_number, head_sha, status, findings)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, r.InstallationID, r.Repository, r.PullNumber, r.HeadSHA, r.Status, r.Findings).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create review for %s#%d: %w", r.Repository, r.PullNumber, err)
	}
	return id, nil
}

// CompletePendingReview resolves the newest pending review of a pull request.
// When none is pending a new review row is created instead.
func (s *ReviewStore) CompletePendingReview(ctx context.Context, r models.Review) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE reviews SET status = $3, findings = $4
        WHERE id = (
            SELECT id FROM reviews
            WHERE repository = $1 AND pull_number = $2 AND status = 'pending'
            ORDER BY created_at DESC
            LIMIT 1
        )
    `, r.Repository, r.PullNumber, r.Status, r.Findings)
	if err != nil {
		return fmt.Errorf("complete review for %s#%d: %w", r.Repository, r.PullNumber, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = s.CreateReview(ctx, r)
	return err
}

// StatsSummary aggregates all reviews, and buckets the last days by date,
// today included.
// Days without reviews are left out of the series.
func (s *ReviewStore) StatsSummary(ctx context.Context, days int) (*models.StatsSummary, error) {
	var sum models.StatsSummary
	err := s.db.QueryRowContext(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'passed'),
            COUNT(*) FILTER (WHERE status = 'failed'),
            COUNT(*) FILTER (WHERE status = 'pending')
        FROM reviews
    `).Scan(&sum.TotalReviews, &sum.PassedReviews, &sum.FailedReviews, &sum.PendingReviews)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT
            TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS day,
            COUNT(*) FILTER (WHERE status = 'passed'),
            COUNT(*) FILTER (WHERE status = 'failed')
        FROM reviews
        WHERE created_at >= CURRENT_DATE - ($1::int - 1)
        GROUP BY day
        ORDER BY day
    `, days)
	if err != nil {
		return nil, fmt.Errorf("reviews over time: %w", err)
	}
	defer rows.Close()

	sum.ReviewsOverTime = []models.ReviewsOnDate{}
	for rows.Next() {
		var p models.ReviewsOnDate
		if err := rows.Scan(&p.Date, &p.Passed, &p.Failed); err != nil {
			return nil, fmt.Errorf("scan reviews over time: %w", err)
		}
		sum.ReviewsOverTime = append(sum.ReviewsOverTime, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reviews over time: %w", err)
	}
	return &sum, nil
}
