package postgres

import (
	"context"
	"fmt"

	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/pkg/database"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Append inserts a review record into the store.
func (r *ReviewRepository) Append(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, text, channel, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.Text,
		review.Channel,
		review.Sentiment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ScanAll returns every review record. Ordering is unspecified; callers sort
// and filter client-side.
func (r *ReviewRepository) ScanAll(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT id, text, channel, sentiment, created_at
		FROM reviews`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.Text, &rev.Channel, &rev.Sentiment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
