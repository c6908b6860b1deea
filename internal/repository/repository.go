package repository

import (
	"context"

	"github.com/novametrics/reviewpulse/internal/domain"
)

// ReviewRepository is the client interface to the persisted review store.
// The store exposes no filtering or pagination contract: callers scan all
// records and filter client-side.
type ReviewRepository interface {
	// Append inserts a classified review record.
	Append(ctx context.Context, review *domain.Review) error

	// ScanAll returns every review record in the store.
	ScanAll(ctx context.Context) ([]domain.Review, error)
}
