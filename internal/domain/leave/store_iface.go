package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, filter ListFilter) ([]Request, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Get(ctx context.Context, id string) (Request, error)
	Create(ctx context.Context, req Request) (Request, error)
	UpdateDecision(ctx context.Context, id, status string, isPaid bool, decidedBy string) (Request, error)
	Delete(ctx context.Context, id string) error
	ListApprovedBetween(ctx context.Context, from, to time.Time) ([]Request, error)
}
