package audit

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, evt Event) error
	List(ctx context.Context, filter Filter, includeDetails bool) ([]Event, error)
	Count(ctx context.Context, filter Filter) (int, error)
}
