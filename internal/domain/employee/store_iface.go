package employee

import (
	"context"

	"hrms/internal/domain/auth"
)

type StoreAPI interface {
	List(ctx context.Context, filter ListFilter) ([]Employee, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Get(ctx context.Context, ref string) (Employee, error)
	CreateWithUser(ctx context.Context, emp Employee, user auth.User) (Employee, error)
	Update(ctx context.Context, id string, emp Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}
