package auth

import "context"

type StoreAPI interface {
	FindUserByLogin(ctx context.Context, login string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
}
