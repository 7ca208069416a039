package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/platform/querier"
)

// Seed makes sure the bootstrap admin login exists. It is safe to run on
// every start.
func Seed(ctx context.Context, q querier.Querier, cfg config.Config) error {
	return ensureAdminUser(ctx, auth.NewStore(q), cfg.SeedAdminUsername, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

type userStore interface {
	FindUserByLogin(ctx context.Context, login string) (auth.User, error)
	CreateUser(ctx context.Context, u auth.User) (auth.User, error)
}

func ensureAdminUser(ctx context.Context, store userStore, username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		slog.Warn("admin seed skipped: username or password not configured")
		return nil
	}

	_, err := store.FindUserByLogin(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return fmt.Errorf("lookup seed admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := store.CreateUser(ctx, auth.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         "Administrator",
		Role:         auth.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}
	slog.Info("seed admin created", "userId", created.ID, "username", created.Username)
	return nil
}
