package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

// Login verifies the password for a username or email and issues a token.
func (s *Service) Login(ctx context.Context, login, password string) (Session, error) {
	user, err := s.store.FindUserByLogin(ctx, login)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("last login update failed", "userId", user.ID, "err", err)
	}
	return s.issue(user)
}

// Refresh issues a new token for a still-existing user.
func (s *Service) Refresh(ctx context.Context, caller UserContext) (Session, error) {
	user, err := s.store.FindUserByID(ctx, caller.UserID)
	if err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

func (s *Service) CurrentUser(ctx context.Context, caller UserContext) (User, error) {
	return s.store.FindUserByID(ctx, caller.UserID)
}

func (s *Service) issue(user User) (Session, error) {
	token, expires, err := GenerateToken(s.secret, Claims{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, User: user}, nil
}
