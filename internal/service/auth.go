// Package service contains the business logic layer: validation,
// authorization, and orchestration between repositories and the auth
// utilities. Services accept plain values and return domain errors;
// they know nothing about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lvogel/gotodo/internal/apperror"
	"github.com/lvogel/gotodo/internal/auth"
	"github.com/lvogel/gotodo/internal/model"
	"github.com/lvogel/gotodo/internal/repository"
)

// AuthService handles registration, login, and per-request user
// resolution.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// Register creates a new account. The email's availability is decided
// by the store's unique constraint, not a lookup here, so concurrent
// registrations with the same address cannot both win; the loser gets
// apperror.ErrConflict.
//
// Only the bcrypt hash of the password is ever handed to the store, and
// the plaintext is never logged.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// LoginResult bundles the authenticated user with the issued session
// token so the handler can set the cookie and respond in one step.
type LoginResult struct {
	User     *model.User
	Token    string
	Remember bool
}

// Login verifies credentials and issues a session token.
//
// An unknown email and a wrong password both return
// apperror.ErrAuthentication carrying the same message — the caller
// must not be able to tell which check failed. The password is verified
// even though the outcomes converge, so both paths do comparable work.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Deliberately indistinguishable from a wrong password.
		return nil, fmt.Errorf("service/auth: login: %w", apperror.AuthenticationFailed())
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, fmt.Errorf("service/auth: login: %w", apperror.AuthenticationFailed())
	}

	token, err := s.sessions.Issue(user.ID, remember)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing session for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.Bool("remember", remember),
	)

	return &LoginResult{User: user, Token: token, Remember: remember}, nil
}

// GetUserByID returns the user for the given ID. Used when a session
// token resolves to an identity that must be loaded fresh.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}
	return user, nil
}
