// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and logout, and resolves
// session tokens to users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/cryptox"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UserService provides account and session operations:
// - Register: create users
// - Login / Logout: open and close sessions
// - Resolve: map a session token to its user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessionTTL  time.Duration
	logger      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessionTTL:  cfg.SessionTTL,
		logger:      logger.With("module", "users"),
	}
}

// Register creates a user with a fresh salt. A taken email yields
// common.ErrAlreadyExist.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		Email:          email,
		Salt:           salt,
		PasswordDigest: cryptox.DerivePasswordDigest([]byte(password), salt),
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrAlreadyExist
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}
	return u, nil
}

// Login checks the credentials and opens a session. Every credential
// failure is reported as common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time close to a wrong-password attempt
			cryptox.DerivePasswordDigest([]byte(password), cryptox.NewSalt())
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error loading user", "error", err)
		return "", common.ErrorInternal
	}

	if !cryptox.CheckPassword([]byte(password), user.Salt, user.PasswordDigest) {
		return "", common.ErrorUnauthorized
	}

	token := uuid.NewString()
	if err := s.repomanager.Sessions(s.db).Create(ctx, user.ID, token, s.sessionTTL); err != nil {
		s.logger.Error(ctx, "error creating session", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

// Resolve returns the id of the user owning a live session.
func (s *UserService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	session, err := s.repomanager.Sessions(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error resolving session", "error", err)
		return "", common.ErrorInternal
	}
	return session.UserID, nil
}

// Logout destroys the session behind token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if _, err := s.Resolve(ctx, token); err != nil {
		return err
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, token); err != nil {
		s.logger.Error(ctx, "error deleting session", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// Me returns the profile of userID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return u, nil
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx)
}
