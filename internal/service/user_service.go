package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService handles login, registration and roles. Sessions live in a
// SessionStore and are passed explicitly to every operation.
type UserService struct {
	repo     domain.Repository
	sessions domain.SessionStore
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewUserService(repo domain.Repository, sessions domain.SessionStore, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Authenticate opens a session for a matching login and credential. Unknown
// login and wrong credential are reported identically.
func (s *UserService) Authenticate(ctx context.Context, login, credential string) (*models.Session, error) {
	user, err := s.repo.GetUserByCredentials(ctx, strings.TrimSpace(login), credential)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.logger.Info().Msg("Authentication failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	sess := &models.Session{
		ID:        uuid.NewString(),
		User:      *user,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Msg("User logged in")
	return sess, nil
}

// AddUser registers a user. Without a session only the user role may be
// created; other roles need an admin. A taken login returns false without error.
func (s *UserService) AddUser(ctx context.Context, sess *models.Session, login, credential string, role models.Role) (bool, error) {
	login = strings.TrimSpace(login)
	if login == "" || credential == "" {
		return false, ErrEmptyField
	}
	if !role.In(models.RoleAdmin, models.RoleManager, models.RoleUser) {
		return false, ErrUnknownRole
	}
	if role != models.RoleUser && !sess.HasRole(models.RoleAdmin) {
		if sess == nil {
			return false, ErrUnauthenticated
		}
		return false, ErrForbidden
	}

	user := &models.User{Login: login, Credential: credential, Role: role}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("login", login).Str("role", role.String()).Msg("User added")
	return true, nil
}

// UpdateRole changes a user's role. When the target is the caller, the
// session copy is refreshed too.
func (s *UserService) UpdateRole(ctx context.Context, sess *models.Session, userID int64, role models.Role) (*models.User, error) {
	if err := requireRole(sess, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.In(models.RoleAdmin, models.RoleManager, models.RoleUser) {
		return nil, ErrUnknownRole
	}

	updated, err := s.repo.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	if sess.User.ID == updated.ID {
		sess.User.Role = updated.Role
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to store refreshed session")
		}
	}

	s.logger.Info().Int64("user_id", updated.ID).Str("role", updated.Role.String()).Int64("by", sess.User.ID).Msg("Role updated")
	return updated, nil
}

func (s *UserService) ListUsers(ctx context.Context, sess *models.Session) ([]models.User, error) {
	if err := requireRole(sess, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// Session loads a stored session and refreshes its user from storage, so a
// role change by another admin applies at once. An unknown or expired id, or a
// user that no longer exists, yields ErrUnauthenticated.
func (s *UserService) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, sess.User.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	sess.User = *user
	return sess, nil
}

func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
