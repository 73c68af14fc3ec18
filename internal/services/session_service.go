package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/db/models"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
	"github.com/orgdesk/orgdesk/internal/telemetry"
	"github.com/orgdesk/orgdesk/internal/validation"
)

// AuthResult is a logged-in user with the token of the new session
type AuthResult struct {
	User    *models.User
	Token   string
	Session *auth.Session
}

// SessionService implements login, registration, whoami and logout
type SessionService struct {
	users    repositories.UserStore
	sessions *auth.SessionManager
}

// NewSessionService creates a new SessionService
func NewSessionService(users repositories.UserStore, sessions *auth.SessionManager) *SessionService {
	return &SessionService{users: users, sessions: sessions}
}

func (s *SessionService) loginSchema() *validation.Schema {
	return validation.NewSchema(
		validation.String("email"),
		validation.String("password"),
	)
}

func (s *SessionService) registerSchema() *validation.Schema {
	return validation.NewSchema(
		validation.String("username"),
		validation.String("email").Email().Unique(emailTaken(s.users)),
		validation.String("password").MinLength(1).MaxLength(30).Confirmed("confirm"),
		validation.String("confirm"),
	)
}

// Login verifies credentials and opens a session
func (s *SessionService) Login(ctx context.Context, input map[string]any) (*AuthResult, error) {
	values, err := s.loginSchema().Validate(ctx, input)
	if err != nil {
		return nil, err
	}
	email, password := values.String("email"), values.String("password")

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		auth.CheckDummyPassword(password)
		telemetry.SessionsTotal.WithLabelValues("login_failed").Inc()
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		telemetry.SessionsTotal.WithLabelValues("login_failed").Inc()
		return nil, ErrInvalidCredentials
	}

	result, err := s.open(ctx, user)
	if err != nil {
		return nil, err
	}
	telemetry.SessionsTotal.WithLabelValues("login").Inc()
	return result, nil
}

// Register creates an account and opens a session for it
func (s *SessionService) Register(ctx context.Context, input map[string]any) (*AuthResult, error) {
	values, err := s.registerSchema().Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(values.String("password"))
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: values.String("username"),
		Email:    values.String("email"),
		Password: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, constraintToValidation(err, "failed to register user", map[string]func() *validation.Error{
			repositories.UsersEmailKey: func() *validation.Error { return validation.Unique("email") },
		})
	}

	result, err := s.open(ctx, user)
	if err != nil {
		return nil, err
	}
	telemetry.SessionsTotal.WithLabelValues("register").Inc()
	slog.Info("user registered", "user_id", user.ID)
	return result, nil
}

func (s *SessionService) open(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, session, err := s.sessions.Open(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return &AuthResult{User: user, Token: token, Session: session}, nil
}

// WhoAmI returns the requester's account
func (s *SessionService) WhoAmI(id *auth.Identity) (*models.User, error) {
	if err := requireIdentity("session", id); err != nil {
		return nil, err
	}
	return id.User, nil
}

// Logout revokes the requester's session. It never fails: a revocation error
// is logged and reported as false.
func (s *SessionService) Logout(ctx context.Context, id *auth.Identity) bool {
	if id == nil || id.SessionID == "" {
		return false
	}
	if err := s.sessions.Revoke(ctx, id.SessionID); err != nil {
		slog.Warn("logout failed", "user_id", id.UserID(), "error", err)
		return false
	}
	telemetry.SessionsTotal.WithLabelValues("logout").Inc()
	return true
}
