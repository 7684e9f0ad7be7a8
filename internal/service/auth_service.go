package service

import (
	"context"                     // Request scoping
	"errors"                      // Error matching
	"fmt"                         // Error wrapping and formatting
	"html"                        // Escaping values placed in emails
	"skydesk/internal/credential" // Password hashing and tokens
	"skydesk/internal/domain"     // Domain models
	"skydesk/internal/notify"     // Outbound email
	"skydesk/internal/repository" // Persistence gateway

	"github.com/sirupsen/logrus" // Structured logging
)

// UserStore is the part of the persistence gateway the auth service needs
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// LoginResult is returned on successful login
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IsAdmin     bool   `json:"is_admin"`
	FullName    string `json:"full_name"`
	UserID      uint   `json:"user_id"`
}

// MasterAdmin identifies the bootstrap administrator
type MasterAdmin struct {
	Email    string
	Password string
}

// AuthService handles signup, login and admin provisioning
type AuthService struct {
	users    UserStore
	hasher   *credential.Hasher
	tokens   *credential.TokenManager
	notifier notify.Notifier
	master   MasterAdmin
}

// NewAuthService creates the auth service
func NewAuthService(users UserStore, hasher *credential.Hasher, tokens *credential.TokenManager, notifier notify.Notifier, master MasterAdmin) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, notifier: notifier, master: master}
}

// Signup registers a regular user and queues a welcome email
func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) error {
	if _, err := s.createUser(ctx, fullName, email, password, false); err != nil {
		return err
	}
	s.notifier.Send(
		"Welcome to SkyDesk360",
		email,
		fmt.Sprintf("<p>Hello <b>%s</b>, your account is active.</p>", html.EscapeString(fullName)),
	)
	return nil
}

// Login checks credentials and issues an access token. Unknown email and wrong
// password produce the same ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email) // Exact, case-sensitive match
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized // Same answer as a wrong password
	} else if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, ErrUnauthorized // Wrong password
	}
	token, err := s.tokens.Issue(user.Email, user.IsAdmin, user.ID, user.FullName) // Generate token for the user
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
	}).Info("User logged in")
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		IsAdmin:     user.IsAdmin,
		FullName:    user.FullName,
		UserID:      user.ID,
	}, nil
}

// CreateSubAdmin provisions an administrator and emails them the temporary
// password in plain text. The caller must already be authorised as an admin.
func (s *AuthService) CreateSubAdmin(ctx context.Context, fullName, email, password string) error {
	if _, err := s.createUser(ctx, fullName, email, password, true); err != nil {
		return err
	}
	// TODO: force a password change on first login once users can update their password
	s.notifier.Send(
		"Your SkyDesk360 admin account",
		email,
		fmt.Sprintf(
			"<p>Hello <b>%s</b>, you have been added as an administrator.</p><p>Temporary password: <b>%s</b></p>",
			html.EscapeString(fullName), html.EscapeString(password),
		),
	)
	return nil
}

// EnsureMasterAdmin creates the bootstrap admin if it does not exist. It is
// safe to run on every start and concurrently from several instances.
func (s *AuthService) EnsureMasterAdmin(ctx context.Context) error {
	_, err := s.users.FindByEmail(ctx, s.master.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("find master admin: %w", err)
	}
	if _, err := s.createUser(ctx, "Super Admin", s.master.Email, s.master.Password, true); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil // Another instance won the race
		}
		return err
	}
	logrus.WithField("email", s.master.Email).Info("Master Admin Created")
	return nil
}

// createUser hashes the password and inserts the user. The unique email index
// decides conflicts.
func (s *AuthService) createUser(ctx context.Context, fullName, email, password string, admin bool) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{FullName: fullName, Email: email, HashedPassword: hash, IsAdmin: admin}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"is_admin": admin,
	}).Info("User created")
	return user, nil
}
