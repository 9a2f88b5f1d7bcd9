package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/model"
	"github.com/sakif/pet-adoption/internal/repository"
	"github.com/sakif/pet-adoption/internal/schema"
)

// MinPasswordLength is the shortest password Signup accepts. The upper bound
// is auth.MaxPasswordBytes, bcrypt's input limit.
const MinPasswordLength = 8

// errBadCredentials is shared by every Login failure so the response does not
// reveal whether the email exists.
var errBadCredentials = apperror.Unauthorized("invalid email or password")

// AuthService handles signup, login and session lookup.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a new account and logs it in.
//
// The email is trimmed and lower-cased before it is stored, so the unique
// index on users.email is effectively case-insensitive. A second signup
// with the same address fails with apperror.ErrConflict from the store.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Email: email, HashedPassword: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("user", "email already registered")
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up", slog.Int64("userID", user.ID))
	return s.issue(user)
}

// Login checks credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("failed login", slog.Int64("userID", user.ID))
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("service/auth: verifying password for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return s.issue(user)
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, apperror.Unauthorized("not logged in")
	}
	return s.users.GetUserByID(ctx, userID)
}

// UserExists reports whether userID names an account. It backs
// auth.RequireAuth, which turns false into a 401.
func (s *AuthService) UserExists(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("token for unknown user", slog.Int64("userID", userID))
			return false, nil
		}
		return false, fmt.Errorf("service/auth: looking up user %d: %w", userID, err)
	}
	return true, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}
	if max := schema.Users.Size("email"); utf8.RuneCountInString(email) > max {
		return "", apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", max))
	}
	// ParseAddress accepts "Name <a@b>"; only a bare address is allowed here.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", apperror.ValidationFailed("email", "email address is not valid")
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > auth.MaxPasswordBytes {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or less", auth.MaxPasswordBytes))
	}
	return nil
}
