package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrMissingEmail       = errors.New("email is required")
)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	users ledger.UserStore
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(users ledger.UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates the account with a hashed password. The user carries
// email, name and the optional profile attributes; ID and hash are filled
// in here.
func (a *PasswordAuthenticator) Register(ctx context.Context, user *core.User, credential string) (*core.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return nil, ErrMissingEmail
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ledger.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*core.User, error) {
	user, err := a.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// Google-provisioned accounts have no local password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
