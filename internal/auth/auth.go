// Package auth matches login credentials against the persisted account list.
// This is a convenience check for a single-tenant deployment, not a hardened
// security boundary: seeded demo accounts keep plain passwords, while
// accounts created at runtime store bcrypt hashes.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"talentdesk/api/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account suspended, contact an administrator")
	ErrRoleMismatch       = errors.New("account does not have access to this portal")
)

// Authenticate finds the account matching email and password. role, when
// non-empty, constrains which portal the account may enter. A locked account
// fails with a distinct error even when the password matches.
func Authenticate(users []store.User, email, password, role string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range users {
		if strings.ToLower(user.Email) != email {
			continue
		}
		if !VerifyPassword(user.Password, password) {
			return store.User{}, ErrInvalidCredentials
		}
		if user.Status == store.StatusLocked {
			return store.User{}, ErrAccountSuspended
		}
		if role != "" && user.Role != role {
			return store.User{}, ErrRoleMismatch
		}
		return user, nil
	}
	return store.User{}, ErrInvalidCredentials
}

// VerifyPassword compares a candidate password against the stored value,
// which is either a bcrypt hash or a legacy plain password.
func VerifyPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// HashPassword hashes a password for a newly created account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
