package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// CredentialDirectory exposes the credential lookups the auth service needs.
type CredentialDirectory interface {
	// CredentialsByEmail returns the employee and their password hash.
	CredentialsByEmail(ctx context.Context, email string) (sched.Employee, string, error)
	// EmployeeByID resolves a session subject back to an employee.
	EmployeeByID(ctx context.Context, id int) (sched.Employee, error)
	// SetPassword stores a new password hash for the employee.
	SetPassword(ctx context.Context, employeeID int, hash string) error
}

// AuthService issues and verifies signed session tokens. Tokens are bearer
// JWTs carrying the employee id as subject; logout revokes the token id, so
// a logged-out token fails verification before it expires.
type AuthService struct {
	directory CredentialDirectory
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuthService wires the auth service. A nil now falls back to time.Now.
func NewAuthService(directory CredentialDirectory, secret []byte, ttl time.Duration, now func() time.Time, logger *slog.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		directory: directory,
		secret:    secret,
		ttl:       ttl,
		now:       now,
		logger:    logger,
		revoked:   make(map[string]time.Time),
	}
}

// Login verifies the password and issues a session token for the employee.
func (s *AuthService) Login(ctx context.Context, email, password string) (sched.Employee, string, error) {
	employee, hash, err := s.directory.CredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return sched.Employee{}, "", ErrInvalidCredentials
		}
		return sched.Employee{}, "", fmt.Errorf("looking up credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "rejected login", "email", email)
		return sched.Employee{}, "", ErrInvalidCredentials
	}

	issued := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(employee.ID),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return sched.Employee{}, "", fmt.Errorf("signing session token: %w", err)
	}

	s.logger.InfoContext(ctx, "session issued", "employee_id", employee.ID)
	return employee, token, nil
}

// Verify resolves a session token to the employee it was issued for.
func (s *AuthService) Verify(ctx context.Context, token string) (sched.Employee, error) {
	claims, err := s.parse(token)
	if err != nil {
		return sched.Employee{}, err
	}

	s.mu.Lock()
	_, isRevoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if isRevoked {
		return sched.Employee{}, ErrInvalidSession
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return sched.Employee{}, ErrInvalidSession
	}

	employee, err := s.directory.EmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return sched.Employee{}, ErrInvalidSession
		}
		return sched.Employee{}, fmt.Errorf("resolving session employee: %w", err)
	}
	return employee, nil
}

// Logout revokes the token's id until the token would have expired anyway.
// Revoking an already-invalid token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}

	expiry := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	s.revoked[claims.ID] = expiry
	s.pruneLocked()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session revoked", "subject", claims.Subject)
	return nil
}

// ChangePassword replaces the employee's password. Already-issued sessions
// stay valid; only future logins use the new password.
func (s *AuthService) ChangePassword(ctx context.Context, employeeID int, password string) error {
	if password == "" {
		vErr := &ValidationError{}
		vErr.add("password", "must not be empty")
		return vErr
	}

	if _, err := s.directory.EmployeeByID(ctx, employeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("resolving employee for password change: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.directory.SetPassword(ctx, employeeID, hash); err != nil {
		return fmt.Errorf("storing password hash: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", "employee_id", employeeID)
	return nil
}

// HashPassword produces a bcrypt hash suitable for the credential directory.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// pruneLocked drops revocation entries for tokens that have expired on their
// own. Callers hold s.mu.
func (s *AuthService) pruneLocked() {
	cutoff := s.now()
	for id, expiry := range s.revoked {
		if expiry.Before(cutoff) {
			delete(s.revoked, id)
		}
	}
}
