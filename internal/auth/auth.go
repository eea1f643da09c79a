// Package auth holds the login collaborator. The only implementation is a demo
// authenticator: it lets anyone in and only decides who may import questions.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smearn/internal/models"
	"smearn/internal/observability"
)

var (
	ErrInvalidCredentials = errors.New("email is required")
	ErrForbidden          = errors.New("this action needs an admin account")
	ErrSessionNotFound    = errors.New("session not found")
)

// SignupMessage acknowledges a signup request.
const SignupMessage = "A verification link has been sent to your email."

// Authenticator turns credentials into a session.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	LoginGuest(ctx context.Context) (models.Session, error)
	Signup(ctx context.Context, email string) (string, error)
}

// DemoAuthenticator accepts any non-empty email. A session is privileged only
// when the email matches the configured admin and the password matches its
// bcrypt hash.
type DemoAuthenticator struct {
	adminEmail string
	adminHash  []byte
	now        func() time.Time
}

var _ Authenticator = (*DemoAuthenticator)(nil)

// NewDemoAuthenticator creates the authenticator. With an empty adminEmail or
// hash nobody is privileged.
func NewDemoAuthenticator(adminEmail, adminPasswordHash string) *DemoAuthenticator {
	return &DemoAuthenticator{
		adminEmail: strings.TrimSpace(adminEmail),
		adminHash:  []byte(adminPasswordHash),
		now:        time.Now,
	}
}

func (a *DemoAuthenticator) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Session{}, ErrInvalidCredentials
	}

	s := a.newSession(email)
	s.Privileged = a.isAdmin(email, password)

	observability.LoggerFromContext(ctx).Info("login", "session_id", s.ID, "privileged", s.Privileged)
	return s, nil
}

func (a *DemoAuthenticator) LoginGuest(ctx context.Context) (models.Session, error) {
	s := a.newSession("")
	observability.LoggerFromContext(ctx).Info("guest login", "session_id", s.ID)
	return s, nil
}

// Signup creates nothing; it only acknowledges the request.
func (a *DemoAuthenticator) Signup(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", ErrInvalidCredentials
	}
	return SignupMessage, nil
}

func (a *DemoAuthenticator) isAdmin(email, password string) bool {
	if a.adminEmail == "" || len(a.adminHash) == 0 {
		return false
	}
	if !strings.EqualFold(email, a.adminEmail) {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.adminHash, []byte(password)) == nil
}

func (a *DemoAuthenticator) newSession(email string) models.Session {
	return models.Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: a.now(),
	}
}

// HashPassword returns the bcrypt hash to put in the admin configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
