package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smearn/internal/models"
)

func adminHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestDemoAuthenticator_Login_AnyoneGetsIn(t *testing.T) {
	a := NewDemoAuthenticator("", "")

	s, err := a.Login(context.Background(), "student@example.com", "whatever")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "student@example.com", s.Email)
	assert.False(t, s.Privileged)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestDemoAuthenticator_Login_EmptyEmail(t *testing.T) {
	a := NewDemoAuthenticator("", "")

	_, err := a.Login(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDemoAuthenticator_Login_Admin(t *testing.T) {
	a := NewDemoAuthenticator("admin@smearn.ng", adminHash(t, "s3cret"))

	tests := []struct {
		name       string
		email      string
		password   string
		privileged bool
	}{
		{"matching credentials", "admin@smearn.ng", "s3cret", true},
		{"email case ignored", "Admin@Smearn.NG", "s3cret", true},
		{"wrong password", "admin@smearn.ng", "guess", false},
		{"other user", "student@example.com", "s3cret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := a.Login(context.Background(), tt.email, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.privileged, s.Privileged)
		})
	}
}

func TestDemoAuthenticator_LoginGuest(t *testing.T) {
	a := NewDemoAuthenticator("admin@smearn.ng", adminHash(t, "s3cret"))

	s, err := a.LoginGuest(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Empty(t, s.Email)
	assert.False(t, s.Privileged)
}

func TestDemoAuthenticator_Signup(t *testing.T) {
	a := NewDemoAuthenticator("", "")

	msg, err := a.Signup(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, SignupMessage, msg)

	_, err = a.Signup(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	a := NewDemoAuthenticator("a@b.c", hash)
	s, err := a.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.True(t, s.Privileged)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	a := NewDemoAuthenticator("", "")
	s, err := a.LoginGuest(context.Background())
	require.NoError(t, err)

	store.Save(s)
	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	assert.True(t, store.Delete(s.ID))
	assert.False(t, store.Delete(s.ID))

	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_Expire(t *testing.T) {
	store := NewSessionStore()
	now := time.Now()
	store.Save(models.Session{ID: "old", CreatedAt: now.Add(-25 * time.Hour)})
	store.Save(models.Session{ID: "fresh", CreatedAt: now.Add(-time.Hour)})

	assert.Equal(t, []string{"old"}, store.Expire(now.Add(-24*time.Hour)))
	assert.Equal(t, 1, store.Len())

	_, err := store.Get("old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get("fresh")
	assert.NoError(t, err)

	assert.Empty(t, store.Expire(now.Add(-24*time.Hour)))
}
