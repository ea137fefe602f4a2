package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secure-file-share/internal/event"
	"secure-file-share/internal/model"
	"secure-file-share/internal/repository"
)

func newAuthService(t *testing.T, ttl time.Duration) (*AuthService, *repository.MemoryUserRepository) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	svc, err := NewAuthService(users, "test-secret", ttl, event.NewBus())
	require.NoError(t, err)
	return svc, users
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "ops@test.com", "testpass123", model.RoleOps)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOps, user.Role)
	assert.NotEqual(t, "testpass123", user.PasswordHash)

	tokens, err := svc.Login(ctx, "ops@test.com", "testpass123", "")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ops@test.com", "testpass123", model.RoleOps)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "OPS@test.com", "otherpass123", model.RoleClient)
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ops@test.com", "testpass123", model.RoleOps)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ops@test.com", "wrongpass", "")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@test.com", "testpass123", "")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginRejectsDeclaredTypeMismatch(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ops@test.com", "testpass123", model.RoleOps)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ops@test.com", "testpass123", "client")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ops@test.com", "testpass123", "ops")
	assert.NoError(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "client@test.com", "testpass123", model.RoleClient)
	require.NoError(t, err)

	token, err := svc.IssueSessionToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "client@test.com", claims.Email)
	assert.Equal(t, model.RoleClient, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
}

func TestSessionTokenTamperingFailsValidation(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "client@test.com", "testpass123", model.RoleClient)
	require.NoError(t, err)

	token, err := svc.IssueSessionToken(user)
	require.NoError(t, err)

	// Flip one byte of the signature.
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = svc.ValidateSessionToken(string(tampered))
	assert.ErrorIs(t, err, model.ErrTokenMalformed)
}

func TestExpiredSessionTokenFailsWithExpired(t *testing.T) {
	svc, _ := newAuthService(t, -time.Minute)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "client@test.com", "testpass123", model.RoleClient)
	require.NoError(t, err)

	token, err := svc.IssueSessionToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateSessionToken(token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestGarbageSessionTokenIsMalformed(t *testing.T) {
	svc, _ := newAuthService(t, 15*time.Minute)

	for _, input := range []string{"", "invalid-token", "a.b.c"} {
		_, err := svc.ValidateSessionToken(input)
		assert.ErrorIs(t, err, model.ErrTokenMalformed, "input %q", input)
	}
}

func TestDownloadTokenIsNotASessionToken(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	bus := event.NewBus()
	authSvc, err := NewAuthService(users, "test-secret", 15*time.Minute, bus)
	require.NoError(t, err)

	files := repository.NewMemoryFileRepository()
	grants := repository.NewMemoryDownloadTokenRepository()
	downloadSvc, err := NewDownloadTokenService(files, grants, "test-secret", 5*time.Minute, bus)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, files.Create(ctx, model.File{ID: "f1", OwnerID: "u1", Name: "deck.pptx"}))

	token, err := downloadSvc.Generate(ctx, "f1", model.SessionClaims{UserID: "u2", Role: model.RoleClient})
	require.NoError(t, err)

	_, err = authSvc.ValidateSessionToken(token)
	assert.ErrorIs(t, err, model.ErrTokenMalformed)
}
