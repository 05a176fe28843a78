package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiportalapp/aiportal-server/internal/auth"
	domainerrors "github.com/aiportalapp/aiportal-server/internal/errors"
	"github.com/aiportalapp/aiportal-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupAuthTest creates an auth service with temporary storage.
func setupAuthTest(t *testing.T) (*AuthService, *store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "aiportal-auth-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(keyHex, 360*time.Hour)
	require.NoError(t, err)

	svc := NewAuthService(s, tokenService, testLogger())

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return svc, s, cleanup
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Name:     "Alice",
	}
}

func TestRegister(t *testing.T) {
	svc, s, cleanup := setupAuthTest(t)
	defer cleanup()

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=alice", resp.User.ProfileImage)

	// Stored user carries a hash, never the raw password.
	stored, err := s.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing username", func(r *RegisterRequest) { r.Username = "" }},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }},
		{"invalid email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }},
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }},
		{"long username", func(r *RegisterRequest) { r.Username = "a-very-long-username-over-thirty-chars" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	dup := validRegisterRequest()
	dup.Username = "bob"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	dup := validRegisterRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})

	// Unknown email and wrong password are indistinguishable.
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestVerifyAccessToken(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = svc.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
