package usecase

import (
	"context"
	"testing"
	"time"

	"theatre-booking/internal/dto/request"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testJWT = utils.JWTConfig{
	Secret:     "test-secret",
	AccessTTL:  5 * time.Minute,
	RefreshTTL: time.Hour,
	Issuer:     "theatre-booking-test",
}

func newAuthFixture(t *testing.T) (*memStore, AuthService) {
	t.Helper()
	store := newMemStore()
	return store, NewAuthService(store.repository(), testJWT, zap.NewNop())
}

func TestRegisterAndIssueToken(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &request.RegisterRequest{
		Email:     "Viewer@Example.com",
		Password:  "s3cret-pass",
		FirstName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", user.Email)
	assert.False(t, user.IsStaff)

	pair, err := svc.IssueToken(ctx, &request.TokenRequest{Email: "viewer@example.com", Password: "s3cret-pass"}, ClientMeta{UserAgent: "test"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	claims, err := utils.ParseAccessToken(testJWT, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)

	require.NoError(t, svc.VerifyToken(ctx, &request.VerifyTokenRequest{Token: pair.Access}))
	assert.ErrorIs(t, svc.VerifyToken(ctx, &request.VerifyTokenRequest{Token: pair.Access + "x"}), ErrUnauthorized)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	req := &request.RegisterRequest{Email: "dup@example.com", Password: "password1"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, &request.RegisterRequest{Email: "DUP@example.com", Password: "password1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestIssueToken_BadCredentials(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &request.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.IssueToken(ctx, &request.TokenRequest{Email: "a@example.com", Password: "wrong-password"}, ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.IssueToken(ctx, &request.TokenRequest{Email: "nobody@example.com", Password: "password1"}, ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshToken_Rotates(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &request.RegisterRequest{Email: "r@example.com", Password: "password1"})
	require.NoError(t, err)
	pair, err := svc.IssueToken(ctx, &request.TokenRequest{Email: "r@example.com", Password: "password1"}, ClientMeta{})
	require.NoError(t, err)

	next, err := svc.RefreshToken(ctx, &request.RefreshTokenRequest{Refresh: pair.Refresh}, ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	// the old refresh token is spent
	_, err = svc.RefreshToken(ctx, &request.RefreshTokenRequest{Refresh: pair.Refresh}, ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &request.RegisterRequest{Email: "l@example.com", Password: "password1"})
	require.NoError(t, err)
	pair, err := svc.IssueToken(ctx, &request.TokenRequest{Email: "l@example.com", Password: "password1"}, ClientMeta{})
	require.NoError(t, err)

	userID := uuid.MustParse(user.ID)

	err = svc.Logout(ctx, uuid.New(), &request.LogoutRequest{Refresh: pair.Refresh})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, svc.Logout(ctx, userID, &request.LogoutRequest{Refresh: pair.Refresh}))

	_, err = svc.RefreshToken(ctx, &request.RefreshTokenRequest{Refresh: pair.Refresh}, ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
