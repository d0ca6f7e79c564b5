package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func testConfig(t *testing.T) *utils.Config {
	t.Helper()
	return &utils.Config{
		JWT:   utils.JWTConfig{Secret: "wire-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour, Issuer: "theatre-booking"},
		Media: utils.MediaConfig{Root: t.TempDir(), URLPrefix: "/media/", MaxUploadB: 1 << 20},
	}
}

func newTestApp(t *testing.T, cfg *utils.Config, users map[uuid.UUID]*entity.User) *App {
	t.Helper()
	repo := &repository.Repository{User: &stubUserRepo{users: users}}
	app, err := Wiring(repo, cfg, nil, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if app.Bus != nil {
			_ = app.Bus.Close()
		}
	})
	return app
}

func bearer(t *testing.T, cfg *utils.Config, userID uuid.UUID, role entity.UserRole) string {
	t.Helper()
	token, err := utils.NewAccessToken(cfg.JWT, userID, string(role))
	require.NoError(t, err)
	return "Bearer " + token.Token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig(t), nil)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestTheatreRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, testConfig(t), nil)

	paths := []string{
		"/api/theatre/plays",
		"/api/theatre/genres",
		"/api/theatre/actors",
		"/api/theatre/theatrehalls",
		"/api/theatre/performances",
		"/api/theatre/reservations",
		"/api/user/me",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestPublicUserRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(t), nil)

	for _, path := range []string{"/api/user/register", "/api/user/token", "/api/user/token/refresh", "/api/user/token/verify"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestAdminWritesForbiddenForCustomers(t *testing.T) {
	cfg := testConfig(t)
	customer := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleCustomer, IsActive: true}
	app := newTestApp(t, cfg, map[uuid.UUID]*entity.User{customer.ID: customer})

	writes := []struct{ method, path string }{
		{http.MethodPost, "/api/theatre/plays"},
		{http.MethodPut, "/api/theatre/plays/" + uuid.NewString()},
		{http.MethodDelete, "/api/theatre/genres/" + uuid.NewString()},
		{http.MethodPost, "/api/theatre/actors/" + uuid.NewString() + "/upload-image"},
		{http.MethodPost, "/api/theatre/theatrehalls"},
		{http.MethodPost, "/api/theatre/performances"},
		{http.MethodGet, "/api/user/admin/users"},
	}
	for _, w := range writes {
		req := httptest.NewRequest(w.method, w.path, strings.NewReader("{}"))
		req.Header.Set("Authorization", bearer(t, cfg, customer.ID, entity.RoleAdmin))
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, w.method+" "+w.path)
	}
}

func TestMediaServed(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Media.Root, "actors"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Media.Root, "actors", "jane-doe.png"), []byte("png"), 0o644))

	app := newTestApp(t, cfg, nil)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/actors/jane-doe.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestWiringWithEvents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.Enabled = true

	app := newTestApp(t, cfg, nil)

	assert.NotNil(t, app.Bus)
}
