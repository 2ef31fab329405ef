package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/shared"
)

func sessionWith(t *testing.T, ident *shared.Identity) *shared.Session {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sm := shared.NewSessionManager(client, "agriverse_session", "secret", time.Hour, false)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	if ident != nil {
		sess.SetIdentity(*ident)
	}
	return sess
}

func htmlGet(path string, sess *shared.Session) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	if sess != nil {
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	return req
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestGateBouncesAnonymousNavigation(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	rec := httptest.NewRecorder()

	mw.Gate(okHandler).ServeHTTP(rec, htmlGet("/dashboard", sessionWith(t, nil)))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateRedirectsOutOfAreaToHome(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	sess := sessionWith(t, &shared.Identity{ID: 1, Role: shared.RoleFarmer})
	rec := httptest.NewRecorder()

	mw.Gate(okHandler).ServeHTTP(rec, htmlGet("/buyer/orders", sess))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestGateAllowsOwnArea(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	sess := sessionWith(t, &shared.Identity{ID: 1, Role: shared.RoleFarmer})
	rec := httptest.NewRecorder()

	mw.Gate(okHandler).ServeHTTP(rec, htmlGet("/storage/requests", sess))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGateIgnoresNonHTMLRequests(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	req := httptest.NewRequest(http.MethodGet, "/api/storage/requests", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sessionWith(t, nil)))
	rec := httptest.NewRecorder()

	mw.Gate(okHandler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGateHoldsWhileSessionUnresolved(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	rec := httptest.NewRecorder()

	// No session in context at all: restoring, never redirect.
	mw.Gate(okHandler).ServeHTTP(rec, htmlGet("/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sessionWith(t, nil)))
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	sess := sessionWith(t, &shared.Identity{ID: 2, Role: shared.RoleBuyer})
	req := httptest.NewRequest(http.MethodPost, "/api/godowns", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	mw.RequireRole(shared.RoleGodownAdmin)(okHandler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	sess := sessionWith(t, &shared.Identity{ID: 2, Role: shared.RoleGodownAdmin})
	req := httptest.NewRequest(http.MethodPost, "/api/godowns", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	mw.RequireRole(shared.RoleGodownAdmin)(okHandler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
