package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

type stubRepo struct {
	users    map[string]*User
	nextID   int64
	sessions map[string]int64
	deleted  []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]*User), sessions: make(map[string]int64)}
}

func (r *stubRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *stubRepo) CreateUser(_ context.Context, user User) (*User, error) {
	if _, ok := r.users[user.Email]; ok {
		return nil, httpx.ErrDuplicate
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Email] = &user
	return &user, nil
}

func (r *stubRepo) CreateSession(_ context.Context, id string, userID int64, _ time.Time, _, _ string) error {
	r.sessions[id] = userID
	return nil
}

func (r *stubRepo) DeleteSession(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	delete(r.sessions, id)
	return nil
}

func (r *stubRepo) PruneSessions(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

var _ Repository = (*stubRepo)(nil)

type authFixture struct {
	repo     *stubRepo
	sessions *shared.SessionManager
	router   chi.Router
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newStubRepo()
	sessions := shared.NewSessionManager(client, "agriverse_session", "test-secret", time.Hour, false)
	handler := NewHandler(
		slog.New(slog.NewTextHandler(testWriter{t}, nil)),
		NewService(repo),
		sessions,
		shared.NewCSRFManager("csrf-secret"),
		routing.DefaultPolicy(),
	)

	router := chi.NewRouter()
	handler.MountRoutes(router)
	return &authFixture{repo: repo, sessions: sessions, router: router}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// do issues a request with a fresh session already attached, the way the
// session middleware would before the handler runs.
func (f *authFixture) do(t *testing.T, method, path string, body any, sess *shared.Session) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *authFixture) newSession(t *testing.T) *shared.Session {
	t.Helper()
	sess, err := f.sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess
}

func TestSignupCreatesAccountAndSession(t *testing.T) {
	f := newAuthFixture(t)
	sess := f.newSession(t)

	rec := f.do(t, http.MethodPost, "/signup", map[string]string{
		"full_name": "Ahmed Raza",
		"email":     "ahmed@example.com",
		"phone":     "03001234567",
		"password":  "harvest-2024",
		"role":      "farmer",
	}, sess)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Identity   shared.Identity `json:"identity"`
		RedirectTo string          `json:"redirect_to"`
		CSRFToken  string          `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, shared.RoleFarmer, resp.Identity.Role)
	require.Equal(t, "/dashboard", resp.RedirectTo)
	require.NotEmpty(t, resp.CSRFToken)

	stored := f.repo.users["ahmed@example.com"]
	require.NotNil(t, stored)
	require.NotEqual(t, "harvest-2024", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("harvest-2024")))

	require.NotNil(t, sess.Identity())
	require.Contains(t, f.repo.sessions, sess.ID)
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do(t, http.MethodPost, "/signup", map[string]string{
		"full_name": "Ahmed Raza",
		"email":     "ahmed@example.com",
		"phone":     "03001234567",
		"password":  "harvest-2024",
		"role":      "superadmin",
	}, f.newSession(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	body := map[string]string{
		"full_name": "Ahmed Raza",
		"email":     "ahmed@example.com",
		"phone":     "03001234567",
		"password":  "harvest-2024",
		"role":      "farmer",
	}

	first := f.do(t, http.MethodPost, "/signup", body, f.newSession(t))
	require.Equal(t, http.StatusOK, first.Code)

	second := f.do(t, http.MethodPost, "/signup", body, f.newSession(t))
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestLoginRedirectsByRole(t *testing.T) {
	f := newAuthFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("harvest-2024"), bcrypt.MinCost)
	require.NoError(t, err)
	f.repo.users["buyer@example.com"] = &User{
		ID: 7, FullName: "Sana Tariq", Email: "buyer@example.com",
		PasswordHash: string(hash), Role: shared.RoleBuyer,
	}

	rec := f.do(t, http.MethodPost, "/login", map[string]string{
		"email":    "buyer@example.com",
		"password": "harvest-2024",
	}, f.newSession(t))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		RedirectTo string `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "/buyer", resp.RedirectTo)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	f := newAuthFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("harvest-2024"), bcrypt.MinCost)
	require.NoError(t, err)
	f.repo.users["buyer@example.com"] = &User{
		ID: 7, Email: "buyer@example.com", PasswordHash: string(hash), Role: shared.RoleBuyer,
	}

	rec := f.do(t, http.MethodPost, "/login", map[string]string{
		"email":    "buyer@example.com",
		"password": "wrong",
	}, f.newSession(t))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do(t, http.MethodPost, "/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever1",
	}, f.newSession(t))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsSessionAudit(t *testing.T) {
	f := newAuthFixture(t)
	sess := f.newSession(t)
	sess.SetIdentity(shared.Identity{ID: 7, Role: shared.RoleFarmer})
	f.repo.sessions[sess.ID] = 7

	rec := f.do(t, http.MethodPost, "/logout", nil, sess)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, f.repo.deleted, sess.ID)
	require.Nil(t, sess.Identity())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "/login", resp["redirect_to"])
}

func TestMeAnonymousReturnsNullIdentity(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.do(t, http.MethodGet, "/me", nil, f.newSession(t))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "null", string(resp["identity"]))
}

func TestMeRestoresIdentityAndToken(t *testing.T) {
	f := newAuthFixture(t)
	sess := f.newSession(t)
	sess.SetIdentity(shared.Identity{ID: 3, FullName: "Ahmed Raza", Role: shared.RoleFarmer})

	rec := f.do(t, http.MethodGet, "/me", nil, sess)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Identity   shared.Identity `json:"identity"`
		RedirectTo string          `json:"redirect_to"`
		CSRFToken  string          `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(3), resp.Identity.ID)
	require.Equal(t, "/dashboard", resp.RedirectTo)
	require.NotEmpty(t, resp.CSRFToken)
}
