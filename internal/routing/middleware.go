package routing

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

// Middleware enforces the routing policy over HTTP. Page navigations get
// 303 redirects; API calls get problem JSON instead, since a fetch cannot
// follow a redirect into a login page meaningfully.
type Middleware struct {
	Policy *Policy
	Logger *slog.Logger
}

// Gate applies the policy to browser navigations. Non-HTML requests pass
// through untouched and are guarded per-route by RequireAuth/RequireRole.
func (m Middleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !acceptsHTML(r) {
			next.ServeHTTP(w, r)
			return
		}
		decision := m.Policy.Evaluate(snapshotFromContext(r), r.URL.Path)
		if decision.Redirect {
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects anonymous API calls with 401.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.IdentityFromContext(r.Context()) == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects API calls whose identity lacks one of the given roles.
func (m Middleware) RequireRole(roles ...shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := shared.IdentityFromContext(r.Context())
			if ident == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if ident.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("role denied", slog.String("path", r.URL.Path), slog.String("role", string(ident.Role)))
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

func snapshotFromContext(r *http.Request) Snapshot {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		// The session middleware failed to run; treat as still restoring
		// rather than bouncing the user around on a transient fault.
		return Snapshot{State: StateUnresolved}
	}
	ident := sess.Identity()
	if ident == nil {
		return Snapshot{State: StateAnonymous}
	}
	return Snapshot{State: StateAuthenticated, Role: ident.Role}
}

func acceptsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}
