package auth

import (
	"context"
	"net/http"
	"strings"
)

// SessionCookie is the name of the HttpOnly cookie holding the session token.
// HttpOnly means JavaScript cannot read it, which keeps XSS from stealing
// the session.
const SessionCookie = "session"

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. With a plain string key, ANY
// package that knows the string could read or shadow the value. A
// package-private type means only this package can put a Principal into a
// context or take one out.
type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext retrieves the authenticated Principal from the
// request context. Returns (nil, false) for anonymous requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// RestoreSession is a middleware that rebuilds the session from the cookie on
// every request. It NEVER blocks a request:
//
//   - no cookie                → anonymous, continue
//   - malformed/expired token  → anonymous, continue, and delete the cookie
//     so the client stops resending garbage
//   - valid token              → Principal stored in the request context
//
// This is the fail-open restore path: corrupted session state silently
// degrades to "logged out" and is never surfaced as an error.
func RestoreSession(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				// http.ErrNoCookie — just anonymous
				next.ServeHTTP(w, r)
				return
			}

			principal, err := tokens.Validate(cookie.Value)
			if err != nil {
				// Corrupted or expired session blob: discard it and
				// continue unauthenticated.
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGroup enforces the access gate on a route group. It must run AFTER
// RestoreSession in the middleware chain.
//
// The gate's verdict is translated per client type:
//   - browsers (Accept: text/html) follow the Decision's redirect target,
//     so page navigations land on /login or the landing page
//   - API clients get 401 (anonymous) or 403 (wrong role) JSON
//
// Handlers behind this middleware only ever run after an Allow, so protected
// content cannot be produced while the session state is still undecided.
func RequireGroup(group Group) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := PrincipalFromContext(r.Context())

			decision := Authorize(principal, group)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			if wantsHTML(r) {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}

			if principal == nil {
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}
			http.Error(w, `{"error":"forbidden","message":"this area is not available to your role"}`, http.StatusForbidden)
		})
	}
}

// RequireAuth allows any authenticated principal, regardless of role.
// Used for role-neutral endpoints like /api/me.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie writes the session token into the HttpOnly cookie.
// The cookie and the in-memory identity are always written together by the
// login/register handlers — the session and its durable mirror never diverge.
//
// SameSite=Lax: the cookie is sent on top-level navigations but not on
// cross-site POSTs, which blunts CSRF. Secure should be enabled behind HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable in production (requires HTTPS)
	})
}

// ClearSessionCookie tells the browser to delete the session cookie.
// Safe to call when no cookie exists — logout is idempotent.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// wantsHTML reports whether the client is a browser doing a page navigation
// (as opposed to a fetch/XHR expecting JSON).
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
