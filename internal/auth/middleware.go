package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/lvogel/gotodo/internal/model"
	"github.com/lvogel/gotodo/internal/repository"
)

// CookieName is the cookie that carries the session token.
const CookieName = "session"

// contextKey is unexported so only this package can place or read the
// current user in a request context.
type contextKey string

const userKey contextKey = "currentUser"

// CurrentUser resolves the session cookie once per request and, when it
// maps to a live account, stores the *model.User in the request context.
//
// Resolution is deliberately forgiving: a missing cookie, an invalid or
// expired token, or a token pointing at a since-deleted user all just
// leave the request anonymous. Only RequireAuth turns "anonymous" into
// a redirect.
func CurrentUser(sessions *SessionService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Validate(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				// Token was valid but the account is gone — anonymous.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth gates routes that need a logged-in user. Anonymous
// requests are redirected to the login page with the original URL in
// the next parameter, so a successful login can resume where the user
// was headed.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			target := "/login"
			if uri := r.URL.RequestURI(); uri != "/" && uri != "" {
				target += "?next=" + url.QueryEscape(uri)
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user placed in the context
// by CurrentUser, or (nil, false) for an anonymous request.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// WithUser returns a context carrying the given user. Handler tests use
// it to simulate an authenticated request without a full login flow.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// SafeNext reports whether a post-login redirect target is a local
// path. Anything absolute ("https://evil.example") or scheme-relative
// ("//evil.example") is rejected so the login flow cannot be used as an
// open redirect.
func SafeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//")
}
