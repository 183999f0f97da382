package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/rs/xid"
)

// Double-submit CSRF protection: a random token lives in an HttpOnly
// cookie and is echoed back in a hidden form field on every mutating
// submission. A cross-site attacker can make the browser send the
// cookie but cannot read it to fill in the field.

const (
	csrfCookie = "csrf_token"
	csrfField  = "csrf_token"
)

type csrfContextKey struct{}

// CSRF issues the token cookie when absent, exposes the token to the
// renderer via the request context, and rejects unsafe-method requests
// whose form field doesn't match the cookie.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(csrfCookie); err == nil {
			token = cookie.Value
		}
		if token == "" {
			token = xid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if !isSafeMethod(r.Method) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "could not parse form", http.StatusBadRequest)
				return
			}
			field := r.PostFormValue(csrfField)
			if field == "" || subtle.ConstantTimeCompare([]byte(field), []byte(token)) != 1 {
				http.Error(w, "invalid CSRF token", http.StatusForbidden)
				return
			}
		}

		ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// csrfToken returns the token placed in the context by CSRF, for
// embedding in rendered forms.
func csrfToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
