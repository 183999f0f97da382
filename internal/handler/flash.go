package handler

import (
	"net/http"
	"net/url"
	"strings"
)

// Flash is a one-shot notice shown on the next rendered page. Category
// is the alert style ("success", "danger", "info") and doubles as a
// hook for tests.
type Flash struct {
	Category string
	Message  string
}

const flashCookie = "flash"

// setFlash stores a notice in a short-lived cookie. The next render
// pops it; it survives exactly one redirect.
func setFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// Consume it — flashes show exactly once.
	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(decoded, "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Category: category, Message: message}
}
