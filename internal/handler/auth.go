package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/lvogel/gotodo/internal/apperror"
	"github.com/lvogel/gotodo/internal/auth"
	"github.com/lvogel/gotodo/internal/form"
	"github.com/lvogel/gotodo/internal/service"
)

// AuthHandler serves the register, login, and logout pages.
type AuthHandler struct {
	auth     *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleRegisterPage renders the registration form. Logged-in users
// are sent back to their list.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, "register", "Register", nil)
}

// HandleRegister processes a registration submission. Success lands on
// the login page; every failure flashes a notice and returns to the
// form.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	f, err := form.ParseRegister(r)
	if err != nil {
		setFlash(w, "danger", userMessage(err))
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if _, err := h.auth.Register(r.Context(), f.Email, f.Password); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			setFlash(w, "danger", "Email already registered")
		} else {
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			setFlash(w, "danger", "Something went wrong, please try again")
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the login form. A next query parameter is
// carried into the form so the post-login redirect can resume it.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, "login", "Log in", map[string]any{
		"Next": r.URL.Query().Get("next"),
	})
}

// HandleLogin processes a login submission. On success it sets the
// session cookie and redirects to the requested next path when that
// path is local, otherwise to the list.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	failTarget := "/login"
	next := r.PostFormValue("next")
	if next != "" {
		failTarget += "?next=" + url.QueryEscape(next)
	}

	f, err := form.ParseLogin(r)
	if err != nil {
		setFlash(w, "danger", userMessage(err))
		http.Redirect(w, r, failTarget, http.StatusSeeOther)
		return
	}

	res, err := h.auth.Login(r.Context(), f.Email, f.Password, f.Remember)
	if err != nil {
		if !errors.Is(err, apperror.ErrAuthentication) {
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		setFlash(w, "danger", "Invalid email or password")
		http.Redirect(w, r, failTarget, http.StatusSeeOther)
		return
	}

	setSessionCookie(w, res.Token, res.Remember)

	target := "/"
	if auth.SafeNext(next) {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleLogout clears the session cookie. Logout is a POST so a
// cross-site link can't end someone's session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	setFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// setSessionCookie attaches the session token to the response. A
// remember-me login gets a persistent cookie matching the token's
// 30-day lifetime; otherwise the cookie dies with the browser session.
func setSessionCookie(w http.ResponseWriter, token string, remember bool) {
	cookie := &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(auth.RememberTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// userMessage extracts the user-facing message from a domain error,
// falling back to a generic one for anything unexpected.
func userMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}
