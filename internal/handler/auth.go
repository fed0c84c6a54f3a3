package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/service"
	"github.com/msomdec/auction-house/internal/view"
)

// AuthHandler handles login, registration and logout forms.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.LoginPage(view.LoginData{
		Layout: layoutFor(w, r, "Log In"),
		Next:   r.URL.Query().Get("next"),
	}))
}

// HandleLogin verifies credentials, sets the auth cookie and redirects to
// the next parameter.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	token, err := h.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			render(w, r, http.StatusUnauthorized, view.LoginPage(view.LoginData{
				Layout:   layoutFor(w, r, "Log In"),
				Username: username,
				Next:     next,
				Message:  "Invalid username and/or password.",
			}))
			return
		}
		serviceError(w, r, "login user", err)
		return
	}

	h.setAuthCookie(w, token)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.RegisterPage(view.RegisterData{
		Layout: layoutFor(w, r, "Register"),
	}))
}

// HandleRegister creates an account, logs the new user in and redirects to
// the index.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	in := service.RegisterInput{
		Username:     r.PostFormValue("username"),
		Email:        r.PostFormValue("email"),
		Password:     r.PostFormValue("password"),
		Confirmation: r.PostFormValue("confirmation"),
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		data := view.RegisterData{Layout: layoutFor(w, r, "Register"), Input: in}
		data.Input.Password, data.Input.Confirmation = "", ""

		var verr *service.ValidationError
		switch {
		case errors.Is(err, domain.ErrPasswordMismatch):
			data.Message = "Passwords must match."
			render(w, r, http.StatusUnprocessableEntity, view.RegisterPage(data))
		case errors.Is(err, domain.ErrDuplicateUsername):
			data.Message = "Username already taken."
			render(w, r, http.StatusConflict, view.RegisterPage(data))
		case errors.As(err, &verr):
			data.Errors = verr.Fields
			render(w, r, http.StatusUnprocessableEntity, view.RegisterPage(data))
		default:
			serviceError(w, r, "register user", err)
		}
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		slog.Error("issue token after register", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the auth cookie and redirects to the index.
// GET or POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})
}
