package handler

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/view"
)

const (
	authCookie  = "auth_token"
	flashCookie = "flash"
)

// render writes an HTML page with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}

// layoutFor builds the shared page state, consuming any pending flash.
func layoutFor(w http.ResponseWriter, r *http.Request, title string) view.Layout {
	return view.Layout{
		Title: title,
		User:  UserFromContext(r.Context()),
		Flash: popFlash(w, r),
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, r, status, view.ErrorPage(view.ErrorData{
		Layout:  layoutFor(w, r, http.StatusText(status)),
		Status:  status,
		Message: message,
	}))
}

// HandleNotFound renders the 404 page for unmatched paths.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page not found.")
}

// serviceError maps a service error onto an error page.
func serviceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		renderError(w, r, http.StatusNotFound, "Page not found.")
	case errors.Is(err, domain.ErrForbidden):
		renderError(w, r, http.StatusForbidden, "You are not allowed to do that.")
	case errors.Is(err, domain.ErrUnauthorized):
		http.Redirect(w, r, "/login?next="+url.QueryEscape(returnPath(r)), http.StatusSeeOther)
	default:
		slog.Error(op, "error", err)
		renderError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// pageParam reads the 1-based page query parameter; anything unparsable is 1.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}

func listingURL(id int64) string {
	return "/listing/" + strconv.FormatInt(id, 10)
}

// setFlash queues a message for the next rendered page.
func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(kind + "\n" + message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash returns the pending flash, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *view.Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(string(raw), "\n")
	if !ok || msg == "" {
		return nil
	}
	switch kind {
	case "success", "warning", "info", "danger":
	default:
		return nil
	}
	return &view.Flash{Kind: kind, Message: msg}
}
