package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/jrsteele09/go-event-portal/server/loginsession"
)

const (
	// loggedInSessionID is the name of the cookie holding the login session ID
	loggedInSessionID = "loggedInSessionId"

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *Server) SetLoginSessionCookie(w http.ResponseWriter, sessionID string, r *http.Request, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     loggedInSessionID,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) clearLoginSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.SetLoginSessionCookie(w, "", r, -1)
}

// currentSession loads the session named by the request's cookie
func (s *Server) currentSession(r *http.Request) (loginsession.Session, error) {
	cookie, err := r.Cookie(loggedInSessionID)
	if err != nil || cookie.Value == "" {
		return loginsession.Session{}, errors.ErrSessionNotFound
	}
	return s.loginSessions.Get(r.Context(), cookie.Value)
}

// safeReturnURL only allows local paths, anything else goes through the router.
// Browsers strip tabs and newlines from URLs, so "/\t/host" would become "//host".
func safeReturnURL(returnURL string) string {
	if returnURL == "" || !strings.HasPrefix(returnURL, "/") || strings.HasPrefix(returnURL, "//") || strings.HasPrefix(returnURL, "/\\") {
		return RouteAuthRedirect
	}
	if strings.ContainsFunc(returnURL, unicode.IsControl) {
		return RouteAuthRedirect
	}
	if u, err := url.Parse(returnURL); err != nil || u.Scheme != "" || u.Host != "" {
		return RouteAuthRedirect
	}
	return returnURL
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	redirectSuccess(w, r, path+separator+"error="+url.QueryEscape(errorMsg))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{"error": code, "error_description": description})
}
