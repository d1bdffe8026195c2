package auth

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header name for CSRF tokens in AJAX requests.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFHandler wraps next with CSRF protection for session-based requests.
// Requests carrying a valid access token are API calls and bypass the check,
// since the token itself already proves intent.
func CSRFHandler(secret []byte, secure bool, service *Service, next http.Handler) http.Handler {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasValidToken(r, service) {
			next.ServeHTTP(w, r)
			return
		}
		csrfProtect.ServeHTTP(w, r)
	})
}

func csrfErrorHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

func hasValidToken(r *http.Request, service *Service) bool {
	if service == nil {
		return false
	}
	token := tokenFromHeader(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return false
	}
	return service.ValidateToken(token) == nil
}
