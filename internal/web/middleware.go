package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sessionCookieName = "kickabout_session"
	sessionTTL        = 30 * 24 * time.Hour
)

// sessionStore tracks logged-in admin sessions by opaque token. Sessions
// live in process memory; a restart simply logs everyone out.
type sessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{tokens: make(map[string]time.Time)}
}

func (s *sessionStore) create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = time.Now().Add(sessionTTL)
	return token
}

func (s *sessionStore) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *sessionStore) revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
}

func (s *Server) authEnabled() bool {
	return s.cfg.AdminPassword != "" || s.cfg.AdminPasswordHash != ""
}

// isAuthenticated reports whether the request carries a live session. An
// unprotected site treats everyone as logged in.
func (s *Server) isAuthenticated(r *http.Request) bool {
	if !s.authEnabled() {
		return true
	}
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	return s.sessions.valid(cookie.Value)
}

// requireAuth guards mutation handlers. It writes the refusal itself and
// returns false when the caller should stop.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if s.isAuthenticated(r) {
		return true
	}
	if isHTMX(r) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<p class="error">Unauthorized. Please log in.</p>`))
		return false
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return false
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
