package web

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	view := AuthView{BaseView: s.baseView(r, "Login", "login")}
	s.render(w, "login.html", view)
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	password := r.FormValue("password")
	if !s.checkAdminPassword(password) {
		view := AuthView{
			BaseView: s.baseView(r, "Login", "login"),
			Error:    "Wrong password",
		}
		s.render(w, "login.html", view)
		return
	}
	setSessionCookie(w, s.sessions.create())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.revoke(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// checkAdminPassword prefers the bcrypt hash when configured and falls back
// to a constant-time plaintext comparison for dev setups.
func (s *Server) checkAdminPassword(password string) bool {
	if password == "" {
		return false
	}
	if s.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	if s.cfg.AdminPassword != "" {
		return subtle.ConstantTimeCompare([]byte(s.cfg.AdminPassword), []byte(password)) == 1
	}
	return false
}
