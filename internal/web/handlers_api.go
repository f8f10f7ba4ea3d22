package web

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleAPIPlayers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.store.ListPlayers())
}

func (s *Server) handleAPIMatches(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.store.ListMatches())
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encode json response", "error", err)
	}
}
