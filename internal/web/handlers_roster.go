package web

import (
	"net/http"
	"strconv"
	"strings"

	"kickabout-app/internal/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	view := RosterView{
		BaseView: s.baseView(r, "Roster", "roster"),
		Players:  s.store.ListPlayers(),
		AllTags:  model.AllTags,
	}
	s.render(w, "roster.html", view)
}

func (s *Server) handlePlayerCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		s.renderRosterError(w, r, "Name is required")
		return
	}
	rating := s.cfg.DefaultRating
	if raw := strings.TrimSpace(r.FormValue("rating")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.renderRosterError(w, r, "Rating must be a number")
			return
		}
		rating = parsed
	}
	player := model.Player{
		Name:   name,
		Rating: rating,
		Tags:   model.ParseTags(r.FormValue("tags")),
	}
	if _, err := s.store.CreatePlayer(player); err != nil {
		s.renderRosterError(w, r, "Cannot add player: "+err.Error())
		return
	}
	redirectBack(w, r, "/roster", "player_added")
}

func (s *Server) handlePlayerUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	player, ok := s.store.GetPlayer(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if raw := strings.TrimSpace(r.FormValue("rating")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.renderRosterError(w, r, "Rating must be a number")
			return
		}
		player.Rating = parsed
	}
	player.Tags = model.ParseTags(r.FormValue("tags"))
	if err := s.store.UpdatePlayer(player); err != nil {
		s.renderRosterError(w, r, "Cannot update player: "+err.Error())
		return
	}
	redirectBack(w, r, "/roster", "player_updated")
}

func (s *Server) handlePlayerDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := s.store.DeletePlayer(id); err != nil {
		http.NotFound(w, r)
		return
	}
	redirectBack(w, r, "/roster", "player_removed")
}

func (s *Server) renderRosterError(w http.ResponseWriter, r *http.Request, message string) {
	view := RosterView{
		BaseView: s.baseView(r, "Roster", "roster"),
		Players:  s.store.ListPlayers(),
		AllTags:  model.AllTags,
		Error:    message,
	}
	s.render(w, "roster.html", view)
}
