package web

import (
	"net/http"
	"strconv"

	"kickabout-app/internal/elo"
	"kickabout-app/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

func (s *Server) handleMatchDay(w http.ResponseWriter, r *http.Request) {
	view := MatchDayView{
		BaseView:   s.baseView(r, "Match Day", "matchday"),
		Players:    s.store.ListPlayers(),
		MaxPlayers: model.MaxPlayers,
	}
	s.render(w, "matchday.html", view)
}

func (s *Server) handleTeamsGenerate(w http.ResponseWriter, r *http.Request) {
	s.generateTeams(w, r, false)
}

func (s *Server) handleTeamsShuffle(w http.ResponseWriter, r *http.Request) {
	s.generateTeams(w, r, true)
}

func (s *Server) generateTeams(w http.ResponseWriter, r *http.Request, randomize bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ids := parseIDList(r.Form["player_ids"])
	if len(ids) > model.MaxPlayers {
		s.renderPartial(w, "teams.html", TeamsView{Error: "Too many players checked in (max 14)"})
		return
	}
	players := s.store.ListPlayersByIDs(ids)

	timer := prometheus.NewTimer(balanceSeconds)
	split, ok := s.balancer.Split(players, randomize)
	timer.ObserveDuration()

	if !ok {
		s.renderPartial(w, "teams.html", TeamsView{Error: "Select at least two players"})
		return
	}
	mode := "generate"
	if randomize {
		mode = "shuffle"
	}
	teamsGenerated.WithLabelValues(mode).Inc()

	view := TeamsView{
		Split:      split,
		AvgRatingA: elo.AverageRating(split.TeamA),
		AvgRatingB: elo.AverageRating(split.TeamB),
	}
	s.renderPartial(w, "teams.html", view)
}

func parseIDList(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	seen := map[int64]bool{}
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
