package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kickabout-app/internal/model"
)

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	view := RecordView{
		BaseView:   s.baseView(r, "Record Match", "record"),
		Players:    s.store.ListPlayers(),
		MaxPerTeam: model.MaxPerTeam,
	}
	s.render(w, "record.html", view)
}

func (s *Server) handleRecordSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	idsA := parseIDList(r.Form["team_a"])
	idsB := parseIDList(r.Form["team_b"])
	if len(idsA) == 0 || len(idsB) == 0 {
		s.renderRecordError(w, "Both teams need at least one player")
		return
	}
	if len(idsA) > model.MaxPerTeam || len(idsB) > model.MaxPerTeam {
		s.renderRecordError(w, fmt.Sprintf("A team can have at most %d players", model.MaxPerTeam))
		return
	}
	if overlap(idsA, idsB) {
		s.renderRecordError(w, "A player cannot be on both teams")
		return
	}

	scoreA, errA := parseScore(r.FormValue("score_a"))
	scoreB, errB := parseScore(r.FormValue("score_b"))
	if errA != nil || errB != nil {
		s.renderRecordError(w, "Scores must be non-negative numbers")
		return
	}

	teamA, okA := s.lookupTeam(idsA)
	teamB, okB := s.lookupTeam(idsB)
	if !okA || !okB {
		s.renderRecordError(w, "Unknown player in team selection")
		return
	}

	participation := parseParticipation(r, append(append([]int64{}, idsA...), idsB...))

	snapshot := s.engine.Settle(teamA, teamB, scoreA, scoreB, participation)
	match := model.Match{
		PlayedAt: time.Now(),
		TeamA:    idsA,
		TeamB:    idsB,
		ScoreA:   scoreA,
		ScoreB:   scoreB,
		Snapshot: snapshot,
	}
	if _, err := s.store.RecordMatch(match); err != nil {
		s.log.Error("record match", "error", err)
		s.renderRecordError(w, "Could not save the match: "+err.Error())
		return
	}
	matchesRecorded.Inc()

	view := RecordResultView{
		ResultText: resultText(scoreA, scoreB),
		ScoreA:     scoreA,
		ScoreB:     scoreB,
		TeamA:      resultRows(teamA, snapshot),
		TeamB:      resultRows(teamB, snapshot),
	}
	s.renderPartial(w, "result.html", view)
}

func (s *Server) renderRecordError(w http.ResponseWriter, message string) {
	s.renderPartial(w, "result.html", RecordResultView{Error: message})
}

// lookupTeam resolves ids against the store, preserving order.
func (s *Server) lookupTeam(ids []int64) ([]model.Player, bool) {
	players := s.store.ListPlayersByIDs(ids)
	if len(players) != len(ids) {
		return nil, false
	}
	return players, true
}

// parseParticipation reads participation_<id> form fields given in percent
// and clamps each fraction to [0, 1]. Missing or blank fields mean a full
// match played.
func parseParticipation(r *http.Request, ids []int64) map[int64]float64 {
	participation := make(map[int64]float64, len(ids))
	for _, id := range ids {
		raw := strings.TrimSpace(r.FormValue("participation_" + strconv.FormatInt(id, 10)))
		if raw == "" {
			continue
		}
		percent, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		frac := percent / 100.0
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		participation[id] = frac
	}
	return participation
}

func parseScore(raw string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if score < 0 {
		return 0, fmt.Errorf("negative score %d", score)
	}
	return score, nil
}

func overlap(a, b []int64) bool {
	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; ok {
			return true
		}
	}
	return false
}

func resultText(scoreA, scoreB int) string {
	switch {
	case scoreA > scoreB:
		return "Team A wins"
	case scoreA < scoreB:
		return "Team B wins"
	}
	return "Draw"
}

func resultRows(team []model.Player, snapshot map[int64]model.EloSnapshot) []RecordResultRow {
	rows := make([]RecordResultRow, 0, len(team))
	for _, p := range team {
		snap := snapshot[p.ID]
		rows = append(rows, RecordResultRow{
			Name:          p.Name,
			Before:        snap.Before,
			After:         snap.Before + snap.EffectiveDelta(),
			Delta:         snap.EffectiveDelta(),
			Participation: snap.Participation,
			Partial:       snap.Participation < 1.0,
		})
	}
	return rows
}
