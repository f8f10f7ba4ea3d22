package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"

	"kickabout-app/internal/model"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	matches := s.store.ListMatches()
	players := s.store.ListPlayers()

	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	view := HistoryView{
		BaseView: s.baseView(r, "History", "history"),
		Matches:  matchViews(matches, names),
	}
	if chart, ok := buildRatingChart(matches, players); ok {
		view.ChartJSON = chart
		view.HasChart = true
	}
	s.render(w, "history.html", view)
}

func matchViews(matches []model.Match, names map[int64]string) []MatchView {
	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, MatchView{
			PlayedAtLabel: m.PlayedAt.Format("Mon 02 Jan 2006"),
			ScoreLine:     fmt.Sprintf("%d : %d", m.ScoreA, m.ScoreB),
			ResultText:    resultText(m.ScoreA, m.ScoreB),
			TeamA:         matchPlayerViews(m, m.TeamA, names),
			TeamB:         matchPlayerViews(m, m.TeamB, names),
		})
	}
	return views
}

func matchPlayerViews(m model.Match, ids []int64, names map[int64]string) []MatchPlayerView {
	views := make([]MatchPlayerView, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Player #%d", id)
		}
		snap := m.Snapshot[id]
		views = append(views, MatchPlayerView{
			Name:           name,
			EffectiveDelta: snap.EffectiveDelta(),
			Participation:  snap.Participation,
			Partial:        snap.Participation < 1.0,
		})
	}
	return views
}

type ratingChart struct {
	Labels   []string        `json:"labels"`
	Datasets []ratingDataset `json:"datasets"`
}

type ratingDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// buildRatingChart reconstructs each player's rating timeline from stored
// match snapshots. Current ratings are rewound by subtracting every
// effective delta, then replayed match by match in chronological order, so
// the last point of every line equals the player's rating today.
func buildRatingChart(matches []model.Match, players []model.Player) (template.JS, bool) {
	if len(matches) == 0 {
		return "", false
	}

	// ListMatches is newest-first; the chart plays forward in time.
	ordered := make([]model.Match, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].PlayedAt.Equal(ordered[j].PlayedAt) {
			return ordered[i].PlayedAt.Before(ordered[j].PlayedAt)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	ratings := make(map[int64]float64, len(players))
	names := make(map[int64]string, len(players))
	for _, p := range players {
		ratings[p.ID] = p.Rating
		names[p.ID] = p.Name
	}

	// Rewind to the rating each player had before their first recorded
	// match. Players deleted since still appear in snapshots; seed them
	// from the snapshot itself.
	tracked := make(map[int64]bool)
	for _, m := range ordered {
		for id, snap := range m.Snapshot {
			if _, ok := ratings[id]; !ok {
				ratings[id] = snap.Before + snap.EffectiveDelta()
				names[id] = fmt.Sprintf("Player #%d", id)
			}
			tracked[id] = true
		}
	}
	for _, m := range ordered {
		for id, snap := range m.Snapshot {
			ratings[id] -= snap.EffectiveDelta()
		}
	}

	ids := make([]int64, 0, len(tracked))
	for id := range tracked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return names[ids[i]] < names[ids[j]] })

	chart := ratingChart{Labels: []string{"Start"}}
	series := make(map[int64][]float64, len(ids))
	for _, id := range ids {
		series[id] = []float64{ratings[id]}
	}

	for _, m := range ordered {
		chart.Labels = append(chart.Labels, m.PlayedAt.Format("02 Jan"))
		for id, snap := range m.Snapshot {
			ratings[id] += snap.EffectiveDelta()
		}
		for _, id := range ids {
			series[id] = append(series[id], ratings[id])
		}
	}

	for _, id := range ids {
		chart.Datasets = append(chart.Datasets, ratingDataset{
			Label: names[id],
			Data:  series[id],
		})
	}

	encoded, err := json.Marshal(chart)
	if err != nil {
		return "", false
	}
	return template.JS(encoded), true
}
