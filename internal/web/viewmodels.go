package web

import (
	"html/template"

	"kickabout-app/internal/model"
)

type BaseView struct {
	Title           string
	Active          string
	AuthEnabled     bool
	IsAuthenticated bool
	FlashSuccess    string
}

type MatchDayView struct {
	BaseView
	Players    []model.Player
	MaxPlayers int
}

// TeamsView renders one generated split as an htmx partial.
type TeamsView struct {
	Split      model.TeamSplit
	AvgRatingA float64
	AvgRatingB float64
	Error      string
}

type RosterView struct {
	BaseView
	Players []model.Player
	AllTags []model.Tag
	Error   string
}

type RecordView struct {
	BaseView
	Players    []model.Player
	MaxPerTeam int
}

// RecordResultView renders the outcome of a recorded match, with
// before/after ratings per player.
type RecordResultView struct {
	ResultText string
	ScoreA     int
	ScoreB     int
	TeamA      []RecordResultRow
	TeamB      []RecordResultRow
	Error      string
}

type RecordResultRow struct {
	Name          string
	Before        float64
	After         float64
	Delta         float64
	Participation float64
	Partial       bool
}

type HistoryView struct {
	BaseView
	Matches   []MatchView
	ChartJSON template.JS
	HasChart  bool
}

type MatchView struct {
	PlayedAtLabel string
	ScoreLine     string
	ResultText    string
	TeamA         []MatchPlayerView
	TeamB         []MatchPlayerView
}

type MatchPlayerView struct {
	Name           string
	EffectiveDelta float64
	Participation  float64
	Partial        bool
}

type AuthView struct {
	BaseView
	Error string
}
