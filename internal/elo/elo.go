// Package elo implements the paired, zero-sum rating exchange for a two-team
// match result.
package elo

import (
	"math"

	"kickabout-app/internal/model"
)

// Default rating constants, tuned for a casual 7v7 league.
const (
	DefaultKFactor           = 32.0
	DefaultHandicapPerPlayer = 100.0
	DefaultGoalDiffCap       = 2.5
)

// Option configures an Engine.
type Option func(*Engine)

func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.kFactor = k
		}
	}
}

func WithHandicapPerPlayer(handicap float64) Option {
	return func(e *Engine) {
		if handicap >= 0 {
			e.handicapPerPlayer = handicap
		}
	}
}

func WithGoalDiffCap(cap float64) Option {
	return func(e *Engine) {
		if cap >= 1 {
			e.goalDiffCap = cap
		}
	}
}

// Engine computes rating deltas. It is stateless apart from its constants
// and safe for concurrent use.
type Engine struct {
	kFactor           float64
	handicapPerPlayer float64
	goalDiffCap       float64
}

func New(opts ...Option) *Engine {
	e := &Engine{
		kFactor:           DefaultKFactor,
		handicapPerPlayer: DefaultHandicapPerPlayer,
		goalDiffCap:       DefaultGoalDiffCap,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AverageRating returns the mean rating of a team, 0 for an empty team.
func AverageRating(players []model.Player) float64 {
	if len(players) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range players {
		total += p.Rating
	}
	return total / float64(len(players))
}

// ExpectedScore is the standard logistic expectation for side A.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// GoalDiffMultiplier scales the exchange by margin of victory: 1.0 for a
// difference of 0 or 1, then +0.5 per extra goal up to the cap.
func (e *Engine) GoalDiffMultiplier(goalDiff int) float64 {
	if goalDiff <= 1 {
		return 1.0
	}
	return math.Min(1.0+float64(goalDiff-1)*0.5, e.goalDiffCap)
}

// Settle computes one EloSnapshot per participant for a finished match.
//
// participation maps player id to a fraction in [0,1]; absent players count
// as 1.0. A team whose effective size is smaller is given a rating handicap
// before the expected score is computed, so a short-handed team that holds
// a draw comes out ahead. The returned deltas are raw team deltas: delta_B
// is the exact negation of delta_A, and the caller applies
// delta*participation when mutating stored ratings.
func (e *Engine) Settle(teamA, teamB []model.Player, scoreA, scoreB int, participation map[int64]float64) map[int64]model.EloSnapshot {
	ratingA := AverageRating(teamA)
	ratingB := AverageRating(teamB)

	effectiveA := effectiveSize(teamA, participation)
	effectiveB := effectiveSize(teamB, participation)

	// A positive handicap means team A fields fewer effective players; its
	// rating is lowered for the expectation so the short side is judged
	// against a lower bar.
	handicap := (effectiveB - effectiveA) * e.handicapPerPlayer
	expectedA := ExpectedScore(ratingA-handicap, ratingB)

	actualA := 0.5
	if scoreA > scoreB {
		actualA = 1.0
	} else if scoreA < scoreB {
		actualA = 0.0
	}

	goalDiff := scoreA - scoreB
	if goalDiff < 0 {
		goalDiff = -goalDiff
	}
	multiplier := e.GoalDiffMultiplier(goalDiff)

	deltaA := e.kFactor * multiplier * (actualA - expectedA)
	deltaB := -deltaA

	snapshots := make(map[int64]model.EloSnapshot, len(teamA)+len(teamB))
	for _, p := range teamA {
		snapshots[p.ID] = model.EloSnapshot{
			Before:        p.Rating,
			Delta:         deltaA,
			Participation: playerParticipation(participation, p.ID),
		}
	}
	for _, p := range teamB {
		snapshots[p.ID] = model.EloSnapshot{
			Before:        p.Rating,
			Delta:         deltaB,
			Participation: playerParticipation(participation, p.ID),
		}
	}
	return snapshots
}

func effectiveSize(players []model.Player, participation map[int64]float64) float64 {
	total := 0.0
	for _, p := range players {
		total += playerParticipation(participation, p.ID)
	}
	return total
}

func playerParticipation(participation map[int64]float64, id int64) float64 {
	if frac, ok := participation[id]; ok {
		return frac
	}
	return 1.0
}
