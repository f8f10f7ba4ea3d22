// Package balance splits a checked-in roster into two teams by exhaustively
// scoring every valid partition. The roster is capped at 14 players, so the
// C(N, N/2) search space stays small enough for brute force.
package balance

import (
	"math"
	"math/rand"

	"kickabout-app/internal/elo"
	"kickabout-app/internal/model"
)

// CostMode selects which generation of the cost function is used. The two
// formulas disagree on which split is optimal in general, so a balancer
// never mixes them.
type CostMode string

const (
	// CostTagValue diffs the per-player tag value totals of the two teams.
	CostTagValue CostMode = "tag-value"
	// CostTagCount weighs per-tag count imbalances with a fixed weight table.
	CostTagCount CostMode = "tag-count"
)

// Default weight table for CostTagCount mode.
var defaultTagWeights = map[model.Tag]int{
	model.TagPlaymaker: 100,
	model.TagRunner:    80,
	model.TagDefender:  40,
	model.TagAttacker:  20,
}

const (
	defaultShuffleFactor = 1.1
	defaultShuffleSlack  = 1.0
)

// randSource is the injected randomness used for shuffle picks and
// single-goalkeeper coin flips.
type randSource interface {
	Intn(n int) int
}

// globalRand delegates to math/rand's process-wide source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// Option configures a Balancer.
type Option func(*Balancer)

// WithCostMode selects the cost formula.
func WithCostMode(mode CostMode) Option {
	return func(b *Balancer) {
		if mode == CostTagValue || mode == CostTagCount {
			b.mode = mode
		}
	}
}

// WithTagWeights overrides the CostTagCount weight table.
func WithTagWeights(weights map[model.Tag]int) Option {
	return func(b *Balancer) {
		if len(weights) == 0 {
			return
		}
		b.weights = make(map[model.Tag]int, len(weights))
		for tag, w := range weights {
			b.weights[tag] = w
		}
	}
}

// WithRand injects a seedable random source so shuffle behavior is testable.
func WithRand(r *rand.Rand) Option {
	return func(b *Balancer) {
		if r != nil {
			b.rng = r
		}
	}
}

// WithShuffleTolerance sets the near-optimal pool bounds: a split qualifies
// when cost <= best*factor + slack.
func WithShuffleTolerance(factor, slack float64) Option {
	return func(b *Balancer) {
		if factor >= 1 && slack >= 0 {
			b.shuffleFactor = factor
			b.shuffleSlack = slack
		}
	}
}

// Balancer is a pure searcher; the only state it carries is configuration
// and the random source used when shuffling.
type Balancer struct {
	mode          CostMode
	weights       map[model.Tag]int
	rng           randSource
	shuffleFactor float64
	shuffleSlack  float64
}

func New(opts ...Option) *Balancer {
	b := &Balancer{
		mode:          CostTagValue,
		weights:       defaultTagWeights,
		rng:           globalRand{},
		shuffleFactor: defaultShuffleFactor,
		shuffleSlack:  defaultShuffleSlack,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Split partitions players into two teams of sizes floor(N/2) and ceil(N/2).
// With randomize=false the first minimum-cost split in enumeration order is
// returned, which is deterministic for a given input order. With
// randomize=true the result is drawn uniformly from the near-optimal pool.
// Returns false when fewer than two players are supplied.
func (b *Balancer) Split(players []model.Player, randomize bool) (model.TeamSplit, bool) {
	if len(players) < 2 {
		return model.TeamSplit{}, false
	}
	teamSize := len(players) / 2

	var keepers, field []model.Player
	for _, p := range players {
		if p.HasTag(model.TagGoalkeeper) {
			keepers = append(keepers, p)
		} else {
			field = append(field, p)
		}
	}

	var candidates []model.TeamSplit

	switch {
	case len(keepers) == 2 && len(field) >= (teamSize-1)*2:
		// One keeper per side is forced; only the field players are searched.
		combinations(len(field), teamSize-1, func(idx []int) {
			teamA := withLead(keepers[0], pick(field, idx))
			teamB := withLead(keepers[1], drop(field, idx))
			candidates = append(candidates, b.score(teamA, teamB))
		})

	case len(keepers) == 1:
		keeperOnA := true
		if randomize {
			keeperOnA = b.rng.Intn(2) == 0
		}
		comboSize := teamSize
		if keeperOnA {
			comboSize = teamSize - 1
		}
		combinations(len(field), comboSize, func(idx []int) {
			var teamA, teamB []model.Player
			if keeperOnA {
				teamA = withLead(keepers[0], pick(field, idx))
				teamB = drop(field, idx)
			} else {
				teamA = pick(field, idx)
				teamB = withLead(keepers[0], drop(field, idx))
			}
			candidates = append(candidates, b.score(teamA, teamB))
		})

	default:
		// 0 or 3+ keepers, or too few field players to honor the keeper
		// rule: every player is treated uniformly.
		combinations(len(players), teamSize, func(idx []int) {
			candidates = append(candidates, b.score(pick(players, idx), drop(players, idx)))
		})
	}

	return b.choose(candidates, randomize)
}

// score computes the cost of one candidate partition.
func (b *Balancer) score(teamA, teamB []model.Player) model.TeamSplit {
	ratingDiff := math.Abs(elo.AverageRating(teamA) - elo.AverageRating(teamB))
	tagValueA := teamTagValue(teamA)
	tagValueB := teamTagValue(teamB)

	var tagCost float64
	switch b.mode {
	case CostTagCount:
		// Iterate the fixed tag order so repeated scoring of the same split
		// sums in the same order.
		for _, tag := range model.AllTags {
			weight := b.weights[tag]
			if weight == 0 {
				continue
			}
			diff := countTag(teamA, tag) - countTag(teamB, tag)
			if diff < 0 {
				diff = -diff
			}
			tagCost += float64(diff * weight)
		}
	default:
		diff := tagValueA - tagValueB
		if diff < 0 {
			diff = -diff
		}
		tagCost = float64(diff)
	}

	return model.TeamSplit{
		TeamA:      teamA,
		TeamB:      teamB,
		Cost:       ratingDiff + tagCost,
		RatingDiff: ratingDiff,
		TagValueA:  tagValueA,
		TagValueB:  tagValueB,
	}
}

// choose applies the selection policy over every scored candidate.
func (b *Balancer) choose(candidates []model.TeamSplit, randomize bool) (model.TeamSplit, bool) {
	if len(candidates) == 0 {
		return model.TeamSplit{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Cost < best.Cost {
			best = c
		}
	}
	if randomize {
		threshold := best.Cost*b.shuffleFactor + b.shuffleSlack
		var pool []model.TeamSplit
		for _, c := range candidates {
			if c.Cost <= threshold {
				pool = append(pool, c)
			}
		}
		if len(pool) > 0 {
			return pool[b.rng.Intn(len(pool))], true
		}
	}
	return best, true
}

// combinations visits every k-subset of [0,n) exactly once in lexicographic
// index order.
func combinations(n, k int, visit func(idx []int)) {
	if k < 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		visit(idx)
		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// pick copies the players at the given indexes.
func pick(players []model.Player, idx []int) []model.Player {
	team := make([]model.Player, 0, len(idx))
	for _, i := range idx {
		team = append(team, players[i])
	}
	return team
}

// drop copies the players not at the given indexes. idx is sorted ascending.
func drop(players []model.Player, idx []int) []model.Player {
	team := make([]model.Player, 0, len(players)-len(idx))
	next := 0
	for i, p := range players {
		if next < len(idx) && idx[next] == i {
			next++
			continue
		}
		team = append(team, p)
	}
	return team
}

func withLead(lead model.Player, rest []model.Player) []model.Player {
	team := make([]model.Player, 0, len(rest)+1)
	team = append(team, lead)
	return append(team, rest...)
}

func teamTagValue(players []model.Player) int {
	total := 0
	for _, p := range players {
		total += p.TagValue()
	}
	return total
}

func countTag(players []model.Player, tag model.Tag) int {
	count := 0
	for _, p := range players {
		if p.HasTag(tag) {
			count++
		}
	}
	return count
}
