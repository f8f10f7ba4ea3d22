package model

import (
	"strings"
	"time"
)

const (
	RatingDefault = 1200.0
	MaxPlayers    = 14
	MaxPerTeam    = MaxPlayers / 2
)

// Tag is a player capability used by the team balancer.
type Tag string

const (
	TagPlaymaker  Tag = "PLAYMAKER"
	TagRunner     Tag = "RUNNER"
	TagDefender   Tag = "DEF"
	TagAttacker   Tag = "ATK"
	TagGoalkeeper Tag = "GK"
)

// AllTags lists every recognized tag in display order.
var AllTags = []Tag{TagPlaymaker, TagRunner, TagDefender, TagAttacker, TagGoalkeeper}

// ParseTag matches a single token case-insensitively.
func ParseTag(token string) (Tag, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "PLAYMAKER":
		return TagPlaymaker, true
	case "RUNNER":
		return TagRunner, true
	case "DEF", "DEFENDER":
		return TagDefender, true
	case "ATK", "ATTACKER":
		return TagAttacker, true
	case "GK", "GOALKEEPER":
		return TagGoalkeeper, true
	}
	return "", false
}

// ParseTags parses a comma-separated tag field. Unrecognized tokens are
// dropped, duplicates collapse to one.
func ParseTags(raw string) []Tag {
	tags := []Tag{}
	seen := map[Tag]bool{}
	for _, token := range strings.Split(raw, ",") {
		tag, ok := ParseTag(token)
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// Value is the per-player balance weight of a tag. Goalkeepers carry no
// weight; they are handled by placement rules instead.
func (t Tag) Value() int {
	switch t {
	case TagPlaymaker:
		return 50
	case TagRunner:
		return 40
	case TagDefender:
		return 20
	case TagAttacker:
		return 10
	}
	return 0
}

func JoinTags(tags []Tag) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ",")
}

type Player struct {
	ID            int64
	Name          string
	Rating        float64
	Tags          []Tag
	MatchesPlayed int
	CreatedAt     time.Time
}

func (p Player) HasTag(tag Tag) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagValue sums the balance weights of the player's tags.
func (p Player) TagValue() int {
	total := 0
	for _, t := range p.Tags {
		total += t.Value()
	}
	return total
}

// TeamSplit is one candidate partition of the checked-in players, scored by
// the balancer. It is recomputed on every request and never persisted.
type TeamSplit struct {
	TeamA      []Player
	TeamB      []Player
	Cost       float64
	RatingDiff float64
	TagValueA  int
	TagValueB  int
}

// EloSnapshot records one player's rating exchange for a single match:
// the rating going in, the raw (unscaled) team delta, and the participation
// fraction the caller applies when mutating the stored rating.
type EloSnapshot struct {
	Before        float64 `json:"before"`
	Delta         float64 `json:"delta"`
	Participation float64 `json:"participation"`
}

// EffectiveDelta is the rating change actually applied to the player.
func (s EloSnapshot) EffectiveDelta() float64 {
	return s.Delta * s.Participation
}

type Match struct {
	ID        int64
	PlayedAt  time.Time
	TeamA     []int64
	TeamB     []int64
	ScoreA    int
	ScoreB    int
	Snapshot  map[int64]EloSnapshot
	CreatedAt time.Time
}
