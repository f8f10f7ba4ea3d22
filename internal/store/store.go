package store

import "kickabout-app/internal/model"

// Store persists the roster and the append-only match history.
//
// RecordMatch is the one compound write: it applies every participant's
// effective rating change, bumps their match counts, and inserts the match
// row as a single all-or-nothing unit.
type Store interface {
	ListPlayers() []model.Player
	GetPlayer(id int64) (model.Player, bool)
	GetPlayerByName(name string) (model.Player, bool)
	ListPlayersByIDs(ids []int64) []model.Player
	CreatePlayer(player model.Player) (model.Player, error)
	UpdatePlayer(player model.Player) error
	DeletePlayer(id int64) error

	ListMatches() []model.Match
	RecordMatch(match model.Match) (model.Match, error)
}
