package store

import (
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"kickabout-app/internal/model"
)

// MemoryStore keeps everything in process memory. It is the default store
// for local development and the one the handler tests run against.
type MemoryStore struct {
	mu           sync.RWMutex
	players      map[int64]model.Player
	matches      map[int64]model.Match
	nextPlayerID int64
	nextMatchID  int64
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		players: make(map[int64]model.Player),
		matches: make(map[int64]model.Match),
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("APP"))) != "prod" {
		seedData(s)
	}
	return s
}

func (s *MemoryStore) ListPlayers() []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sortPlayers(players)
	return players
}

func (s *MemoryStore) GetPlayer(id int64) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	return p, ok
}

func (s *MemoryStore) GetPlayerByName(name string) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return model.Player{}, false
}

func (s *MemoryStore) ListPlayersByIDs(ids []int64) []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (s *MemoryStore) CreatePlayer(player model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(player.Name) == "" {
		return model.Player{}, errors.New("name is required")
	}
	for _, p := range s.players {
		if strings.EqualFold(p.Name, player.Name) {
			return model.Player{}, errors.New("name already exists")
		}
	}
	if player.ID == 0 {
		s.nextPlayerID++
		player.ID = s.nextPlayerID
	} else if player.ID > s.nextPlayerID {
		s.nextPlayerID = player.ID
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	s.players[player.ID] = player
	return player, nil
}

func (s *MemoryStore) UpdatePlayer(player model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[player.ID]; !ok {
		return errors.New("player not found")
	}
	s.players[player.ID] = player
	return nil
}

func (s *MemoryStore) DeletePlayer(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return errors.New("player not found")
	}
	delete(s.players, id)
	return nil
}

func (s *MemoryStore) ListMatches() []model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].PlayedAt.Equal(matches[j].PlayedAt) {
			return matches[i].PlayedAt.After(matches[j].PlayedAt)
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches
}

// RecordMatch applies every snapshot's effective delta and inserts the match
// under one lock so readers never observe a half-applied result.
func (s *MemoryStore) RecordMatch(match model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range match.Snapshot {
		if _, ok := s.players[id]; !ok {
			return model.Match{}, errors.New("snapshot references unknown player")
		}
	}
	for id, snap := range match.Snapshot {
		p := s.players[id]
		p.Rating = snap.Before + snap.EffectiveDelta()
		p.MatchesPlayed++
		s.players[id] = p
	}

	s.nextMatchID++
	match.ID = s.nextMatchID
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	if match.PlayedAt.IsZero() {
		match.PlayedAt = match.CreatedAt
	}
	s.matches[match.ID] = match
	return match, nil
}

func sortPlayers(players []model.Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].Rating != players[j].Rating {
			return players[i].Rating > players[j].Rating
		}
		return players[i].Name < players[j].Name
	})
}

func seedData(s *MemoryStore) {
	seed := []model.Player{
		{Name: "Marco", Rating: 1350, Tags: []model.Tag{model.TagPlaymaker}},
		{Name: "Jonas", Rating: 1290, Tags: []model.Tag{model.TagRunner}},
		{Name: "Pavel", Rating: 1260, Tags: []model.Tag{model.TagGoalkeeper}},
		{Name: "Tim", Rating: 1240, Tags: []model.Tag{model.TagDefender}},
		{Name: "Luca", Rating: 1220, Tags: []model.Tag{model.TagAttacker}},
		{Name: "Ben", Rating: 1200, Tags: nil},
		{Name: "Oscar", Rating: 1180, Tags: []model.Tag{model.TagDefender}},
		{Name: "Karim", Rating: 1160, Tags: []model.Tag{model.TagRunner}},
		{Name: "Sam", Rating: 1140, Tags: []model.Tag{model.TagGoalkeeper}},
		{Name: "Felix", Rating: 1110, Tags: nil},
	}
	for _, p := range seed {
		_, _ = s.CreatePlayer(p)
	}
}
