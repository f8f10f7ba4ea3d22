package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kickabout-app/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := applyMigrations(db, "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ListPlayers() []model.Player {
	rows, err := s.db.Query(`SELECT id, name, rating, tags, matches_played, created_at FROM players ORDER BY rating DESC, name ASC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		p, err := scanSQLitePlayerRow(rows)
		if err != nil {
			continue
		}
		players = append(players, p)
	}
	return players
}

func (s *SQLiteStore) GetPlayer(id int64) (model.Player, bool) {
	row := s.db.QueryRow(`SELECT id, name, rating, tags, matches_played, created_at FROM players WHERE id = ?`, id)
	p, err := scanSQLitePlayerRow(row)
	if err != nil {
		return model.Player{}, false
	}
	return p, true
}

func (s *SQLiteStore) GetPlayerByName(name string) (model.Player, bool) {
	row := s.db.QueryRow(`SELECT id, name, rating, tags, matches_played, created_at FROM players WHERE lower(name) = lower(?) LIMIT 1`, name)
	p, err := scanSQLitePlayerRow(row)
	if err != nil {
		return model.Player{}, false
	}
	return p, true
}

func (s *SQLiteStore) ListPlayersByIDs(ids []int64) []model.Player {
	if len(ids) == 0 {
		return []model.Player{}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.Query(`SELECT id, name, rating, tags, matches_played, created_at FROM players WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	byID := map[int64]model.Player{}
	for rows.Next() {
		p, err := scanSQLitePlayerRow(rows)
		if err != nil {
			continue
		}
		byID[p.ID] = p
	}
	return orderByIDs(byID, ids)
}

func (s *SQLiteStore) CreatePlayer(player model.Player) (model.Player, error) {
	if strings.TrimSpace(player.Name) == "" {
		return model.Player{}, errors.New("name is required")
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	result, err := s.db.Exec(`INSERT INTO players (name, rating, tags, matches_played, created_at) VALUES (?,?,?,?,?)`,
		player.Name, player.Rating, model.JoinTags(player.Tags), player.MatchesPlayed, timeValueString(player.CreatedAt),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.Player{}, errors.New("name already exists")
		}
		return model.Player{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Player{}, err
	}
	player.ID = id
	return player, nil
}

func (s *SQLiteStore) UpdatePlayer(player model.Player) error {
	res, err := s.db.Exec(`UPDATE players SET name = ?, rating = ?, tags = ?, matches_played = ? WHERE id = ?`,
		player.Name, player.Rating, model.JoinTags(player.Tags), player.MatchesPlayed, player.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("player not found")
	}
	return nil
}

func (s *SQLiteStore) DeletePlayer(id int64) error {
	res, err := s.db.Exec(`DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("player not found")
	}
	return nil
}

func (s *SQLiteStore) ListMatches() []model.Match {
	rows, err := s.db.Query(`SELECT id, played_at, team_a, team_b, score_a, score_b, snapshot, created_at FROM matches ORDER BY played_at DESC, created_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		m, err := scanSQLiteMatchRow(rows)
		if err != nil {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// RecordMatch applies the snapshot's rating updates and inserts the match
// row in one transaction; a failure on any step rolls everything back.
func (s *SQLiteStore) RecordMatch(match model.Match) (model.Match, error) {
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	if match.PlayedAt.IsZero() {
		match.PlayedAt = match.CreatedAt
	}

	tx, err := s.db.Begin()
	if err != nil {
		return model.Match{}, fmt.Errorf("begin record tx: %w", err)
	}
	for id, snap := range match.Snapshot {
		res, err := tx.Exec(`UPDATE players SET rating = ?, matches_played = matches_played + 1 WHERE id = ?`,
			snap.Before+snap.EffectiveDelta(), id,
		)
		if err != nil {
			_ = tx.Rollback()
			return model.Match{}, err
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			_ = tx.Rollback()
			return model.Match{}, errors.New("snapshot references unknown player")
		}
	}
	res, err := tx.Exec(`INSERT INTO matches (played_at, team_a, team_b, score_a, score_b, snapshot, created_at) VALUES (?,?,?,?,?,?,?)`,
		timeValueString(match.PlayedAt), string(toJSON(match.TeamA)), string(toJSON(match.TeamB)),
		match.ScoreA, match.ScoreB, string(toJSON(match.Snapshot)), timeValueString(match.CreatedAt),
	)
	if err != nil {
		_ = tx.Rollback()
		return model.Match{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return model.Match{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Match{}, fmt.Errorf("commit record tx: %w", err)
	}
	match.ID = id
	return match, nil
}

func scanSQLitePlayerRow(scanner interface{ Scan(dest ...any) error }) (model.Player, error) {
	var p model.Player
	var tags string
	var createdAt sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &p.Rating, &tags, &p.MatchesPlayed, &createdAt); err != nil {
		return model.Player{}, err
	}
	p.Tags = model.ParseTags(tags)
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			p.CreatedAt = parsed
		}
	}
	return p, nil
}

func scanSQLiteMatchRow(scanner interface{ Scan(dest ...any) error }) (model.Match, error) {
	var m model.Match
	var teamA, teamB, snapshot sql.NullString
	var playedAt, createdAt sql.NullString
	if err := scanner.Scan(&m.ID, &playedAt, &teamA, &teamB, &m.ScoreA, &m.ScoreB, &snapshot, &createdAt); err != nil {
		return model.Match{}, err
	}
	if playedAt.Valid {
		if parsed, ok := parseTimeString(playedAt.String); ok {
			m.PlayedAt = parsed
		}
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			m.CreatedAt = parsed
		}
	}
	if teamA.Valid && strings.TrimSpace(teamA.String) != "" {
		_ = json.Unmarshal([]byte(teamA.String), &m.TeamA)
	}
	if teamB.Valid && strings.TrimSpace(teamB.String) != "" {
		_ = json.Unmarshal([]byte(teamB.String), &m.TeamB)
	}
	if snapshot.Valid && strings.TrimSpace(snapshot.String) != "" {
		_ = json.Unmarshal([]byte(snapshot.String), &m.Snapshot)
	}
	return m, nil
}

func timeValueString(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// orderByIDs replays the caller's id ordering over the fetched rows.
func orderByIDs(byID map[int64]model.Player, ids []int64) []model.Player {
	players := make([]model.Player, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			players = append(players, p)
		}
	}
	return players
}
