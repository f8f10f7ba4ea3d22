package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kickabout-app/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applyMigrations(db, "migrations/postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) ListPlayers() []model.Player {
	rows, err := s.db.Query(`SELECT id, name, rating, tags, matches_played, created_at FROM players ORDER BY rating DESC, name ASC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		p, err := scanPlayerRow(rows)
		if err != nil {
			continue
		}
		players = append(players, p)
	}
	return players
}

func (s *PostgresStore) GetPlayer(id int64) (model.Player, bool) {
	row := s.db.QueryRow(`SELECT id, name, rating, tags, matches_played, created_at FROM players WHERE id = $1`, id)
	p, err := scanPlayerRow(row)
	if err != nil {
		return model.Player{}, false
	}
	return p, true
}

func (s *PostgresStore) GetPlayerByName(name string) (model.Player, bool) {
	row := s.db.QueryRow(`SELECT id, name, rating, tags, matches_played, created_at FROM players WHERE lower(name) = lower($1) LIMIT 1`, name)
	p, err := scanPlayerRow(row)
	if err != nil {
		return model.Player{}, false
	}
	return p, true
}

func (s *PostgresStore) ListPlayersByIDs(ids []int64) []model.Player {
	if len(ids) == 0 {
		return []model.Player{}
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.db.Query(`SELECT id, name, rating, tags, matches_played, created_at FROM players WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	byID := map[int64]model.Player{}
	for rows.Next() {
		p, err := scanPlayerRow(rows)
		if err != nil {
			continue
		}
		byID[p.ID] = p
	}
	return orderByIDs(byID, ids)
}

func (s *PostgresStore) CreatePlayer(player model.Player) (model.Player, error) {
	if strings.TrimSpace(player.Name) == "" {
		return model.Player{}, errors.New("name is required")
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	err := s.db.QueryRow(`INSERT INTO players (name, rating, tags, matches_played, created_at) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		player.Name, player.Rating, model.JoinTags(player.Tags), player.MatchesPlayed, player.CreatedAt,
	).Scan(&player.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.Player{}, errors.New("name already exists")
		}
		return model.Player{}, err
	}
	return player, nil
}

func (s *PostgresStore) UpdatePlayer(player model.Player) error {
	res, err := s.db.Exec(`UPDATE players SET name = $1, rating = $2, tags = $3, matches_played = $4 WHERE id = $5`,
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

func (s *PostgresStore) DeletePlayer(id int64) error {
	res, err := s.db.Exec(`DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("player not found")
	}
	return nil
}

func (s *PostgresStore) ListMatches() []model.Match {
	rows, err := s.db.Query(`SELECT id, played_at, team_a, team_b, score_a, score_b, snapshot, created_at FROM matches ORDER BY played_at DESC, created_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		m, err := scanMatchRow(rows)
		if err != nil {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// RecordMatch applies the snapshot's rating updates and inserts the match
// row in one transaction; a failure on any step rolls everything back.
func (s *PostgresStore) RecordMatch(match model.Match) (model.Match, error) {
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
		res, err := tx.Exec(`UPDATE players SET rating = $1, matches_played = matches_played + 1 WHERE id = $2`,
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
	err = tx.QueryRow(`INSERT INTO matches (played_at, team_a, team_b, score_a, score_b, snapshot, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		match.PlayedAt, toJSON(match.TeamA), toJSON(match.TeamB),
		match.ScoreA, match.ScoreB, toJSON(match.Snapshot), match.CreatedAt,
	).Scan(&match.ID)
	if err != nil {
		_ = tx.Rollback()
		return model.Match{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Match{}, fmt.Errorf("commit record tx: %w", err)
	}
	return match, nil
}

func scanPlayerRow(scanner interface{ Scan(dest ...any) error }) (model.Player, error) {
	var p model.Player
	var tags string
	var createdAt sql.NullTime
	if err := scanner.Scan(&p.ID, &p.Name, &p.Rating, &tags, &p.MatchesPlayed, &createdAt); err != nil {
		return model.Player{}, err
	}
	p.Tags = model.ParseTags(tags)
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	return p, nil
}

func scanMatchRow(scanner interface{ Scan(dest ...any) error }) (model.Match, error) {
	var m model.Match
	var teamA, teamB, snapshot []byte
	var playedAt, createdAt sql.NullTime
	if err := scanner.Scan(&m.ID, &playedAt, &teamA, &teamB, &m.ScoreA, &m.ScoreB, &snapshot, &createdAt); err != nil {
		return model.Match{}, err
	}
	if playedAt.Valid {
		m.PlayedAt = playedAt.Time
	}
	if createdAt.Valid {
		m.CreatedAt = createdAt.Time
	}
	if len(teamA) > 0 {
		_ = json.Unmarshal(teamA, &m.TeamA)
	}
	if len(teamB) > 0 {
		_ = json.Unmarshal(teamB, &m.TeamB)
	}
	if len(snapshot) > 0 {
		_ = json.Unmarshal(snapshot, &m.Snapshot)
	}
	return m, nil
}

func toJSON(v any) []byte {
	if v == nil {
		return []byte("null")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return data
}
