// Package config holds process configuration: server wiring plus the league
// knobs that feed the balancer and the rating engine. Keeping the numeric
// constants here keeps both core packages pure and independently testable.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address for local runs, e.g. ":8000".
	Addr string `koanf:"addr"`

	// PostgresDSN selects the Postgres store when set.
	PostgresDSN string `koanf:"postgres_dsn"`

	// SQLitePath selects the SQLite store when set (and no Postgres DSN is).
	SQLitePath string `koanf:"sqlite_path"`

	// AdminPassword gates mutations. When both password fields are empty
	// the site runs unprotected.
	AdminPassword string `koanf:"admin_password"`

	// AdminPasswordHash is a bcrypt hash alternative to AdminPassword.
	AdminPasswordHash string `koanf:"admin_password_hash"`

	// KFactor is the Elo K-factor.
	KFactor float64 `koanf:"k_factor"`

	// HandicapPerPlayer is the rating handicap per missing effective player.
	HandicapPerPlayer float64 `koanf:"handicap_per_player"`

	// GoalDiffCap bounds the goal-difference multiplier.
	GoalDiffCap float64 `koanf:"goal_diff_cap"`

	// DefaultRating is assigned to new players.
	DefaultRating float64 `koanf:"default_rating"`

	// CostMode picks the balance cost formula: tag-value or tag-count.
	CostMode string `koanf:"cost_mode"`

	// TagWeights is the per-tag weight table for tag-count mode.
	TagWeights map[string]int `koanf:"tag_weights"`

	// ShuffleFactor and ShuffleSlack bound the near-optimal shuffle pool:
	// cost <= best*factor + slack.
	ShuffleFactor float64 `koanf:"shuffle_factor"`
	ShuffleSlack  float64 `koanf:"shuffle_slack"`
}

// New returns a Config with the league defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8000",
		KFactor:           32,
		HandicapPerPlayer: 100,
		GoalDiffCap:       2.5,
		DefaultRating:     1200,
		CostMode:          "tag-value",
		TagWeights: map[string]int{
			"PLAYMAKER": 100,
			"RUNNER":    80,
			"DEF":       40,
			"ATK":       20,
		},
		ShuffleFactor: 1.1,
		ShuffleSlack:  1.0,
	}
}
