package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// User is a named player on the leaderboard.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Round is one completed daily round.
type Round struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	PlayedOn   time.Time `db:"played_on" json:"played_on"`
	Score      int       `db:"score" json:"score"`
	BestStreak int       `db:"best_streak" json:"best_streak"`
	DaysInARow int       `db:"days_in_a_row" json:"days_in_a_row"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LeaderboardEntry is a row of either leaderboard view.
type LeaderboardEntry struct {
	UserID       int          `db:"user_id" json:"user_id"`
	Username     string       `db:"username" json:"username"`
	DaysPlayed   int          `db:"days_played" json:"days_played"`
	TotalScore   int          `db:"total_score" json:"total_score"`
	BestScore    int          `db:"best_score" json:"best_score"`
	AverageScore float64      `db:"average_score" json:"average_score"`
	MissingDays  int          `db:"missing_days" json:"missing_days"`
	LastPlayed   sql.NullTime `db:"last_played" json:"last_played"`
}

// AdminAccount represents an admin user
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one recorded admin action.
type AdminAudit struct {
	ID            int            `db:"id" json:"id"`
	AdminUsername sql.NullString `db:"admin_username" json:"admin_username"`
	IP            sql.NullString `db:"ip" json:"ip"`
	Route         sql.NullString `db:"route" json:"route"`
	Action        sql.NullString `db:"action" json:"action"`
	Details       sql.NullString `db:"details" json:"details"`
	Success       sql.NullBool   `db:"success" json:"success"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// RuntimeConfig is an admin-editable override of a game rule.
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description string         `db:"description" json:"description"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
